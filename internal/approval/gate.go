package approval

import (
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

// Patch is a partial reservation update. Nil fields are left unchanged.
type Patch struct {
	StartTime   *time.Time
	EndTime     *time.Time
	Description *string
	Contact     *string
	Status      *models.ReservationStatus

	// Staff-only fields.
	CurrentStep     *models.ApprovalStep
	PaymentStatus   *models.PaymentStatus
	PaymentAmount   *float64
	ApproverID      *uint
	ApprovalComment *string
}

// TimeChanged reports whether the patch moves the reservation window.
func (p Patch) TimeChanged() bool {
	return p.StartTime != nil || p.EndTime != nil
}

// ownerFields keeps only the fields an owner may edit.
func (p Patch) ownerFields() Patch {
	return Patch{
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Description: p.Description,
		Contact:     p.Contact,
		Status:      p.Status,
	}
}

// OwnerEditable reports whether an owner may still change a reservation in status s.
func OwnerEditable(s models.ReservationStatus) bool {
	return s == models.ReservationPending || s == models.ReservationReturned
}

// AuthorizePatch checks actor's right to apply p to r and returns the patch
// that may be applied. Staff may change anything. Owners may change time,
// description, contact or cancel while the reservation is pending or
// returned; other fields they send are dropped.
func AuthorizePatch(actor *models.User, r *models.Reservation, p Patch) (Patch, error) {
	if actor == nil {
		return Patch{}, ErrNotOwner
	}
	if actor.IsStaff() {
		return p, nil
	}
	if actor.ID != r.UserID {
		return Patch{}, ErrNotOwner
	}
	if !OwnerEditable(r.Status) {
		return Patch{}, ErrStateLocked
	}

	allowed := p.ownerFields()
	if allowed.Status != nil && *allowed.Status != models.ReservationCancelled {
		return Patch{}, ErrOwnerMayOnlyCancel
	}

	return allowed, nil
}

// ApplyPatch writes p onto r and keeps current_step consistent with status.
func ApplyPatch(r *models.Reservation, p Patch, owner *models.User) *Outcome {
	from := r.Status

	if p.StartTime != nil {
		r.StartTime = p.StartTime.UTC()
	}
	if p.EndTime != nil {
		r.EndTime = p.EndTime.UTC()
	}
	if p.Description != nil {
		r.Description = p.Description
	}
	if p.Contact != nil {
		r.Contact = p.Contact
	}
	if p.PaymentStatus != nil {
		r.PaymentStatus = *p.PaymentStatus
	}
	if p.PaymentAmount != nil {
		r.PaymentAmount = *p.PaymentAmount
	}
	if p.ApproverID != nil {
		r.ApproverID = p.ApproverID
	}
	if p.ApprovalComment != nil {
		r.ApprovalComment = p.ApprovalComment
	}
	if p.CurrentStep != nil {
		step := *p.CurrentStep
		r.CurrentStep = &step
	}
	if p.Status != nil {
		r.Status = *p.Status
	}

	switch {
	case !r.Status.InApproval():
		r.CurrentStep = nil
	case r.CurrentStep == nil:
		var bt *models.BorrowerType
		if owner != nil {
			bt = owner.BorrowerType
		}
		step := Initial(bt).Step
		r.CurrentStep = &step
	}

	action := ActionUpdate
	if r.Status == models.ReservationCancelled && from != models.ReservationCancelled {
		action = ActionCancel
	}
	return &Outcome{Action: action, From: from, To: r.Status}
}

// CanView reports whether actor may see a reservation owned by owner.
func CanView(actor *models.User, r *models.Reservation, owner *models.User) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff() || actor.ID == r.UserID {
		return true
	}
	return actor.Supervises(owner)
}
