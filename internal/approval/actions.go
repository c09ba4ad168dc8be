package approval

import (
	"errors"
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

var (
	ErrNotInApproval        = errors.New("reservation is not waiting for approval")
	ErrNotApprover          = errors.New("caller cannot act on the current approval step")
	ErrPaymentOutstanding   = errors.New("payment has not been settled")
	ErrInvalidTransition    = errors.New("transition not allowed from current status")
	ErrStateLocked          = errors.New("current state disallows modification")
	ErrOwnerMayOnlyCancel   = errors.New("owner may only cancel the reservation")
	ErrNotOwner             = errors.New("caller does not own the reservation")
	ErrStaffOnly            = errors.New("operation requires admin or head")
	ErrPaymentNotPending    = errors.New("no payment is pending")
	ErrRefundNotApplicable  = errors.New("refund requires a paid, cancelled or rejected reservation")
	ErrApplicantUnavailable = errors.New("applicant record is required")
)

type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionReturn   Action = "return"
	ActionResubmit Action = "resubmit"
	ActionCancel   Action = "cancel"
	ActionPay      Action = "pay"
	ActionWaive    Action = "waive"
	ActionActivate Action = "activate"
	ActionBorrow   Action = "borrow"
	ActionComplete Action = "complete"
	ActionRefund   Action = "refund"
)

// Outcome records a transition applied to a reservation.
type Outcome struct {
	Action Action
	From   models.ReservationStatus
	To     models.ReservationStatus
}

// CanApprove reports whether actor may decide the given step of applicant's reservation.
func CanApprove(actor, applicant *models.User, step models.ApprovalStep) bool {
	if actor == nil {
		return false
	}

	switch step {
	case models.StepAdvisor:
		return actor.IsStaff() || actor.Supervises(applicant)
	case models.StepAdmin, models.StepHead, models.StepPayment, models.StepFinal:
		return actor.IsStaff()
	}

	return false
}

// Approve advances r by one step of the table in Next.
func Approve(r *models.Reservation, actor, applicant *models.User, comment *string, now time.Time) (*Outcome, error) {
	if applicant == nil {
		return nil, ErrApplicantUnavailable
	}
	next := Next(r.Status, r.CurrentStep, applicant.BorrowerType)
	if next == nil {
		return nil, ErrNotInApproval
	}

	step := *r.CurrentStep
	if !CanApprove(actor, applicant, step) {
		return nil, ErrNotApprover
	}
	if step == models.StepPayment && !r.PaymentStatus.Settled() {
		return nil, ErrPaymentOutstanding
	}

	from := r.Status
	recordDecision(r, step, actor, comment, now)
	r.Status = next.Status
	r.CurrentStep = next.stored()

	return &Outcome{Action: ActionApprove, From: from, To: r.Status}, nil
}

// Reject ends the workflow at the current step.
func Reject(r *models.Reservation, actor, applicant *models.User, comment *string, now time.Time) (*Outcome, error) {
	return decide(r, actor, applicant, comment, now, ActionReject, models.ReservationRejected)
}

// Return hands the reservation back to its owner for changes.
func Return(r *models.Reservation, actor, applicant *models.User, comment *string, now time.Time) (*Outcome, error) {
	return decide(r, actor, applicant, comment, now, ActionReturn, models.ReservationReturned)
}

func decide(r *models.Reservation, actor, applicant *models.User, comment *string, now time.Time, action Action, to models.ReservationStatus) (*Outcome, error) {
	if !r.Status.InApproval() || r.CurrentStep == nil {
		return nil, ErrNotInApproval
	}
	step := *r.CurrentStep
	if !CanApprove(actor, applicant, step) {
		return nil, ErrNotApprover
	}

	from := r.Status
	recordDecision(r, step, actor, comment, now)
	r.Status = to
	r.CurrentStep = nil

	return &Outcome{Action: action, From: from, To: to}, nil
}

// recordDecision writes the approver id, comment and time into the trio owned by step.
func recordDecision(r *models.Reservation, step models.ApprovalStep, actor *models.User, comment *string, now time.Time) {
	id := actor.ID
	at := now

	switch step {
	case models.StepAdvisor:
		r.AdvisorID, r.AdvisorComment, r.AdvisorApprovalTime = &id, comment, &at
	case models.StepHead:
		r.HeadID, r.HeadComment, r.HeadApprovalTime = &id, comment, &at
	case models.StepAdmin, models.StepPayment, models.StepFinal:
		r.ApproverID, r.ApprovalComment, r.ApprovalTime = &id, comment, &at
	}
}

// Resubmit restarts the workflow of a returned reservation.
func Resubmit(r *models.Reservation, actor, owner *models.User) (*Outcome, error) {
	if actor == nil || actor.ID != r.UserID {
		return nil, ErrNotOwner
	}
	if r.Status != models.ReservationReturned {
		return nil, ErrInvalidTransition
	}

	step := Initial(owner.BorrowerType).Step
	from := r.Status
	r.Status = models.ReservationPending
	r.CurrentStep = &step

	return &Outcome{Action: ActionResubmit, From: from, To: r.Status}, nil
}

// ConfirmPayment marks a pending payment as paid. orderNo comes from the finance collaborator.
func ConfirmPayment(r *models.Reservation, actor *models.User, orderNo string, now time.Time) (*Outcome, error) {
	if actor == nil || (!actor.IsStaff() && actor.ID != r.UserID) {
		return nil, ErrNotOwner
	}
	if r.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	if r.PaymentStatus != models.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	at := now
	r.PaymentStatus = models.PaymentPaid
	r.PaymentOrderNo = &orderNo
	r.PaymentTime = &at

	return &Outcome{Action: ActionPay, From: r.Status, To: r.Status}, nil
}

// WaivePayment clears a pending payment without charge.
func WaivePayment(r *models.Reservation, actor *models.User) (*Outcome, error) {
	if !actor.IsStaff() {
		return nil, ErrStaffOnly
	}
	if r.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	if r.PaymentStatus != models.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	r.PaymentStatus = models.PaymentWaived
	return &Outcome{Action: ActionWaive, From: r.Status, To: r.Status}, nil
}

// Activate makes an approved and settled reservation ready for pickup.
func Activate(r *models.Reservation, actor *models.User) (*Outcome, error) {
	if !actor.IsStaff() {
		return nil, ErrStaffOnly
	}
	if r.Status != models.ReservationApproved {
		return nil, ErrInvalidTransition
	}
	if !r.PaymentStatus.Settled() {
		return nil, ErrPaymentOutstanding
	}

	return move(r, ActionActivate, models.ReservationEffective), nil
}

// Borrow records the device handover.
func Borrow(r *models.Reservation, actor *models.User, note *string, now time.Time) (*Outcome, error) {
	if !actor.IsStaff() {
		return nil, ErrStaffOnly
	}
	if r.Status != models.ReservationEffective {
		return nil, ErrInvalidTransition
	}

	at := now
	r.BorrowTime = &at
	r.HandoverNote = note
	return move(r, ActionBorrow, models.ReservationBorrowed), nil
}

// Complete records the device return and closes the reservation.
func Complete(r *models.Reservation, actor *models.User, note *string, now time.Time) (*Outcome, error) {
	if !actor.IsStaff() {
		return nil, ErrStaffOnly
	}
	if r.Status != models.ReservationBorrowed {
		return nil, ErrInvalidTransition
	}

	at := now
	r.ReturnTime = &at
	r.ReturnNote = note
	return move(r, ActionComplete, models.ReservationCompleted), nil
}

// Refund returns the paid amount of a cancelled or rejected reservation.
func Refund(r *models.Reservation, actor *models.User, now time.Time) (*Outcome, error) {
	if !actor.IsStaff() {
		return nil, ErrStaffOnly
	}
	if r.PaymentStatus != models.PaymentPaid ||
		(r.Status != models.ReservationCancelled && r.Status != models.ReservationRejected) {
		return nil, ErrRefundNotApplicable
	}

	amount := r.PaymentAmount
	at := now
	r.PaymentStatus = models.PaymentRefunded
	r.RefundAmount = &amount
	r.RefundTime = &at

	return &Outcome{Action: ActionRefund, From: r.Status, To: r.Status}, nil
}

func move(r *models.Reservation, action Action, to models.ReservationStatus) *Outcome {
	from := r.Status
	r.Status = to
	r.CurrentStep = nil
	return &Outcome{Action: action, From: from, To: to}
}
