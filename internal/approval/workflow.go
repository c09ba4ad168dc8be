// Package approval implements the reservation approval workflow: the initial
// step assignment per borrower type, the forward transition table, and the
// authority rules for applying transitions to a reservation.
//
// Everything here is a pure function over models values. Persistence and
// locking belong to the caller.
package approval

import (
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

// Assignment is the workflow state given to a reservation at submission.
type Assignment struct {
	Step    models.ApprovalStep
	Payment models.PaymentStatus
}

// Initial returns the first approval step and payment requirement for a
// borrower type. A nil borrower type follows the teacher path.
func Initial(bt *models.BorrowerType) Assignment {
	if bt == nil {
		return Assignment{Step: models.StepAdmin, Payment: models.PaymentNotRequired}
	}

	switch *bt {
	case models.BorrowerStudent:
		return Assignment{Step: models.StepAdvisor, Payment: models.PaymentNotRequired}
	case models.BorrowerExternal:
		return Assignment{Step: models.StepAdmin, Payment: models.PaymentPending}
	case models.BorrowerTeacher:
		return Assignment{Step: models.StepAdmin, Payment: models.PaymentNotRequired}
	}

	return Assignment{Step: models.StepAdmin, Payment: models.PaymentNotRequired}
}

// NextAction is the status and step a reservation would move to if the
// approver of its current step approved now.
type NextAction struct {
	Status      models.ReservationStatus `json:"status"`
	CurrentStep *models.ApprovalStep     `json:"current_step"`
}

// Next computes the predicted transition for (status, step, borrower type).
// It returns nil when the reservation is not waiting on an approval step.
func Next(status models.ReservationStatus, step *models.ApprovalStep, bt *models.BorrowerType) *NextAction {
	if !status.InApproval() || step == nil {
		return nil
	}

	switch *step {
	case models.StepAdvisor:
		return transition(models.ReservationAdvisorApproved, models.StepAdmin)
	case models.StepAdmin:
		if bt != nil && *bt == models.BorrowerExternal {
			return transition(models.ReservationAdminApproved, models.StepHead)
		}
		return transition(models.ReservationApproved, models.StepFinal)
	case models.StepHead:
		return transition(models.ReservationHeadApproved, models.StepPayment)
	case models.StepPayment:
		return transition(models.ReservationApproved, models.StepFinal)
	case models.StepFinal:
		return &NextAction{Status: models.ReservationApproved}
	}

	return nil
}

// NextFor is Next applied to a stored reservation and its owner.
func NextFor(r *models.Reservation, owner *models.User) *NextAction {
	var bt *models.BorrowerType
	if owner != nil {
		bt = owner.BorrowerType
	}
	return Next(r.Status, r.CurrentStep, bt)
}

func transition(status models.ReservationStatus, step models.ApprovalStep) *NextAction {
	return &NextAction{Status: status, CurrentStep: &step}
}

// stored returns the step to persist after an approval. Reaching approved
// closes the chain, so a predicted final step is stored as no step.
func (n *NextAction) stored() *models.ApprovalStep {
	if n.Status == models.ReservationApproved {
		return nil
	}
	return n.CurrentStep
}
