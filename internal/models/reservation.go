package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReservationStatus string

const (
	ReservationPending         ReservationStatus = "pending"
	ReservationAdvisorApproved ReservationStatus = "advisor_approved"
	ReservationAdminApproved   ReservationStatus = "admin_approved"
	ReservationHeadApproved    ReservationStatus = "head_approved"
	ReservationApproved        ReservationStatus = "approved"
	ReservationRejected        ReservationStatus = "rejected"
	ReservationReturned        ReservationStatus = "returned"
	ReservationEffective       ReservationStatus = "effective"
	ReservationBorrowed        ReservationStatus = "borrowed"
	ReservationCompleted       ReservationStatus = "completed"
	ReservationCancelled       ReservationStatus = "cancelled"
)

// AllReservationStatuses lists every reservation status in lifecycle order.
var AllReservationStatuses = []ReservationStatus{
	ReservationPending,
	ReservationAdvisorApproved,
	ReservationAdminApproved,
	ReservationHeadApproved,
	ReservationApproved,
	ReservationRejected,
	ReservationReturned,
	ReservationEffective,
	ReservationBorrowed,
	ReservationCompleted,
	ReservationCancelled,
}

// ActiveReservationStatuses are the statuses that hold a device for their time window.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationPending,
	ReservationAdvisorApproved,
	ReservationAdminApproved,
	ReservationHeadApproved,
	ReservationApproved,
	ReservationEffective,
	ReservationBorrowed,
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationPending, ReservationAdvisorApproved, ReservationAdminApproved, ReservationHeadApproved,
		ReservationApproved, ReservationRejected, ReservationReturned, ReservationEffective,
		ReservationBorrowed, ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// InApproval reports whether the reservation is waiting on an approval step.
func (s ReservationStatus) InApproval() bool {
	switch s {
	case ReservationPending, ReservationAdvisorApproved, ReservationAdminApproved, ReservationHeadApproved:
		return true
	case ReservationApproved, ReservationRejected, ReservationReturned, ReservationEffective,
		ReservationBorrowed, ReservationCompleted, ReservationCancelled:
		return false
	}
	return false
}

// Occupies reports whether a reservation in this status blocks its device.
func (s ReservationStatus) Occupies() bool {
	switch s {
	case ReservationPending, ReservationAdvisorApproved, ReservationAdminApproved, ReservationHeadApproved,
		ReservationApproved, ReservationEffective, ReservationBorrowed:
		return true
	case ReservationRejected, ReservationReturned, ReservationCompleted, ReservationCancelled:
		return false
	}
	return false
}

// IsTerminal reports whether no further transition can leave this status.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case ReservationRejected, ReservationCompleted, ReservationCancelled:
		return true
	case ReservationPending, ReservationAdvisorApproved, ReservationAdminApproved, ReservationHeadApproved,
		ReservationApproved, ReservationReturned, ReservationEffective, ReservationBorrowed:
		return false
	}
	return false
}

type ApprovalStep string

const (
	StepAdvisor ApprovalStep = "advisor"
	StepAdmin   ApprovalStep = "admin"
	StepHead    ApprovalStep = "head"
	StepPayment ApprovalStep = "payment"
	StepFinal   ApprovalStep = "final"
)

func (s ApprovalStep) IsValid() bool {
	switch s {
	case StepAdvisor, StepAdmin, StepHead, StepPayment, StepFinal:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentNotRequired PaymentStatus = "not_required"
	PaymentPending     PaymentStatus = "pending"
	PaymentPaid        PaymentStatus = "paid"
	PaymentRefunded    PaymentStatus = "refunded"
	PaymentWaived      PaymentStatus = "waived"
)

var AllPaymentStatuses = []PaymentStatus{PaymentNotRequired, PaymentPending, PaymentPaid, PaymentRefunded, PaymentWaived}

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentNotRequired, PaymentPending, PaymentPaid, PaymentRefunded, PaymentWaived:
		return true
	}
	return false
}

// Settled reports whether nothing is owed.
func (p PaymentStatus) Settled() bool {
	switch p {
	case PaymentNotRequired, PaymentPaid, PaymentWaived:
		return true
	case PaymentPending, PaymentRefunded:
		return false
	}
	return false
}

// Reservation holds foreign-key ids only; related users and devices are looked up explicitly.
type Reservation struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	DeviceID    uint      `json:"device_id" gorm:"not null;index"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	StartTime   time.Time `json:"start_time" gorm:"not null;index"`
	EndTime     time.Time `json:"end_time" gorm:"not null;index"`
	Description *string   `json:"description" gorm:"size:255"`
	Contact     *string   `json:"contact" gorm:"size:100"`

	Status      ReservationStatus `json:"status" gorm:"not null;size:32;index"`
	CurrentStep *ApprovalStep     `json:"current_step" gorm:"size:16"`

	// Approval trio: admin approver, student advisor, department head.
	ApproverID          *uint      `json:"approver_id"`
	ApprovalComment     *string    `json:"approval_comment" gorm:"size:500"`
	ApprovalTime        *time.Time `json:"approval_time"`
	AdvisorID           *uint      `json:"advisor_id"`
	AdvisorComment      *string    `json:"advisor_comment" gorm:"size:500"`
	AdvisorApprovalTime *time.Time `json:"advisor_approval_time"`
	HeadID              *uint      `json:"head_id"`
	HeadComment         *string    `json:"head_comment" gorm:"size:500"`
	HeadApprovalTime    *time.Time `json:"head_approval_time"`

	PaymentAmount  float64       `json:"payment_amount" gorm:"not null;default:0"`
	PaymentStatus  PaymentStatus `json:"payment_status" gorm:"not null;size:16;index"`
	PaymentOrderNo *string       `json:"payment_order_no" gorm:"size:64"`
	PaymentTime    *time.Time    `json:"payment_time"`
	RefundAmount   *float64      `json:"refund_amount"`
	RefundTime     *time.Time    `json:"refund_time"`

	BorrowTime   *time.Time `json:"borrow_time"`
	ReturnTime   *time.Time `json:"return_time"`
	HandoverNote *string    `json:"handover_note" gorm:"type:text"`
	ReturnNote   *string    `json:"return_note" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// ReservationHistory is one persisted transition of a reservation.
type ReservationHistory struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	ReservationID uint              `json:"reservation_id" gorm:"not null;index"`
	ActorID       uint              `json:"actor_id" gorm:"not null"`
	Action        string            `json:"action" gorm:"not null;size:32"`
	FromStatus    ReservationStatus `json:"from_status" gorm:"size:32"`
	ToStatus      ReservationStatus `json:"to_status" gorm:"not null;size:32"`
	Comment       *string           `json:"comment" gorm:"size:500"`
	Snapshot      datatypes.JSON    `json:"snapshot"`
	CreatedAt     time.Time         `json:"created_at" gorm:"index"`
}

func (ReservationHistory) TableName() string {
	return "reservation_histories"
}
