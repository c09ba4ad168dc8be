package validator

import (
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

// RegisterRequest is a borrower self-registration.
type RegisterRequest struct {
	BorrowerType models.BorrowerType `json:"borrower_type" validate:"required,borrower_type"`
	Name         string              `json:"name" validate:"required,min=1,max=100"`
	Contact      string              `json:"contact" validate:"required,min=3,max=100"`
	College      *string             `json:"college" validate:"omitempty,max=100"`
	TeacherNo    *string             `json:"teacher_no" validate:"omitempty,max=32"`
	StudentNo    *string             `json:"student_no" validate:"omitempty,max=32"`
	AdvisorNo    *string             `json:"advisor_no" validate:"omitempty,max=32"`
	OrgName      *string             `json:"org_name" validate:"omitempty,max=128"`
}

// CreateStaffRequest provisions an admin or head account.
type CreateStaffRequest struct {
	Account string          `json:"account" validate:"required,min=1,max=100"`
	Name    string          `json:"name" validate:"required,min=1,max=100"`
	Role    models.UserRole `json:"role" validate:"required,staff_role"`
	Contact *string         `json:"contact" validate:"omitempty,max=100"`
}

// UpdateStaffRequest edits a directory entry.
type UpdateStaffRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Contact   *string `json:"contact" validate:"omitempty,max=100"`
	College   *string `json:"college" validate:"omitempty,max=100"`
	AdvisorNo *string `json:"advisor_no" validate:"omitempty,max=32"`
	OrgName   *string `json:"org_name" validate:"omitempty,max=128"`
	IsActive  *bool   `json:"is_active"`
}

type CreateDeviceRequest struct {
	DeviceNo     string               `json:"device_no" validate:"required,min=1,max=64"`
	Model        *string              `json:"model" validate:"omitempty,max=128"`
	PurchaseDate *time.Time           `json:"purchase_date"`
	Manufacturer *string              `json:"manufacturer" validate:"omitempty,max=128"`
	Usage        *string              `json:"usage" validate:"omitempty,max=2000"`
	RentalPrice  float64              `json:"rental_price" validate:"gte=0"`
	Status       *models.DeviceStatus `json:"status" validate:"omitempty,device_status"`
}

type UpdateDeviceRequest struct {
	DeviceNo     *string              `json:"device_no" validate:"omitempty,min=1,max=64"`
	Model        *string              `json:"model" validate:"omitempty,max=128"`
	PurchaseDate *time.Time           `json:"purchase_date"`
	Manufacturer *string              `json:"manufacturer" validate:"omitempty,max=128"`
	Usage        *string              `json:"usage" validate:"omitempty,max=2000"`
	RentalPrice  *float64             `json:"rental_price" validate:"omitempty,gte=0"`
	Status       *models.DeviceStatus `json:"status" validate:"omitempty,device_status"`
}

type CreateReservationRequest struct {
	DeviceID    uint      `json:"device_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Description *string   `json:"description" validate:"omitempty,max=255"`
	Contact     *string   `json:"contact" validate:"omitempty,max=100"`
}

// UpdateReservationRequest is a partial update. Owners may only send the
// first five fields; the rest are for staff.
type UpdateReservationRequest struct {
	StartTime   *time.Time                `json:"start_time"`
	EndTime     *time.Time                `json:"end_time"`
	Description *string                   `json:"description" validate:"omitempty,max=255"`
	Contact     *string                   `json:"contact" validate:"omitempty,max=100"`
	Status      *models.ReservationStatus `json:"status" validate:"omitempty,reservation_status"`

	CurrentStep     *models.ApprovalStep  `json:"current_step" validate:"omitempty,approval_step"`
	PaymentStatus   *models.PaymentStatus `json:"payment_status" validate:"omitempty,payment_status"`
	PaymentAmount   *float64              `json:"payment_amount" validate:"omitempty,gte=0"`
	ApproverID      *uint                 `json:"approver_id"`
	ApprovalComment *string               `json:"approval_comment" validate:"omitempty,max=500"`
}

// DecisionRequest carries an approver's comment.
type DecisionRequest struct {
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

// HandoverRequest carries the note written at borrow or return.
type HandoverRequest struct {
	Note *string `json:"note" validate:"omitempty,max=2000"`
}

// AvailabilityQuery is the availability board query string.
type AvailabilityQuery struct {
	Date    string `form:"date" json:"date" validate:"required"`
	Slot    string `form:"slot" json:"slot" validate:"required"`
	Keyword string `form:"keyword" json:"keyword" validate:"omitempty,max=100"`
	Zone    string `form:"zone" json:"zone" validate:"omitempty,max=8"`
	Skip    int    `form:"skip" json:"skip" validate:"gte=0"`
	Limit   int    `form:"limit" json:"limit" validate:"min=1,max=100"`
}
