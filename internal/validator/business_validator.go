package validator

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

// BusinessValidator holds rules that span several fields.
type BusinessValidator struct {
	validate *validator.Validate
}

func newBusinessValidator(v *validator.Validate) *BusinessValidator {
	return &BusinessValidator{validate: v}
}

func registerCustomRules(v *validator.Validate) {
	_ = v.RegisterValidation("borrower_type", func(fl validator.FieldLevel) bool {
		return models.BorrowerType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("staff_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsStaff()
	})
	_ = v.RegisterValidation("device_status", func(fl validator.FieldLevel) bool {
		return models.DeviceStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("reservation_status", func(fl validator.FieldLevel) bool {
		return models.ReservationStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("approval_step", func(fl validator.FieldLevel) bool {
		return models.ApprovalStep(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return models.PaymentStatus(fl.Field().String()).IsValid()
	})
}

// ValidateRegister checks struct tags and the fields each borrower type must supply.
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	errs := ToValidationErrors(bv.validate.Struct(req))
	if len(errs) > 0 {
		return errs
	}

	missing := func(field string, value *string) {
		if value == nil || strings.TrimSpace(*value) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required for " + string(req.BorrowerType), Rule: "required"})
		}
	}

	switch req.BorrowerType {
	case models.BorrowerTeacher:
		missing("teacher_no", req.TeacherNo)
		missing("college", req.College)
	case models.BorrowerStudent:
		missing("student_no", req.StudentNo)
		missing("advisor_no", req.AdvisorNo)
		missing("college", req.College)
	case models.BorrowerExternal:
		missing("org_name", req.OrgName)
	}

	return errs
}

// ValidateReservationWindow requires start < end.
func (bv *BusinessValidator) ValidateReservationWindow(start, end time.Time) ValidationErrors {
	if start.IsZero() || end.IsZero() || start.Before(end) {
		return nil
	}
	return ValidationErrors{{Field: "end_time", Message: "must be after start_time", Rule: "gtfield"}}
}
