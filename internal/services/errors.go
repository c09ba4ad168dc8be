package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/lab-reservation-service/internal/approval"
	"github.com/SAP-F-2025/lab-reservation-service/internal/availability"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
	"github.com/SAP-F-2025/lab-reservation-service/internal/validator"
)

// ErrorCode is the stable, machine-checkable code written to API responses.
type ErrorCode string

const (
	CodeOK               ErrorCode = "OK"
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// AppError is a business error raised where it is detected and translated
// to a response at the handler boundary.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code, so callers can test against
// the sentinels below.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrBadRequest       = &AppError{Code: CodeBadRequest, Message: "bad request"}
	ErrInvalidRequest   = &AppError{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrValidationFailed = &AppError{Code: CodeValidation, Message: "validation failed"}
	ErrUnauthorized     = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden        = &AppError{Code: CodeForbidden, Message: "forbidden"}
	ErrPermissionDenied = &AppError{Code: CodePermissionDenied, Message: "permission denied"}
	ErrNotFound         = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrConflict         = &AppError{Code: CodeConflict, Message: "conflict"}
	ErrInternal         = &AppError{Code: CodeInternal, Message: "internal error"}
)

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func newNotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

func newConflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func newInvalidRequest(err error) *AppError {
	return &AppError{Code: CodeInvalidRequest, Message: err.Error(), Err: err}
}

func newValidationError(errs validator.ValidationErrors) *AppError {
	return &AppError{Code: CodeValidation, Message: errs.Error(), Details: errs, Err: errs}
}

// PermissionError explains why an authenticated caller was refused.
type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id,omitempty"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// CodeOf returns the code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	var permErr *PermissionError
	if errors.As(err, &permErr) {
		return CodePermissionDenied
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return CodeValidation
	}
	return CodeInternal
}

// translateDomainError maps workflow, availability and repository errors to
// AppErrors. Errors it does not recognize are returned unchanged.
func translateDomainError(err error, actorID, resourceID uint, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, approval.ErrNotApprover),
		errors.Is(err, approval.ErrOwnerMayOnlyCancel),
		errors.Is(err, approval.ErrNotOwner),
		errors.Is(err, approval.ErrStaffOnly):
		return NewPermissionError(actorID, resourceID, "reservation", action, err.Error())
	case errors.Is(err, approval.ErrNotInApproval),
		errors.Is(err, approval.ErrPaymentOutstanding),
		errors.Is(err, approval.ErrInvalidTransition),
		errors.Is(err, approval.ErrStateLocked),
		errors.Is(err, approval.ErrPaymentNotPending),
		errors.Is(err, approval.ErrRefundNotApplicable):
		return newInvalidRequest(err)
	case errors.Is(err, approval.ErrApplicantUnavailable):
		return &AppError{Code: CodeNotFound, Message: "applicant not found", Err: err}
	case errors.Is(err, availability.ErrDateRequired),
		errors.Is(err, availability.ErrDateFormat),
		errors.Is(err, availability.ErrSlotFormat),
		errors.Is(err, availability.ErrSlotTimeFormat),
		errors.Is(err, availability.ErrSlotRange):
		return newInvalidRequest(err)
	case repositories.IsDuplicateError(err):
		return &AppError{Code: CodeConflict, Message: "resource already exists", Err: err}
	}
	return err
}
