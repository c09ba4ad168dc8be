package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/approval"
	"github.com/SAP-F-2025/lab-reservation-service/internal/availability"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/reports"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
	"github.com/SAP-F-2025/lab-reservation-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type RegisterRequest = validator.RegisterRequest
type CreateStaffRequest = validator.CreateStaffRequest
type UpdateStaffRequest = validator.UpdateStaffRequest
type CreateDeviceRequest = validator.CreateDeviceRequest
type UpdateDeviceRequest = validator.UpdateDeviceRequest
type CreateReservationRequest = validator.CreateReservationRequest
type UpdateReservationRequest = validator.UpdateReservationRequest
type DecisionRequest = validator.DecisionRequest
type HandoverRequest = validator.HandoverRequest
type AvailabilityQuery = validator.AvailabilityQuery

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is an offset/limit window. Limit is clamped to [1, MaxPageLimit].
type Page struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func (p Page) normalized() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

type UserListQuery struct {
	Page
	BorrowerType *models.BorrowerType
	Keyword      string
}

type UserListResponse struct {
	Items []*models.User `json:"items"`
	Total int64          `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
}

type DeviceListQuery struct {
	Page
	Status  *models.DeviceStatus
	Keyword string
}

type DeviceListResponse struct {
	Items []*models.Device `json:"items"`
	Total int64            `json:"total"`
	Skip  int              `json:"skip"`
	Limit int              `json:"limit"`
}

// AvailabilityPage is one page of the availability board.
type AvailabilityPage struct {
	Items     []availability.Item `json:"items"`
	Total     int64               `json:"total"`
	Skip      int                 `json:"skip"`
	Limit     int                 `json:"limit"`
	StartTime time.Time           `json:"start_time"`
	EndTime   time.Time           `json:"end_time"`
}

type ReservationListQuery struct {
	Page
	Status   *models.ReservationStatus
	DeviceID *uint
}

// ReservationResponse is a reservation with display fields and the
// predicted next approval transition.
type ReservationResponse struct {
	*models.Reservation
	DeviceNo      string               `json:"device_no,omitempty"`
	ApplicantName string               `json:"applicant_name,omitempty"`
	BorrowerType  *models.BorrowerType `json:"borrower_type,omitempty"`
	NextAction    *approval.NextAction `json:"next_action"`
}

type ReservationListResponse struct {
	Items []*ReservationResponse `json:"items"`
	Total int64                  `json:"total"`
	Skip  int                    `json:"skip"`
	Limit int                    `json:"limit"`
}

type PeriodReport struct {
	Type              reports.Kind `json:"type"`
	StartTime         time.Time    `json:"start_time"`
	TotalReservations int64        `json:"total_reservations"`
}

// ExcelReport is a rendered workbook ready for download.
type ExcelReport struct {
	Kind        reports.Kind
	FileName    string
	DisplayName string
	Content     []byte
	ArchiveKey  string
}

// ===== SERVICE INTERFACES =====

type IdentityService interface {
	// Self-service
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Me(ctx context.Context, actor *models.User) (*models.User, error)

	// Authenticate resolves an identity-provider account to an active local user.
	Authenticate(ctx context.Context, account string) (*models.User, error)

	// Directory management (admin/head)
	List(ctx context.Context, actor *models.User, q UserListQuery) (*UserListResponse, error)
	Get(ctx context.Context, actor *models.User, id uint) (*models.User, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateStaffRequest) (*models.User, error)
	Deactivate(ctx context.Context, actor *models.User, id uint) error

	// CreateStaff provisions an admin or head; used by the operator CLI.
	CreateStaff(ctx context.Context, req *CreateStaffRequest) (*models.User, error)
}

type DeviceService interface {
	Create(ctx context.Context, actor *models.User, req *CreateDeviceRequest) (*models.Device, error)
	Get(ctx context.Context, id uint) (*models.Device, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateDeviceRequest) (*models.Device, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
	List(ctx context.Context, q DeviceListQuery) (*DeviceListResponse, error)

	Availability(ctx context.Context, q *AvailabilityQuery) (*AvailabilityPage, error)
	Stats(ctx context.Context, actor *models.User) (*repositories.DeviceStats, error)
}

type ReservationService interface {
	// Ledger operations
	Create(ctx context.Context, actor *models.User, req *CreateReservationRequest) (*ReservationResponse, error)
	Get(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error)
	List(ctx context.Context, actor *models.User, q ReservationListQuery) (*ReservationListResponse, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateReservationRequest) (*ReservationResponse, error)
	Delete(ctx context.Context, actor *models.User, id uint) error

	// Approval workflow
	Approve(ctx context.Context, actor *models.User, id uint, req *DecisionRequest) (*ReservationResponse, error)
	Reject(ctx context.Context, actor *models.User, id uint, req *DecisionRequest) (*ReservationResponse, error)
	Return(ctx context.Context, actor *models.User, id uint, req *DecisionRequest) (*ReservationResponse, error)
	Resubmit(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error)

	// Payment and loan lifecycle
	ConfirmPayment(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error)
	WaivePayment(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error)
	Activate(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error)
	Borrow(ctx context.Context, actor *models.User, id uint, req *HandoverRequest) (*ReservationResponse, error)
	Complete(ctx context.Context, actor *models.User, id uint, req *HandoverRequest) (*ReservationResponse, error)
	Refund(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error)

	History(ctx context.Context, actor *models.User, id uint) ([]*models.ReservationHistory, error)
	Summary(ctx context.Context, actor *models.User) (*repositories.ReservationSummary, error)
}

type ReportService interface {
	Summary(ctx context.Context, actor *models.User) (*repositories.ReportSummary, error)
	Period(ctx context.Context, actor *models.User, kind reports.Kind) (*PeriodReport, error)
	Excel(ctx context.Context, actor *models.User, kind reports.Kind) (*ExcelReport, error)
}

// ServiceManager owns every service and their shared dependencies.
type ServiceManager interface {
	Identity() IdentityService
	Device() DeviceService
	Reservation() ReservationService
	Report() ReportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
