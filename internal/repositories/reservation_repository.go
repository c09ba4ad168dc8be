package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

// ReservationRepository is the reservation ledger.
type ReservationRepository interface {
	Create(ctx context.Context, r *models.Reservation) error
	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Reservation, error)
	// Update writes every column of r. A row that no longer exists is not found.
	Update(ctx context.Context, r *models.Reservation) error
	Delete(ctx context.Context, id uint) error
	// List orders newest first by creation time.
	List(ctx context.Context, filters ReservationFilters) ([]*models.Reservation, int64, error)

	// HasOverlap reports whether an occupying reservation of deviceID other than
	// excludeID intersects [start, end).
	HasOverlap(ctx context.Context, deviceID uint, start, end time.Time, excludeID uint) (bool, error)
	// ListOccupying returns occupying reservations of deviceIDs intersecting [start, end).
	ListOccupying(ctx context.Context, deviceIDs []uint, start, end time.Time) ([]models.Reservation, error)
	CountActiveByDevice(ctx context.Context, deviceID uint) (int64, error)
	ListCreatedIn(ctx context.Context, period Period) ([]*models.Reservation, error)
}

// HistoryRepository stores the transition trail of reservations.
type HistoryRepository interface {
	Create(ctx context.Context, h *models.ReservationHistory) error
	ListByReservation(ctx context.Context, reservationID uint) ([]*models.ReservationHistory, error)
	DeleteByReservation(ctx context.Context, reservationID uint) error
}
