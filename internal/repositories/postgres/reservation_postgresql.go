package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
)

type reservationPostgreSQL struct {
	db *gorm.DB
}

func NewReservationPostgreSQL(db *gorm.DB) repositories.ReservationRepository {
	return &reservationPostgreSQL{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *reservationPostgreSQL) Create(ctx context.Context, res *models.Reservation) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return handleDBError(err, "create reservation")
	}
	return nil
}

func (r *reservationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, handleDBError(err, "get reservation by id")
	}
	return &res, nil
}

func (r *reservationPostgreSQL) GetByIDForUpdate(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&res, id).Error
	if err != nil {
		return nil, handleDBError(err, "lock reservation")
	}
	return &res, nil
}

func (r *reservationPostgreSQL) Update(ctx context.Context, res *models.Reservation) error {
	result := r.db.WithContext(ctx).
		Model(res).
		Select("*").
		Omit("id", "created_at").
		Updates(res)
	if result.Error != nil {
		return handleDBError(result.Error, "update reservation")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "update reservation")
	}
	return nil
}

func (r *reservationPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Reservation{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete reservation")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete reservation")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *reservationPostgreSQL) List(ctx context.Context, filters repositories.ReservationFilters) ([]*models.Reservation, int64, error) {
	var items []*models.Reservation
	var total int64

	if filters.UserIDs != nil && len(filters.UserIDs) == 0 {
		return items, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Reservation{})
	if filters.UserIDs != nil {
		query = query.Where("user_id IN ?", filters.UserIDs)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DeviceID != nil {
		query = query.Where("device_id = ?", *filters.DeviceID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count reservations")
	}

	query = applyPagination(query.Order("created_at DESC").Order("id DESC"), filters.Limit, filters.Offset)
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, handleDBError(err, "list reservations")
	}

	return items, total, nil
}

// overlapping selects occupying reservations whose interval intersects
// [start, end): existing.start < end AND existing.end > start.
func (r *reservationPostgreSQL) overlapping(ctx context.Context, start, end time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status IN ?", models.ActiveReservationStatuses).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC())
}

func (r *reservationPostgreSQL) HasOverlap(ctx context.Context, deviceID uint, start, end time.Time, excludeID uint) (bool, error) {
	query := r.overlapping(ctx, start, end).Where("device_id = ?", deviceID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check reservation overlap")
	}
	return count > 0, nil
}

func (r *reservationPostgreSQL) ListOccupying(ctx context.Context, deviceIDs []uint, start, end time.Time) ([]models.Reservation, error) {
	var items []models.Reservation
	if len(deviceIDs) == 0 {
		return items, nil
	}

	err := r.overlapping(ctx, start, end).
		Where("device_id IN ?", deviceIDs).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, handleDBError(err, "list occupying reservations")
	}
	return items, nil
}

func (r *reservationPostgreSQL) CountActiveByDevice(ctx context.Context, deviceID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("device_id = ? AND status IN ?", deviceID, models.ActiveReservationStatuses).
		Count(&count).Error
	if err != nil {
		return 0, handleDBError(err, "count active reservations")
	}
	return count, nil
}

func (r *reservationPostgreSQL) ListCreatedIn(ctx context.Context, period repositories.Period) ([]*models.Reservation, error) {
	var items []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", period.From.UTC(), period.To.UTC()).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, handleDBError(err, "list reservations in period")
	}
	return items, nil
}

// ===== HISTORY =====

type historyPostgreSQL struct {
	db *gorm.DB
}

func NewHistoryPostgreSQL(db *gorm.DB) repositories.HistoryRepository {
	return &historyPostgreSQL{db: db}
}

func (r *historyPostgreSQL) Create(ctx context.Context, h *models.ReservationHistory) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return handleDBError(err, "create reservation history")
	}
	return nil
}

func (r *historyPostgreSQL) ListByReservation(ctx context.Context, reservationID uint) ([]*models.ReservationHistory, error) {
	var items []*models.ReservationHistory
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, handleDBError(err, "list reservation history")
	}
	return items, nil
}

func (r *historyPostgreSQL) DeleteByReservation(ctx context.Context, reservationID uint) error {
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.ReservationHistory{}).Error
	if err != nil {
		return handleDBError(err, "delete reservation history")
	}
	return nil
}
