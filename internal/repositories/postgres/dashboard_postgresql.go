package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

type groupCount struct {
	GroupKey string
	Count    int64
}

// ===== LEDGER AGGREGATES =====

func (r *dashboardRepository) ReservationSummary(ctx context.Context) (*repositories.ReservationSummary, error) {
	summary := &repositories.ReservationSummary{
		ByStatus:        make(map[models.ReservationStatus]int64, len(models.AllReservationStatuses)),
		ByPaymentStatus: make(map[models.PaymentStatus]int64, len(models.AllPaymentStatuses)),
	}
	for _, s := range models.AllReservationStatuses {
		summary.ByStatus[s] = 0
	}
	for _, p := range models.AllPaymentStatuses {
		summary.ByPaymentStatus[p] = 0
	}

	byStatus, err := r.countBy(ctx, &models.Reservation{}, "status")
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		summary.ByStatus[models.ReservationStatus(row.GroupKey)] = row.Count
		summary.Total += row.Count
	}

	byPayment, err := r.countBy(ctx, &models.Reservation{}, "payment_status")
	if err != nil {
		return nil, err
	}
	for _, row := range byPayment {
		summary.ByPaymentStatus[models.PaymentStatus(row.GroupKey)] = row.Count
	}

	if summary.TotalPaymentAmount, err = r.sum(ctx, &models.Reservation{}, "payment_amount", ""); err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *dashboardRepository) DeviceStats(ctx context.Context) (*repositories.DeviceStats, error) {
	stats := &repositories.DeviceStats{
		ByStatus: make(map[models.DeviceStatus]int64, len(models.AllDeviceStatuses)),
	}
	for _, s := range models.AllDeviceStatuses {
		stats.ByStatus[s] = 0
	}

	rows, err := r.countBy(ctx, &models.Device{}, "status")
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[models.DeviceStatus(row.GroupKey)] = row.Count
		stats.Total += row.Count
	}

	if stats.TotalRentalValue, err = r.sum(ctx, &models.Device{}, "rental_price", ""); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *dashboardRepository) ReportSummary(ctx context.Context) (*repositories.ReportSummary, error) {
	rows, err := r.countBy(ctx, &models.Reservation{}, "status")
	if err != nil {
		return nil, err
	}

	out := &repositories.ReportSummary{}
	for _, row := range rows {
		out.TotalReservations += row.Count
		switch models.ReservationStatus(row.GroupKey) {
		case models.ReservationCompleted:
			out.Completed = row.Count
		case models.ReservationCancelled:
			out.Cancelled = row.Count
		case models.ReservationBorrowed:
			out.Borrowed = row.Count
		}
	}

	out.TotalPayment, err = r.sum(ctx, &models.Reservation{}, "payment_amount", string(models.PaymentPaid))
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *dashboardRepository) CountReservationsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("start_time >= ?", since.UTC()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reservations since %s: %w", since.Format(time.RFC3339), err)
	}
	return count, nil
}

func (r *dashboardRepository) countBy(ctx context.Context, model any, column string) ([]groupCount, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).
		Model(model).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", column, err)
	}
	return rows, nil
}

// sum totals column, optionally restricted to a payment status.
func (r *dashboardRepository) sum(ctx context.Context, model any, column, paymentStatus string) (float64, error) {
	var total float64
	query := r.db.WithContext(ctx).Model(model).Select("COALESCE(SUM(" + column + "), 0)")
	if paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if err := query.Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum %s: %w", column, err)
	}
	return total, nil
}
