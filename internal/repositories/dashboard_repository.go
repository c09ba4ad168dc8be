package repositories

import (
	"context"
	"time"
)

// DashboardRepository computes ledger aggregates for staff dashboards and reports.
type DashboardRepository interface {
	ReservationSummary(ctx context.Context) (*ReservationSummary, error)
	DeviceStats(ctx context.Context) (*DeviceStats, error)
	ReportSummary(ctx context.Context) (*ReportSummary, error)
	// CountReservationsSince counts reservations whose window starts at or after since.
	CountReservationsSince(ctx context.Context, since time.Time) (int64, error)
}
