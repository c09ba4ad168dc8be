package repositories

import "context"

// Repository aggregates the per-entity repositories over one database handle.
type Repository interface {
	User() UserRepository
	Device() DeviceRepository
	Reservation() ReservationRepository
	History() HistoryRepository

	// Aggregates for ledgers and reports
	Dashboard() DashboardRepository

	// WithTransaction runs fn in one transaction. The Repository passed to fn
	// is bound to that transaction; fn returning an error, or panicking, rolls
	// it back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// ReadOnly runs fn in a read-only transaction for consistent aggregate reads.
	ReadOnly(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
