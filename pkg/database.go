package pkg

import (
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/lab-reservation-service/internal/config"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

// InitDatabase opens the postgres connection pool described by cfg.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// NewRedisClient parses REDIS_URL into a client.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Models lists every table owned by the service.
func Models() []any {
	return []any{
		&models.User{},
		&models.Device{},
		&models.Reservation{},
		&models.ReservationHistory{},
	}
}

// Migrate creates or updates the schema, including the partial index that
// backs overlap checks on occupying reservations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	statuses := make([]string, 0, len(models.ActiveReservationStatuses))
	for _, s := range models.ActiveReservationStatuses {
		statuses = append(statuses, "'"+string(s)+"'")
	}

	stmt := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_reservations_active_window ON reservations (device_id, start_time, end_time) WHERE status IN (%s)",
		strings.Join(statuses, ", "))
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to create active window index: %w", err)
	}

	return nil
}
