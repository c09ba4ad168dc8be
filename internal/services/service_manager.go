package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/cache"
	"github.com/SAP-F-2025/lab-reservation-service/internal/config"
	"github.com/SAP-F-2025/lab-reservation-service/internal/events"
	"github.com/SAP-F-2025/lab-reservation-service/internal/reports"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
	"github.com/SAP-F-2025/lab-reservation-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	Location           *time.Location
	FinanceMockEnabled bool
}

// ConfigFromApp derives the service settings from the application config.
func ConfigFromApp(cfg *config.Config) ServiceManagerConfig {
	return ServiceManagerConfig{
		Location:           cfg.Location,
		FinanceMockEnabled: cfg.FinanceMockEnabled,
	}
}

// Dependencies are the shared collaborators handed to every service.
type Dependencies struct {
	Repo        repositories.Repository
	RepoManager repositories.RepositoryManager
	Cache       *cache.CacheManager
	Publisher   events.EventPublisher
	Archiver    reports.Archiver
	Logger      *slog.Logger
	Validator   *validator.Validator
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps   Dependencies
	config ServiceManagerConfig

	identityService    IdentityService
	deviceService      DeviceService
	reservationService ReservationService
	reportService      ReportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps Dependencies, config ServiceManagerConfig) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NewCacheManager(nil)
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &serviceManager{deps: deps, config: config}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.deps.Repo == nil {
		return errors.New("service manager requires a repository")
	}

	sm.deps.Logger.Info("Initializing service manager")

	d := sm.deps
	sm.identityService = NewIdentityService(d.Repo, d.Cache, d.Logger, d.Validator)
	sm.deviceService = NewDeviceService(d.Repo, d.Cache, d.Publisher, d.Logger, d.Validator, sm.config.Location)
	sm.reservationService = NewReservationService(d.Repo, d.Cache, d.Publisher, d.Logger, d.Validator, sm.config.FinanceMockEnabled)
	sm.reportService = NewReportService(d.Repo, d.Archiver, d.Logger, sm.config.Location)

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")
	return nil
}

// Service getters
func (sm *serviceManager) Identity() IdentityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.identityService
}

func (sm *serviceManager) Device() DeviceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.deviceService
}

func (sm *serviceManager) Reservation() ReservationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.reservationService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.reportService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	if sm.deps.Cache.Enabled() {
		if err := sm.deps.Cache.HealthCheck(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if sm.deps.RepoManager != nil {
		if err := sm.deps.RepoManager.Shutdown(ctx); err != nil {
			sm.deps.Logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")
	return nil
}
