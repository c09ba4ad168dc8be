package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/availability"
	"github.com/SAP-F-2025/lab-reservation-service/internal/cache"
	"github.com/SAP-F-2025/lab-reservation-service/internal/events"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
	"github.com/SAP-F-2025/lab-reservation-service/internal/validator"
)

type deviceService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	location  *time.Location
}

func NewDeviceService(
	repo repositories.Repository,
	cm *cache.CacheManager,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	location *time.Location,
) DeviceService {
	if location == nil {
		location = time.Local
	}
	return &deviceService{
		repo:      repo,
		cache:     cm,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		location:  location,
	}
}

// ===== REGISTRY =====

func (s *deviceService) Create(ctx context.Context, actor *models.User, req *CreateDeviceRequest) (*models.Device, error) {
	if err := requireStaff(actor, "device", 0, "create"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	device := &models.Device{
		DeviceNo:     strings.TrimSpace(req.DeviceNo),
		Model:        req.Model,
		PurchaseDate: req.PurchaseDate,
		Manufacturer: req.Manufacturer,
		Usage:        req.Usage,
		RentalPrice:  req.RentalPrice,
		Status:       models.DeviceIdle,
	}
	if req.Status != nil {
		device.Status = *req.Status
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		exists, err := tx.Device().ExistsDeviceNo(ctx, device.DeviceNo, 0)
		if err != nil {
			return fmt.Errorf("failed to check device_no: %w", err)
		}
		if exists {
			return newConflict("device_no already exists")
		}
		if err := tx.Device().Create(ctx, device); err != nil {
			if repositories.IsDuplicateError(err) {
				return newConflict("device_no already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateDeviceCache(ctx, s.cache, device.ID)
	s.logger.Info("Device created", "device_id", device.ID, "device_no", device.DeviceNo, "actor_id", actor.ID)
	return device, nil
}

func (s *deviceService) Get(ctx context.Context, id uint) (*models.Device, error) {
	device, err := s.repo.Device().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "device")
	}
	return device, nil
}

func (s *deviceService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateDeviceRequest) (*models.Device, error) {
	if err := requireStaff(actor, "device", id, "update"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var (
		device *models.Device
		event  *events.Event
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		device, err = tx.Device().GetByIDForUpdate(ctx, id)
		if err != nil {
			return lookupError(err, "device")
		}

		if req.DeviceNo != nil {
			no := strings.TrimSpace(*req.DeviceNo)
			if no != device.DeviceNo {
				exists, err := tx.Device().ExistsDeviceNo(ctx, no, id)
				if err != nil {
					return fmt.Errorf("failed to check device_no: %w", err)
				}
				if exists {
					return newConflict("device_no already exists")
				}
				device.DeviceNo = no
			}
		}
		if req.Model != nil {
			device.Model = req.Model
		}
		if req.PurchaseDate != nil {
			device.PurchaseDate = req.PurchaseDate
		}
		if req.Manufacturer != nil {
			device.Manufacturer = req.Manufacturer
		}
		if req.Usage != nil {
			device.Usage = req.Usage
		}
		if req.RentalPrice != nil {
			device.RentalPrice = *req.RentalPrice
		}
		if req.Status != nil && *req.Status != device.Status {
			event = deviceStatusEvent(device, *req.Status, actor.ID)
			device.Status = *req.Status
		}

		if err := tx.Device().Update(ctx, device); err != nil {
			if repositories.IsDuplicateError(err) {
				return newConflict("device_no already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateDeviceCache(ctx, s.cache, id)
	if event != nil {
		publishEvents(ctx, s.publisher, s.logger, event)
	}
	s.logger.Info("Device updated", "device_id", id, "actor_id", actor.ID)
	return device, nil
}

// Delete refuses while an occupying reservation still references the device.
func (s *deviceService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := requireStaff(actor, "device", id, "delete"); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Device().GetByIDForUpdate(ctx, id); err != nil {
			return lookupError(err, "device")
		}

		active, err := tx.Reservation().CountActiveByDevice(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count active reservations: %w", err)
		}
		if active > 0 {
			return &AppError{
				Code:    CodeConflict,
				Message: "device has active reservations",
				Details: map[string]any{"active_reservations": active},
			}
		}

		return tx.Device().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	cache.InvalidateDeviceCache(ctx, s.cache, id)
	s.logger.Info("Device deleted", "device_id", id, "actor_id", actor.ID)
	return nil
}

func (s *deviceService) List(ctx context.Context, q DeviceListQuery) (*DeviceListResponse, error) {
	page := q.normalized()
	devices, total, err := s.repo.Device().List(ctx, repositories.DeviceFilters{
		Status:  q.Status,
		Keyword: strings.TrimSpace(q.Keyword),
		Limit:   page.Limit,
		Offset:  page.Skip,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return &DeviceListResponse{Items: devices, Total: total, Skip: page.Skip, Limit: page.Limit}, nil
}

// ===== AVAILABILITY =====

// Availability evaluates one page of devices against the requested slot.
// Pages are cached briefly; any reservation or device write clears them.
func (s *deviceService) Availability(ctx context.Context, q *AvailabilityQuery) (*AvailabilityPage, error) {
	window, err := availability.ParseSlot(q.Date, q.Slot, s.location)
	if err != nil {
		return nil, translateDomainError(err, 0, 0, "availability")
	}

	page := Page{Skip: q.Skip, Limit: q.Limit}.normalized()
	zone := availability.ZonePrefix(q.Zone)
	keyword := strings.TrimSpace(q.Keyword)

	key := fmt.Sprintf("%d:%d:%s:%s:%d:%d", window.Start.Unix(), window.End.Unix(), zone, strings.ToLower(keyword), page.Skip, page.Limit)

	var result AvailabilityPage
	err = s.cache.Availability.CacheOrExecute(ctx, key, &result, s.cache.AvailabilityTTL, func() (any, error) {
		return s.evaluateAvailability(ctx, window, keyword, zone, page)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *deviceService) evaluateAvailability(ctx context.Context, window availability.Window, keyword, zone string, page Page) (*AvailabilityPage, error) {
	var out *AvailabilityPage

	err := s.repo.ReadOnly(ctx, func(tx repositories.Repository) error {
		devices, total, err := tx.Device().List(ctx, repositories.DeviceFilters{
			Keyword:    keyword,
			ZonePrefix: zone,
			Limit:      page.Limit,
			Offset:     page.Skip,
		})
		if err != nil {
			return fmt.Errorf("failed to list devices: %w", err)
		}

		ids := make([]uint, 0, len(devices))
		snapshot := make([]models.Device, 0, len(devices))
		for _, d := range devices {
			ids = append(ids, d.ID)
			snapshot = append(snapshot, *d)
		}

		occupying, err := tx.Reservation().ListOccupying(ctx, ids, window.Start, window.End)
		if err != nil {
			return fmt.Errorf("failed to load reservations: %w", err)
		}

		out = &AvailabilityPage{
			Items:     availability.Evaluate(window, snapshot, occupying),
			Total:     total,
			Skip:      page.Skip,
			Limit:     page.Limit,
			StartTime: window.Start,
			EndTime:   window.End,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *deviceService) Stats(ctx context.Context, actor *models.User) (*repositories.DeviceStats, error) {
	if err := requireStaff(actor, "device", 0, "stats"); err != nil {
		return nil, err
	}

	var stats repositories.DeviceStats
	err := s.cache.Stats.CacheOrExecute(ctx, "devices", &stats, cache.StatsCacheConfig.TTL, func() (any, error) {
		return s.repo.Dashboard().DeviceStats(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute device stats: %w", err)
	}
	return &stats, nil
}

func deviceStatusEvent(device *models.Device, to models.DeviceStatus, actorID uint) *events.Event {
	return events.NewEvent(events.DeviceStatusChanged, events.DeviceEventData{
		DeviceID:   device.ID,
		DeviceNo:   device.DeviceNo,
		FromStatus: string(device.Status),
		ToStatus:   string(to),
		ActorID:    actorID,
	})
}
