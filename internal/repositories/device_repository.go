package repositories

import (
	"context"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

// DeviceRepository is the device registry.
type DeviceRepository interface {
	Create(ctx context.Context, device *models.Device) error
	GetByID(ctx context.Context, id uint) (*models.Device, error)
	// GetByIDForUpdate reads the device row under a row lock. Writers that
	// check reservation overlap for a device serialize on this lock.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Device, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Device, error)
	Update(ctx context.Context, device *models.Device) error
	UpdateStatus(ctx context.Context, id uint, status models.DeviceStatus) error
	Delete(ctx context.Context, id uint) error
	// List orders by id descending.
	List(ctx context.Context, filters DeviceFilters) ([]*models.Device, int64, error)
	ExistsDeviceNo(ctx context.Context, deviceNo string, excludeID uint) (bool, error)
}
