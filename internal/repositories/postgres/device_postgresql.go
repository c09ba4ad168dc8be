package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/lab-reservation-service/internal/cache"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
)

type devicePostgreSQL struct {
	db        *gorm.DB
	cache     *cache.CacheManager
	readCache bool
}

func NewDevicePostgreSQL(db *gorm.DB, cm *cache.CacheManager, readCache bool) repositories.DeviceRepository {
	return &devicePostgreSQL{db: db, cache: cm, readCache: readCache}
}

func (r *devicePostgreSQL) Create(ctx context.Context, device *models.Device) error {
	if err := r.db.WithContext(ctx).Create(device).Error; err != nil {
		return handleDBError(err, "create device")
	}
	cache.InvalidateDeviceCache(ctx, r.cache, device.ID)
	return nil
}

func (r *devicePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Device, error) {
	fetch := func() (*models.Device, error) {
		var device models.Device
		if err := r.db.WithContext(ctx).First(&device, id).Error; err != nil {
			return nil, handleDBError(err, "get device by id")
		}
		return &device, nil
	}

	if !r.readCache {
		return fetch()
	}

	var device models.Device
	err := r.cache.Device.CacheOrExecute(ctx, cache.DeviceKey(id), &device, cache.DeviceCacheConfig.TTL, func() (any, error) {
		return fetch()
	})
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *devicePostgreSQL) GetByIDForUpdate(ctx context.Context, id uint) (*models.Device, error) {
	var device models.Device
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&device, id).Error
	if err != nil {
		return nil, handleDBError(err, "lock device")
	}
	return &device, nil
}

func (r *devicePostgreSQL) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Device, error) {
	out := make(map[uint]*models.Device, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var devices []*models.Device
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&devices).Error; err != nil {
		return nil, handleDBError(err, "get devices by ids")
	}
	for _, d := range devices {
		out[d.ID] = d
	}
	return out, nil
}

func (r *devicePostgreSQL) Update(ctx context.Context, device *models.Device) error {
	if err := r.db.WithContext(ctx).Save(device).Error; err != nil {
		return handleDBError(err, "update device")
	}
	cache.InvalidateDeviceCache(ctx, r.cache, device.ID)
	return nil
}

func (r *devicePostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.DeviceStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Device{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return handleDBError(result.Error, "update device status")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "update device status")
	}
	cache.InvalidateDeviceCache(ctx, r.cache, id)
	return nil
}

func (r *devicePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Device{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete device")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete device")
	}
	cache.InvalidateDeviceCache(ctx, r.cache, id)
	return nil
}

func (r *devicePostgreSQL) List(ctx context.Context, filters repositories.DeviceFilters) ([]*models.Device, int64, error) {
	var devices []*models.Device
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Device{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if kw := strings.TrimSpace(filters.Keyword); kw != "" {
		p := likePattern(kw)
		query = query.Where("LOWER(device_no) LIKE ? OR LOWER(model) LIKE ? OR LOWER(manufacturer) LIKE ?", p, p, p)
	}
	if filters.ZonePrefix != "" {
		query = query.Where("UPPER(device_no) LIKE ?", strings.ToUpper(filters.ZonePrefix)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count devices")
	}

	query = applyPagination(query.Order("id DESC"), filters.Limit, filters.Offset)
	if err := query.Find(&devices).Error; err != nil {
		return nil, 0, handleDBError(err, "list devices")
	}

	return devices, total, nil
}

func (r *devicePostgreSQL) ExistsDeviceNo(ctx context.Context, deviceNo string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Device{}).Where("device_no = ?", deviceNo)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check device number")
	}
	return count > 0, nil
}
