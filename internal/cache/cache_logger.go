package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

func UserKey(account string) string { return "account:" + account }
func DeviceKey(id uint) string      { return fmt.Sprintf("id:%d", id) }

// InvalidateUserCache drops the cached identity for account.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, account string) {
	SafeDelete(ctx, cm.User, UserKey(account))
}

// InvalidateDeviceCache drops a device and everything derived from device state.
func InvalidateDeviceCache(ctx context.Context, cm *CacheManager, deviceID uint) {
	SafeDelete(ctx, cm.Device, DeviceKey(deviceID))
	SafeInvalidatePattern(ctx, cm.Availability, "*")
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}

// InvalidateReservationCache drops availability pages and ledger aggregates.
func InvalidateReservationCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Availability, "*")
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}
