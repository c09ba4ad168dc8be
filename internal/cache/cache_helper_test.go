package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestManager(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheManager(client), mr
}

func TestCacheHelper_SetGetDelete(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, cm.Device.Set(ctx, DeviceKey(7), payload{Name: "A-01", Count: 2}, time.Minute))
	assert.True(t, mr.Exists("device:id:7"))

	var got payload
	require.NoError(t, cm.Device.Get(ctx, DeviceKey(7), &got))
	assert.Equal(t, payload{Name: "A-01", Count: 2}, got)

	require.NoError(t, cm.Device.Delete(ctx, DeviceKey(7)))
	assert.ErrorIs(t, cm.Device.Get(ctx, DeviceKey(7), &got), ErrCacheNotFound)
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	cm, _ := newTestManager(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (any, error) {
		calls++
		return payload{Name: "board", Count: calls}, nil
	}

	var first, second payload
	require.NoError(t, cm.Availability.CacheOrExecute(ctx, "k", &first, time.Minute, fetch))
	require.NoError(t, cm.Availability.CacheOrExecute(ctx, "k", &second, time.Minute, fetch))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestInvalidateReservationCache(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, cm.Availability.Set(ctx, "2025-06-01:09:00-10:00", 1, time.Minute))
	require.NoError(t, cm.Availability.Set(ctx, "2025-06-02:09:00-10:00", 1, time.Minute))
	require.NoError(t, cm.Stats.Set(ctx, "reservation_summary", 1, time.Minute))
	require.NoError(t, cm.User.Set(ctx, UserKey("T001"), 1, time.Minute))

	InvalidateReservationCache(ctx, cm)

	assert.False(t, mr.Exists("availability:2025-06-01:09:00-10:00"))
	assert.False(t, mr.Exists("availability:2025-06-02:09:00-10:00"))
	assert.False(t, mr.Exists("stats:reservation_summary"))
	assert.True(t, mr.Exists("user:account:T001"))
}

func TestNilClientDegrades(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	assert.False(t, cm.Enabled())
	assert.NoError(t, cm.Stats.Set(ctx, "x", 1, time.Minute))
	assert.ErrorIs(t, cm.Stats.Get(ctx, "x", new(int)), ErrCacheNotAvailable)
	assert.ErrorIs(t, cm.HealthCheck(ctx), ErrCacheNotAvailable)

	calls := 0
	var out int
	require.NoError(t, cm.Stats.CacheOrExecute(ctx, "x", &out, time.Minute, func() (any, error) {
		calls++
		return 42, nil
	}))
	assert.Equal(t, 42, out)
	assert.Equal(t, 1, calls)
}
