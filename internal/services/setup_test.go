package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/lab-reservation-service/internal/cache"
	"github.com/SAP-F-2025/lab-reservation-service/internal/events"
	"github.com/SAP-F-2025/lab-reservation-service/internal/reports"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/lab-reservation-service/internal/testutil"
	"github.com/SAP-F-2025/lab-reservation-service/internal/validator"
)

type testEnv struct {
	db        *gorm.DB
	fx        *testutil.Fixture
	publisher *events.MockEventPublisher
	archiver  *reports.MockArchiver
	redis     *miniredis.Miniredis
	services  ServiceManager
}

// newTestEnv wires every service over an in-memory sqlite store and a
// miniredis cache.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cm := cache.NewCacheManager(client)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, RedisClient: client, CacheManager: cm})
	publisher := events.NewMockEventPublisher(logger)
	archiver := reports.NewMockArchiver()

	sm := NewServiceManager(Dependencies{
		Repo:      repo,
		Cache:     cm,
		Publisher: publisher,
		Archiver:  archiver,
		Logger:    logger,
		Validator: validator.New(),
	}, ServiceManagerConfig{Location: time.UTC, FinanceMockEnabled: true})
	require.NoError(t, sm.Initialize(context.Background()))

	return &testEnv{
		db:        db,
		fx:        testutil.NewFixture(t, db),
		publisher: publisher,
		archiver:  archiver,
		redis:     mr,
		services:  sm,
	}
}

func assertCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, CodeOf(err), "unexpected error: %v", err)
}
