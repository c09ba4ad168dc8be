package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/lab-reservation-service/internal/cache"
	"github.com/SAP-F-2025/lab-reservation-service/internal/events"
	"github.com/SAP-F-2025/lab-reservation-service/internal/reports"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/testutil"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
)

// accountTokens treats the bearer token as the account name. "bad" fails.
type accountTokens struct{}

func (accountTokens) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	if token == "bad" {
		return nil, errors.New("signature is invalid")
	}
	return &casdoorsdk.Claims{User: casdoorsdk.User{Name: token}}, nil
}

type apiEnv struct {
	router *gin.Engine
	db     *gorm.DB
	fx     *testutil.Fixture
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogger)
	cm := cache.NewCacheManager(client)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, RedisClient: client, CacheManager: cm})

	sm := services.NewServiceManager(services.Dependencies{
		Repo:      repo,
		Cache:     cm,
		Publisher: events.NewMockEventPublisher(slogger),
		Archiver:  reports.NewMockArchiver(),
		Logger:    slogger,
	}, services.ServiceManagerConfig{Location: time.UTC, FinanceMockEnabled: true})
	require.NoError(t, sm.Initialize(context.Background()))

	router := gin.New()
	SetupMiddleware(router, logger, nil)
	auth := NewAuthMiddlewareWithParser(accountTokens{}, sm.Identity(), logger)
	NewHandlerManager(sm, auth, "lab-reservation-service", logger).SetupRoutes(router, "/api/v1")

	return &apiEnv{router: router, db: db, fx: testutil.NewFixture(t, db)}
}

type envelope struct {
	Code    services.ErrorCode `json:"code"`
	Message string             `json:"message"`
	Data    json.RawMessage    `json:"data"`
	Details json.RawMessage    `json:"details"`
}

// do sends a request as account (no auth header when empty).
func (e *apiEnv) do(t *testing.T, method, path, account string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if account != "" {
		req.Header.Set("Authorization", "Bearer "+account)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
