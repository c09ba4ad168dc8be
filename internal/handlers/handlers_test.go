package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/reports"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/testutil"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
)

func TestRegister(t *testing.T) {
	env := newAPIEnv(t)

	body := map[string]any{
		"borrower_type": "teacher",
		"name":          "Li",
		"contact":       "li@example.com",
		"teacher_no":    "T100",
		"college":       "Physics",
	}

	w, resp := env.do(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, services.CodeOK, resp.Code)

	var user models.User
	decodeData(t, resp, &user)
	assert.Equal(t, "T100", user.Account)
	assert.Equal(t, models.RoleBorrower, user.Role)

	w, resp = env.do(t, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.CodeConflict, resp.Code)

	w, resp = env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"borrower_type": "student",
		"name":          "Wang",
		"contact":       "wang@example.com",
		"student_no":    "S100",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, services.CodeValidation, resp.Code)
	assert.Contains(t, string(resp.Details), "advisor_no")

	w, resp = env.do(t, http.MethodGet, "/api/v1/users/me", "T100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, resp, &user)
	assert.Equal(t, "Li", user.Name)
}

func TestAuthentication(t *testing.T) {
	env := newAPIEnv(t)
	env.fx.Teacher("T001")
	inactive := env.fx.Teacher("T002")
	require.NoError(t, env.db.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name    string
		account string
		status  int
		code    services.ErrorCode
	}{
		{"missing header", "", http.StatusUnauthorized, services.CodeUnauthorized},
		{"invalid token", "bad", http.StatusUnauthorized, services.CodeUnauthorized},
		{"unknown account", "nobody", http.StatusUnauthorized, services.CodeUnauthorized},
		{"inactive account", "T002", http.StatusUnauthorized, services.CodeUnauthorized},
		{"borrower on staff route", "T001", http.StatusForbidden, services.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodGet, "/api/v1/staff", tt.account, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, resp.Code)
		})
	}

	env.fx.Staff("head", models.RoleHead)
	w, resp := env.do(t, http.MethodGet, "/api/v1/staff?limit=5", "head", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list services.UserListResponse
	decodeData(t, resp, &list)
	assert.Equal(t, 5, list.Limit)
	assert.EqualValues(t, 3, list.Total)
}

func TestReservationEndpoints(t *testing.T) {
	env := newAPIEnv(t)
	env.fx.Staff("admin", models.RoleAdmin)
	env.fx.Teacher("T001")
	env.fx.Student("S001", "T001")
	env.fx.Student("S002", "T009")
	device := env.fx.Device("A-01", models.DeviceIdle, 0)

	create := map[string]any{
		"device_id":  device.ID,
		"start_time": testutil.Day(9, 0),
		"end_time":   testutil.Day(10, 0),
	}
	w, resp := env.do(t, http.MethodPost, "/api/v1/reservations", "S001", create)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created services.ReservationResponse
	decodeData(t, resp, &created)
	require.NotNil(t, created.Reservation)
	assert.Equal(t, models.StepAdvisor, *created.CurrentStep)
	require.NotNil(t, created.NextAction)

	w, resp = env.do(t, http.MethodPost, "/api/v1/reservations", "T001", create)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.CodeConflict, resp.Code)

	path := fmt.Sprintf("/api/v1/reservations/%d", created.ID)

	w, resp = env.do(t, http.MethodGet, path, "S002", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, services.CodePermissionDenied, resp.Code)

	w, _ = env.do(t, http.MethodGet, path, "T001", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = env.do(t, http.MethodGet, "/api/v1/reservations/abc", "T001", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.CodeInvalidRequest, resp.Code)

	w, resp = env.do(t, http.MethodGet, "/api/v1/reservations/999", "admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, services.CodeNotFound, resp.Code)

	w, resp = env.do(t, http.MethodPost, path+"/approve", "S002", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, services.CodePermissionDenied, resp.Code)

	w, resp = env.do(t, http.MethodPost, path+"/approve", "T001", map[string]any{"comment": "ok"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var approved services.ReservationResponse
	decodeData(t, resp, &approved)
	assert.Equal(t, models.ReservationAdvisorApproved, approved.Status)

	w, _ = env.do(t, http.MethodPost, path+"/approve", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = env.do(t, http.MethodPost, path+"/activate", "S001", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, services.CodeForbidden, resp.Code)

	w, _ = env.do(t, http.MethodPost, path+"/activate", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = env.do(t, http.MethodPost, path+"/borrow", "admin", map[string]any{"note": "with probes"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var borrowed services.ReservationResponse
	decodeData(t, resp, &borrowed)
	assert.Equal(t, models.ReservationBorrowed, borrowed.Status)
	assert.Equal(t, "with probes", *borrowed.HandoverNote)

	w, resp = env.do(t, http.MethodGet, path+"/history", "S001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.ReservationHistory
	decodeData(t, resp, &history)
	assert.Len(t, history, 5)

	w, resp = env.do(t, http.MethodGet, "/api/v1/reservations?limit=0", "S001", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, services.CodeValidation, resp.Code)

	w, resp = env.do(t, http.MethodGet, "/api/v1/reservations?status=borrowed", "S001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list services.ReservationListResponse
	decodeData(t, resp, &list)
	assert.EqualValues(t, 1, list.Total)

	w, resp = env.do(t, http.MethodGet, "/api/v1/reservations/ledger/summary", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"borrowed":1`)
}

func TestAvailabilityEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	env.fx.Teacher("T001")
	env.fx.Device("A-01", models.DeviceIdle, 0)

	w, resp := env.do(t, http.MethodGet, "/api/v1/devices/availability?date=2025-06-01&slot=09:00-10:00", "T001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page services.AvailabilityPage
	decodeData(t, resp, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A区", page.Items[0].Zone)

	w, resp = env.do(t, http.MethodGet, "/api/v1/devices/availability?date=2025-06-01&slot=10:00-09:00", "T001", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.CodeInvalidRequest, resp.Code)

	w, resp = env.do(t, http.MethodGet, "/api/v1/devices/availability?slot=09:00-10:00", "T001", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.CodeInvalidRequest, resp.Code)
}

func TestDeviceEndpoints(t *testing.T) {
	env := newAPIEnv(t)
	env.fx.Staff("head", models.RoleHead)
	env.fx.Teacher("T001")

	w, resp := env.do(t, http.MethodPost, "/api/v1/devices", "T001", map[string]any{"device_no": "A-01"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, services.CodeForbidden, resp.Code)

	w, resp = env.do(t, http.MethodPost, "/api/v1/devices", "head", map[string]any{"device_no": "A-01", "rental_price": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var device models.Device
	decodeData(t, resp, &device)

	w, resp = env.do(t, http.MethodPost, "/api/v1/devices", "head", map[string]any{"device_no": "A-01"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.CodeConflict, resp.Code)

	w, resp = env.do(t, http.MethodPost, "/api/v1/devices", "head", map[string]any{"device_no": "A-02", "status": "broken"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, services.CodeValidation, resp.Code)

	w, resp = env.do(t, http.MethodGet, "/api/v1/devices/ledger/stats", "head", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"total":1`)

	w, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/devices/%d", device.ID), "head", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReportExcelDownload(t *testing.T) {
	env := newAPIEnv(t)
	env.fx.Staff("admin", models.RoleAdmin)

	w, _ := env.do(t, http.MethodGet, "/api/v1/reports/weekly/excel", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reports.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "weekly_report_")
	assert.NotZero(t, w.Body.Len())

	w, resp := env.do(t, http.MethodGet, "/api/v1/reports/daily", "admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, services.CodeNotFound, resp.Code)

	w, resp = env.do(t, http.MethodGet, "/api/v1/reports/monthly", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"type":"monthly"`)
}

func TestHealthAndRecovery(t *testing.T) {
	env := newAPIEnv(t)

	w, resp := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.CodeOK, resp.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	router := gin.New()
	SetupMiddleware(router, utils.NewSlogLogger(nil), []string{"http://localhost:5173"})
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), string(services.CodeInternal)))
}
