package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	BaseHandler
	checker HealthChecker
	service string
}

func NewHealthHandler(checker HealthChecker, service string, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: NewBaseHandler(logger),
		checker:     checker,
		service:     service,
	}
}

// Health pings the database and the cache
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.checker.HealthCheck(ctx); err != nil {
		h.LogError(c, err, "Health check failed")
		h.RespondWithError(c, http.StatusServiceUnavailable, services.CodeInternal, "unhealthy", gin.H{"service": h.service})
		return
	}

	h.RespondOK(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   h.service,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
