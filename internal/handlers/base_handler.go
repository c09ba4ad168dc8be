package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
	"github.com/SAP-F-2025/lab-reservation-service/internal/validator"
)

// SuccessResponse is the envelope written for every successful call.
type SuccessResponse struct {
	Code    services.ErrorCode `json:"code"`
	Message string             `json:"message"`
	Data    any                `json:"data"`
}

// ErrorResponse is the envelope written for every failed call.
type ErrorResponse struct {
	Code    services.ErrorCode `json:"code"`
	Message string             `json:"message"`
	Details any                `json:"details,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromGin(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromGin(c, h.logger).Error(msg, args...)
}

// RespondOK writes data inside the success envelope.
func (h *BaseHandler) RespondOK(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{Code: services.CodeOK, Message: "success", Data: data})
}

func (h *BaseHandler) RespondWithError(c *gin.Context, status int, code services.ErrorCode, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

// HandleError translates a service error into the envelope and HTTP status.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	code := services.CodeOf(err)
	status := StatusFor(code)

	var (
		permErr *services.PermissionError
		appErr  *services.AppError
		verrs   validator.ValidationErrors
	)
	switch {
	case errors.As(err, &permErr):
		h.RespondWithError(c, status, code, "permission denied", map[string]any{
			"resource": permErr.Resource,
			"action":   permErr.Action,
			"reason":   permErr.Reason,
		})
	case errors.As(err, &verrs):
		h.RespondWithError(c, status, code, "validation failed", verrs)
	case errors.As(err, &appErr) && code != services.CodeInternal:
		h.RespondWithError(c, status, code, appErr.Message, appErr.Details)
	default:
		h.LogError(c, err, "Unexpected service error")
		h.RespondWithError(c, http.StatusInternalServerError, services.CodeInternal, "internal server error", nil)
	}
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code services.ErrorCode) int {
	switch code {
	case services.CodeOK:
		return http.StatusOK
	case services.CodeBadRequest, services.CodeInvalidRequest:
		return http.StatusBadRequest
	case services.CodeUnauthorized:
		return http.StatusUnauthorized
	case services.CodeForbidden, services.CodePermissionDenied:
		return http.StatusForbidden
	case services.CodeNotFound:
		return http.StatusNotFound
	case services.CodeConflict:
		return http.StatusConflict
	case services.CodeValidation:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// bindJSON decodes the body into req. An empty body is accepted when
// optional is set.
func (h *BaseHandler) bindJSON(c *gin.Context, req any, optional bool) bool {
	if optional && c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusUnprocessableEntity, services.CodeValidation, "invalid request payload", err.Error())
		return false
	}
	return true
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		h.RespondWithError(c, http.StatusBadRequest, services.CodeInvalidRequest, "invalid "+param, nil)
		return 0
	}
	return uint(id)
}

// parsePage reads skip and limit. limit must lie in [1, 100] and skip must
// not be negative.
func (h *BaseHandler) parsePage(c *gin.Context) (services.Page, bool) {
	page := services.Page{Limit: services.DefaultPageLimit}

	if raw := c.Query("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			h.RespondWithError(c, http.StatusUnprocessableEntity, services.CodeValidation, "skip must be a non-negative integer", nil)
			return page, false
		}
		page.Skip = skip
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > services.MaxPageLimit {
			h.RespondWithError(c, http.StatusUnprocessableEntity, services.CodeValidation, "limit must be between 1 and 100", nil)
			return page, false
		}
		page.Limit = limit
	}
	return page, true
}

// currentUser returns the identity set by the auth middleware.
func (h *BaseHandler) currentUser(c *gin.Context) *models.User {
	user, err := GetUserFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, services.CodeUnauthorized, "user not authenticated", nil)
		return nil
	}
	return user
}
