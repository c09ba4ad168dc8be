package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
)

type DeviceHandler struct {
	BaseHandler
	service services.DeviceService
}

func NewDeviceHandler(service services.DeviceService, logger utils.Logger) *DeviceHandler {
	return &DeviceHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== REGISTRY =====

// CreateDevice registers a device
// @Summary Create device
// @Tags devices
// @Accept json
// @Produce json
// @Param request body services.CreateDeviceRequest true "Device data"
// @Success 201 {object} SuccessResponse{data=models.Device}
// @Failure 409 {object} ErrorResponse "device_no already exists"
// @Failure 422 {object} ErrorResponse
// @Router /devices [post]
func (h *DeviceHandler) CreateDevice(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	var req services.CreateDeviceRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	h.LogRequest(c, "Creating device", "device_no", req.DeviceNo)

	device, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusCreated, device)
}

// GetDevice returns one device
// @Summary Get device
// @Tags devices
// @Produce json
// @Param id path int true "Device ID"
// @Success 200 {object} SuccessResponse{data=models.Device}
// @Failure 404 {object} ErrorResponse
// @Router /devices/{id} [get]
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	device, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, device)
}

// UpdateDevice edits a device
// @Summary Update device
// @Tags devices
// @Accept json
// @Produce json
// @Param id path int true "Device ID"
// @Param request body services.UpdateDeviceRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=models.Device}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /devices/{id} [put]
func (h *DeviceHandler) UpdateDevice(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	var req services.UpdateDeviceRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	h.LogRequest(c, "Updating device", "device_id", id)

	device, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, device)
}

// DeleteDevice removes a device
// @Summary Delete device
// @Description Refused with 409 while an active reservation references the device
// @Tags devices
// @Produce json
// @Param id path int true "Device ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /devices/{id} [delete]
func (h *DeviceHandler) DeleteDevice(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	h.LogRequest(c, "Deleting device", "device_id", id)

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, gin.H{"id": id})
}

// ListDevices lists the registry
// @Summary List devices
// @Tags devices
// @Produce json
// @Param keyword query string false "Matches device_no, model or manufacturer"
// @Param status query string false "idle, in_use, maintenance or scrapped"
// @Param skip query int false "Offset (default 0)"
// @Param limit query int false "Page size 1-100 (default 20)"
// @Success 200 {object} SuccessResponse{data=services.DeviceListResponse}
// @Router /devices [get]
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	page, ok := h.parsePage(c)
	if !ok {
		return
	}

	q := services.DeviceListQuery{Page: page, Keyword: c.Query("keyword")}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.DeviceStatus(raw)
		if !status.IsValid() {
			h.RespondWithError(c, http.StatusUnprocessableEntity, services.CodeValidation, "unknown device status", raw)
			return
		}
		q.Status = &status
	}

	list, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, list)
}

// ===== AVAILABILITY =====

// Availability labels each device for a date and time slot
// @Summary Device availability board
// @Tags devices
// @Produce json
// @Param date query string true "YYYY-MM-DD"
// @Param slot query string true "HH:MM-HH:MM"
// @Param keyword query string false "Matches device_no, model or manufacturer"
// @Param zone query string false "Zone letter (A, B, C)"
// @Param skip query int false "Offset (default 0)"
// @Param limit query int false "Page size 1-100 (default 20)"
// @Success 200 {object} SuccessResponse{data=services.AvailabilityPage}
// @Failure 400 {object} ErrorResponse "Bad date or slot"
// @Router /devices/availability [get]
func (h *DeviceHandler) Availability(c *gin.Context) {
	page, ok := h.parsePage(c)
	if !ok {
		return
	}

	q := &services.AvailabilityQuery{
		Date:    c.Query("date"),
		Slot:    c.Query("slot"),
		Keyword: c.Query("keyword"),
		Zone:    c.Query("zone"),
		Skip:    page.Skip,
		Limit:   page.Limit,
	}

	h.LogRequest(c, "Evaluating availability", "date", q.Date, "slot", q.Slot, "zone", q.Zone)

	result, err := h.service.Availability(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, result)
}

// Stats aggregates the registry
// @Summary Device ledger statistics
// @Tags devices
// @Produce json
// @Success 200 {object} SuccessResponse{data=repositories.DeviceStats}
// @Failure 403 {object} ErrorResponse
// @Router /devices/ledger/stats [get]
func (h *DeviceHandler) Stats(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, stats)
}
