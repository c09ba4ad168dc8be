package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
)

type ReservationHandler struct {
	BaseHandler
	service services.ReservationService
}

func NewReservationHandler(service services.ReservationService, logger utils.Logger) *ReservationHandler {
	return &ReservationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== LEDGER =====

// CreateReservation books a device for a time window
// @Summary Create reservation
// @Description The device row is locked and overlapping active reservations are refused with 409
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body services.CreateReservationRequest true "Reservation data"
// @Success 201 {object} SuccessResponse{data=services.ReservationResponse}
// @Failure 400 {object} ErrorResponse "Device not reservable or inverted window"
// @Failure 404 {object} ErrorResponse "Device not found"
// @Failure 409 {object} ErrorResponse "Window overlaps an active reservation"
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	var req services.CreateReservationRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	h.LogRequest(c, "Creating reservation", "device_id", req.DeviceID)

	resp, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusCreated, resp)
}

// GetReservation returns one reservation with its predicted next action
// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, resp)
}

// ListReservations lists the reservations visible to the caller
// @Summary List reservations
// @Tags reservations
// @Produce json
// @Param status query string false "Reservation status"
// @Param device_id query int false "Device ID"
// @Param skip query int false "Offset (default 0)"
// @Param limit query int false "Page size 1-100 (default 20)"
// @Success 200 {object} SuccessResponse{data=services.ReservationListResponse}
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}
	page, ok := h.parsePage(c)
	if !ok {
		return
	}

	q := services.ReservationListQuery{Page: page}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.ReservationStatus(raw)
		if !status.IsValid() {
			h.RespondWithError(c, http.StatusUnprocessableEntity, services.CodeValidation, "unknown reservation status", raw)
			return
		}
		q.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("device_id")); raw != "" {
		deviceID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			h.RespondWithError(c, http.StatusUnprocessableEntity, services.CodeValidation, "device_id must be a positive integer", raw)
			return
		}
		id := uint(deviceID)
		q.DeviceID = &id
	}

	list, err := h.service.List(c.Request.Context(), actor, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, list)
}

// UpdateReservation applies a partial update
// @Summary Update reservation
// @Description Owners may change time, description, contact or cancel while pending or returned. Staff may change any field.
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body services.UpdateReservationRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reservations/{id} [put]
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	var req services.UpdateReservationRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	h.LogRequest(c, "Updating reservation", "reservation_id", id)

	resp, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, resp)
}

// DeleteReservation removes a reservation and its history
// @Summary Delete reservation
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	h.LogRequest(c, "Deleting reservation", "reservation_id", id)

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, gin.H{"id": id})
}

// ===== APPROVAL WORKFLOW =====

// Approve advances the reservation by one approval step
// @Summary Approve reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body services.DecisionRequest false "Approver comment"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Failure 400 {object} ErrorResponse "Not awaiting approval or payment outstanding"
// @Failure 403 {object} ErrorResponse "Caller may not act on the current step"
// @Router /reservations/{id}/approve [post]
func (h *ReservationHandler) Approve(c *gin.Context) {
	h.decide(c, "approve", h.service.Approve)
}

// Reject ends the reservation
// @Summary Reject reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body services.DecisionRequest false "Approver comment"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Router /reservations/{id}/reject [post]
func (h *ReservationHandler) Reject(c *gin.Context) {
	h.decide(c, "reject", h.service.Reject)
}

// Return sends the reservation back to its owner for changes
// @Summary Return reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body services.DecisionRequest false "Approver comment"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Router /reservations/{id}/return [post]
func (h *ReservationHandler) Return(c *gin.Context) {
	h.decide(c, "return", h.service.Return)
}

// Resubmit restarts the approval chain of a returned reservation
// @Summary Resubmit reservation
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Failure 409 {object} ErrorResponse "Window now overlaps another reservation"
// @Router /reservations/{id}/resubmit [post]
func (h *ReservationHandler) Resubmit(c *gin.Context) {
	h.act(c, "resubmit", h.service.Resubmit)
}

// ===== PAYMENT AND LOAN =====

// ConfirmPayment settles the rental fee through the mock finance collaborator
// @Summary Confirm payment
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Router /reservations/{id}/payment/confirm [post]
func (h *ReservationHandler) ConfirmPayment(c *gin.Context) {
	h.act(c, "confirm payment", h.service.ConfirmPayment)
}

// WaivePayment clears the rental fee
// @Summary Waive payment
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Router /reservations/{id}/payment/waive [post]
func (h *ReservationHandler) WaivePayment(c *gin.Context) {
	h.act(c, "waive payment", h.service.WaivePayment)
}

// Activate makes an approved reservation ready for pickup
// @Summary Activate reservation
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Router /reservations/{id}/activate [post]
func (h *ReservationHandler) Activate(c *gin.Context) {
	h.act(c, "activate", h.service.Activate)
}

// Borrow records the device handover
// @Summary Borrow device
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body services.HandoverRequest false "Handover note"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Router /reservations/{id}/borrow [post]
func (h *ReservationHandler) Borrow(c *gin.Context) {
	h.handover(c, "borrow", h.service.Borrow)
}

// Complete records the device return
// @Summary Complete reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body services.HandoverRequest false "Return note"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Router /reservations/{id}/complete [post]
func (h *ReservationHandler) Complete(c *gin.Context) {
	h.handover(c, "complete", h.service.Complete)
}

// Refund returns a paid fee for a cancelled or rejected reservation
// @Summary Refund payment
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse{data=services.ReservationResponse}
// @Router /reservations/{id}/refund [post]
func (h *ReservationHandler) Refund(c *gin.Context) {
	h.act(c, "refund", h.service.Refund)
}

// ===== READ MODELS =====

// History returns the transition trail
// @Summary Reservation history
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse{data=[]models.ReservationHistory}
// @Failure 403 {object} ErrorResponse
// @Router /reservations/{id}/history [get]
func (h *ReservationHandler) History(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	history, err := h.service.History(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, history)
}

// Summary aggregates the reservation ledger
// @Summary Reservation ledger summary
// @Tags reservations
// @Produce json
// @Success 200 {object} SuccessResponse{data=repositories.ReservationSummary}
// @Failure 403 {object} ErrorResponse
// @Router /reservations/ledger/summary [get]
func (h *ReservationHandler) Summary(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, summary)
}

// ===== HELPERS =====

type actionFunc func(ctx context.Context, actor *models.User, id uint) (*services.ReservationResponse, error)

type decisionFunc func(ctx context.Context, actor *models.User, id uint, req *services.DecisionRequest) (*services.ReservationResponse, error)

type handoverFunc func(ctx context.Context, actor *models.User, id uint, req *services.HandoverRequest) (*services.ReservationResponse, error)

func (h *ReservationHandler) act(c *gin.Context, action string, fn actionFunc) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	h.LogRequest(c, "Reservation action", "action", action, "reservation_id", id)

	resp, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.RespondOK(c, http.StatusOK, resp)
}

func (h *ReservationHandler) decide(c *gin.Context, action string, fn decisionFunc) {
	var req services.DecisionRequest
	if !h.bindJSON(c, &req, true) {
		return
	}
	h.act(c, action, func(ctx context.Context, actor *models.User, id uint) (*services.ReservationResponse, error) {
		return fn(ctx, actor, id, &req)
	})
}

func (h *ReservationHandler) handover(c *gin.Context, action string, fn handoverFunc) {
	var req services.HandoverRequest
	if !h.bindJSON(c, &req, true) {
		return
	}
	h.act(c, action, func(ctx context.Context, actor *models.User, id uint) (*services.ReservationResponse, error) {
		return fn(ctx, actor, id, &req)
	})
}
