package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
)

type IdentityHandler struct {
	BaseHandler
	service services.IdentityService
}

func NewIdentityHandler(service services.IdentityService, logger utils.Logger) *IdentityHandler {
	return &IdentityHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Register creates a borrower identity
// @Summary Register borrower
// @Description Self-registration for teachers, students and external borrowers. The account is derived from the borrower type.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration data"
// @Success 201 {object} SuccessResponse{data=models.User}
// @Failure 409 {object} ErrorResponse "Account, teacher_no or student_no already exists"
// @Failure 422 {object} ErrorResponse "Missing role-specific fields"
// @Router /auth/register [post]
func (h *IdentityHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	h.LogRequest(c, "Registering borrower", "borrower_type", req.BorrowerType)

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusCreated, user)
}

// Me returns the caller's profile
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 401 {object} ErrorResponse
// @Router /users/me [get]
func (h *IdentityHandler) Me(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	user, err := h.service.Me(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, user)
}

// ListUsers lists the identity directory
// @Summary List users
// @Description Paginated directory listing for admin and head
// @Tags staff
// @Produce json
// @Param borrower_type query string false "teacher, student or external"
// @Param keyword query string false "Matches account, name or contact"
// @Param skip query int false "Offset (default 0)"
// @Param limit query int false "Page size 1-100 (default 20)"
// @Success 200 {object} SuccessResponse{data=services.UserListResponse}
// @Failure 403 {object} ErrorResponse
// @Router /staff [get]
func (h *IdentityHandler) ListUsers(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}
	page, ok := h.parsePage(c)
	if !ok {
		return
	}

	q := services.UserListQuery{Page: page, Keyword: c.Query("keyword")}
	if raw := strings.TrimSpace(c.Query("borrower_type")); raw != "" {
		bt := models.BorrowerType(raw)
		if !bt.IsValid() {
			h.RespondWithError(c, http.StatusUnprocessableEntity, services.CodeValidation, "unknown borrower_type", raw)
			return
		}
		q.BorrowerType = &bt
	}

	h.LogRequest(c, "Listing users", "skip", page.Skip, "limit", page.Limit)

	list, err := h.service.List(c.Request.Context(), actor, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, list)
}

// GetUser returns one directory entry
// @Summary Get user
// @Tags staff
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 404 {object} ErrorResponse
// @Router /staff/{id} [get]
func (h *IdentityHandler) GetUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	user, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, user)
}

// UpdateUser edits a directory entry
// @Summary Update user
// @Tags staff
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body services.UpdateStaffRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 404 {object} ErrorResponse
// @Router /staff/{id} [put]
func (h *IdentityHandler) UpdateUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	var req services.UpdateStaffRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	h.LogRequest(c, "Updating user", "user_id", id)

	user, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, user)
}

// DeactivateUser soft-deletes a directory entry
// @Summary Deactivate user
// @Description Sets is_active=false; the identity can no longer authenticate
// @Tags staff
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /staff/{id} [delete]
func (h *IdentityHandler) DeactivateUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	h.LogRequest(c, "Deactivating user", "user_id", id)

	if err := h.service.Deactivate(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, gin.H{"id": id, "is_active": false})
}
