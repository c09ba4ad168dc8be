package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/lab-reservation-service/internal/reports"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	service services.ReportService
}

func NewReportHandler(service services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Summary returns the all-time reservation totals
// @Summary Report summary
// @Tags reports
// @Produce json
// @Success 200 {object} SuccessResponse{data=repositories.ReportSummary}
// @Failure 403 {object} ErrorResponse
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
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

// Period counts reservations starting in the trailing week, the current month or the current year
// @Summary Period report
// @Tags reports
// @Produce json
// @Param kind path string true "weekly, monthly or yearly"
// @Success 200 {object} SuccessResponse{data=services.PeriodReport}
// @Failure 404 {object} ErrorResponse "Unknown period"
// @Router /reports/{kind} [get]
func (h *ReportHandler) Period(c *gin.Context) {
	kind, ok := h.parseKind(c)
	if !ok {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	report, err := h.service.Period(c.Request.Context(), actor, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.RespondOK(c, http.StatusOK, report)
}

// Excel downloads the period ledger as a workbook
// @Summary Export period report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param kind path string true "weekly, monthly or yearly"
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse
// @Router /reports/{kind}/excel [get]
func (h *ReportHandler) Excel(c *gin.Context) {
	kind, ok := h.parseKind(c)
	if !ok {
		return
	}
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	h.LogRequest(c, "Exporting report", "kind", kind)

	report, err := h.service.Excel(c.Request.Context(), actor, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s",
		report.FileName, url.PathEscape(report.DisplayName)))
	c.Data(http.StatusOK, reports.ContentType, report.Content)
}

func (h *ReportHandler) parseKind(c *gin.Context) (reports.Kind, bool) {
	kind, ok := reports.ParseKind(c.Param("kind"))
	if !ok {
		h.RespondWithError(c, http.StatusNotFound, services.CodeNotFound, "unknown report period", c.Param("kind"))
	}
	return kind, ok
}
