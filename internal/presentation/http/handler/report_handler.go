package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
)

// ReportHandler handles reporting requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary returns ledger and sales totals with a daily series
// @Summary Report summary
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "End date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var query request.ReportQuery
	if !bindQuery(c, &query) {
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), userID, parseDate(query.From), parseDate(query.To))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Report generated successfully", summary)
}
