package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dekontrol/internal/service"
)

// ReportHandler handles report export endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// MonthlyReport handles GET /api/v1/reports/monthly?month=6&year=2025
// and streams an XLSX workbook.
func (h *ReportHandler) MonthlyReport(c *gin.Context) {
	month, err1 := strconv.Atoi(c.Query("month"))
	year, err2 := strconv.Atoi(c.Query("year"))
	if err1 != nil || err2 != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "month and year query parameters are required integers")
		return
	}

	data, err := h.reportService.MonthlyReport(c.Request.Context(), month, year)
	if err != nil {
		HandleError(c, err)
		return
	}

	fileName := fmt.Sprintf("dekont-report-%04d-%02d.xlsx", year, month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
