package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dekontrol/internal/service"
)

// ReceiptHandler handles receipt upload, analysis and review endpoints.
type ReceiptHandler struct {
	receiptService service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Upload handles POST /api/v1/receipts
// Multipart form: file, student_id, company_id, period_month, period_year,
// expected_amount (optional).
func (h *ReceiptHandler) Upload(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	studentID, err := uuid.Parse(c.PostForm("student_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "student_id must be a valid UUID")
		return
	}
	companyID, err := uuid.Parse(c.PostForm("company_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "company_id must be a valid UUID")
		return
	}
	month, err := strconv.Atoi(c.PostForm("period_month"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "period_month must be an integer")
		return
	}
	year, err := strconv.Atoi(c.PostForm("period_year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "period_year must be an integer")
		return
	}

	var expectedAmount *decimal.Decimal
	if raw := c.PostForm("expected_amount"); raw != "" {
		amount, parseErr := decimal.NewFromString(raw)
		if parseErr != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "expected_amount must be a decimal number")
			return
		}
		expectedAmount = &amount
	}

	receipt, err := h.receiptService.Upload(c.Request.Context(), service.UploadReceiptInput{
		StudentID:      studentID,
		CompanyID:      companyID,
		PeriodMonth:    month,
		PeriodYear:     year,
		ExpectedAmount: expectedAmount,
		UploadedBy:     userID,
		File:           file,
		Header:         header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, receipt)
}

// List handles GET /api/v1/receipts with optional student_id or
// period_month/period_year filters.
func (h *ReceiptHandler) List(c *gin.Context) {
	offset, limit := paginationParams(c)

	if studentIDStr := c.Query("student_id"); studentIDStr != "" {
		studentID, err := uuid.Parse(studentIDStr)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "student_id must be a valid UUID")
			return
		}
		receipts, total, err := h.receiptService.ListByStudent(c.Request.Context(), studentID, offset, limit)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondPaginated(c, receipts, PagMeta{Total: total, Offset: offset, Limit: limit})
		return
	}

	if monthStr := c.Query("period_month"); monthStr != "" {
		month, err1 := strconv.Atoi(monthStr)
		year, err2 := strconv.Atoi(c.Query("period_year"))
		if err1 != nil || err2 != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "period_month and period_year must be integers")
			return
		}
		receipts, total, err := h.receiptService.ListByPeriod(c.Request.Context(), month, year, offset, limit)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondPaginated(c, receipts, PagMeta{Total: total, Offset: offset, Limit: limit})
		return
	}

	receipts, total, err := h.receiptService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, receipts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, receipt)
}

// DownloadURL handles GET /api/v1/receipts/:id/download
func (h *ReceiptHandler) DownloadURL(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	url, err := h.receiptService.GetDownloadURL(c.Request.Context(), receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// Reanalyze handles POST /api/v1/receipts/:id/reanalyze
func (h *ReceiptHandler) Reanalyze(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	if err := h.receiptService.Reanalyze(c.Request.Context(), receiptID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "receipt queued for analysis"})
}

// reviewRequest is the JSON body for review decisions.
type reviewRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// Review handles POST /api/v1/receipts/:id/review
func (h *ReceiptHandler) Review(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	receipt, err := h.receiptService.Review(c.Request.Context(), receiptID, service.ReviewInput{
		Approve:    req.Approve,
		Notes:      req.Notes,
		ReviewedBy: userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, receipt)
}

// Delete handles DELETE /api/v1/receipts/:id
func (h *ReceiptHandler) Delete(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), receiptID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "receipt deleted"})
}

func paginationParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
