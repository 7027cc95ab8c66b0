package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dekontrol/internal/service"
)

// RosterHandler handles student and company roster endpoints.
type RosterHandler struct {
	rosterService service.RosterService
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(rosterService service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// CreateStudent handles POST /api/v1/students
func (h *RosterHandler) CreateStudent(c *gin.Context) {
	var input service.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	student, err := h.rosterService.CreateStudent(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, student)
}

// GetStudent handles GET /api/v1/students/:id
func (h *RosterHandler) GetStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	student, err := h.rosterService.GetStudent(c.Request.Context(), studentID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, student)
}

// ListStudents handles GET /api/v1/students
func (h *RosterHandler) ListStudents(c *gin.Context) {
	offset, limit := paginationParams(c)
	students, total, err := h.rosterService.ListStudents(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, students, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// UpdateStudent handles PUT /api/v1/students/:id
func (h *RosterHandler) UpdateStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	var input service.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	student, err := h.rosterService.UpdateStudent(c.Request.Context(), studentID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, student)
}

// CreateCompany handles POST /api/v1/companies
func (h *RosterHandler) CreateCompany(c *gin.Context) {
	var input service.CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	company, err := h.rosterService.CreateCompany(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, company)
}

// GetCompany handles GET /api/v1/companies/:id
func (h *RosterHandler) GetCompany(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	company, err := h.rosterService.GetCompany(c.Request.Context(), companyID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, company)
}

// ListCompanies handles GET /api/v1/companies
func (h *RosterHandler) ListCompanies(c *gin.Context) {
	offset, limit := paginationParams(c)
	companies, total, err := h.rosterService.ListCompanies(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, companies, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// UpdateCompany handles PUT /api/v1/companies/:id
func (h *RosterHandler) UpdateCompany(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	var input service.CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	company, err := h.rosterService.UpdateCompany(c.Request.Context(), companyID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, company)
}
