package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/services"
	"github.com/matricula-cloud/matricula-service/internal/utils"
)

// TeacherHandler exposes the teacher CRUD endpoints. Creation and
// update run the two-row person+teacher protocol inside the service;
// the handler only maps its outcomes to status codes.
type TeacherHandler struct {
	BaseHandler
	service services.TeacherService
}

func NewTeacherHandler(service services.TeacherService, logger utils.Logger) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Create registers a new teacher together with its person row
// POST /api/v1/profesores
func (h *TeacherHandler) Create(c *gin.Context) {
	var req services.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	teacher, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, teacher)
}

// GetByID returns a single teacher with its person and specialty
// GET /api/v1/profesores/:id
func (h *TeacherHandler) GetByID(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	teacher, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// List returns a paginated teacher listing
// GET /api/v1/profesores
func (h *TeacherHandler) List(c *gin.Context) {
	filters := repositories.TeacherFilters{
		InstitutionID: parseUintQuery(c, "id_institucion"),
		SpecialtyID:   parseUintQuery(c, "id_especialidad"),
		Search:        c.Query("search"),
	}
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 10)

	resp, err := h.service.List(c.Request.Context(), filters, page, pageSize)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Update replaces the teacher's person fields and specialty
// PUT /api/v1/profesores/:id
func (h *TeacherHandler) Update(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	// The person row is addressed through the teacher it backs
	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	teacher, err := h.service.Update(c.Request.Context(), id, current.PersonID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// Delete removes the teacher row only; the person row stays
// DELETE /api/v1/profesores/:id
func (h *TeacherHandler) Delete(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TeacherHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "teacher not found",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrPersonCreateFailed),
		errors.Is(err, services.ErrTeacherCreateFailed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "teacher registration failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrPersonUpdateFailed),
		errors.Is(err, services.ErrTeacherUpdateFailed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "teacher update failed",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "teacher handler error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "internal server error",
		})
	}
}
