package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/services"
	"github.com/matricula-cloud/matricula-service/internal/utils"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

type AttendanceHandler struct {
	BaseHandler
	service services.AttendanceService
}

func NewAttendanceHandler(service services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateSchedule plans a session for an enrollment detail; the
// matching attendance record is seeded in estado pendiente
// POST /api/v1/cronogramas-asistencia
func (h *AttendanceHandler) CreateSchedule(c *gin.Context) {
	var req validator.AttendanceScheduleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	schedule, err := h.service.CreateSchedule(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// ListSchedules returns the attendance schedules of an enrollment
// GET /api/v1/matriculas/:id/cronogramas-asistencia
func (h *AttendanceHandler) ListSchedules(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	schedules, err := h.service.ListSchedules(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cronogramas": schedules})
}

// List returns attendance records with optional filters
// GET /api/v1/asistencias?id_matricula=&id_matricula_detalle=&estado=
func (h *AttendanceHandler) List(c *gin.Context) {
	filters := repositories.AttendanceFilters{
		EnrollmentID: parseUintQuery(c, "id_matricula"),
		DetailID:     parseUintQuery(c, "id_matricula_detalle"),
	}
	if raw := c.Query("estado"); raw != "" {
		estado := models.AttendanceStatus(raw)
		filters.Estado = &estado
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Mark updates an attendance record's status, stamping the real time
// for present/late marks
// PATCH /api/v1/asistencias/:id
func (h *AttendanceHandler) Mark(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.AttendanceMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	// Registrar linkage expects a local person ID; Casdoor user IDs are
	// opaque strings, so the optional registrar comes from the query
	registeredBy := parseUintQuery(c, "registrado_por")

	if err := h.service.Mark(c.Request.Context(), id, &req, registeredBy); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AttendanceHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "attendance record not found",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "attendance handler error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "internal server error",
		})
	}
}
