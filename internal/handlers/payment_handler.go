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

type PaymentHandler struct {
	BaseHandler
	service services.PaymentService
}

func NewPaymentHandler(service services.PaymentService, logger utils.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateSchedule registers a new scheduled charge for an enrollment
// POST /api/v1/cronogramas-pago
func (h *PaymentHandler) CreateSchedule(c *gin.Context) {
	var req validator.PaymentScheduleCreateRequest
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

// ListSchedules returns payment schedules, optionally filtered by
// enrollment and status
// GET /api/v1/cronogramas-pago?id_matricula=&estado=
func (h *PaymentHandler) ListSchedules(c *gin.Context) {
	filters := repositories.PaymentFilters{
		EnrollmentID: parseUintQuery(c, "id_matricula"),
	}
	if raw := c.Query("estado"); raw != "" {
		estado := models.PaymentStatus(raw)
		filters.Estado = &estado
	}

	resp, err := h.service.ListSchedules(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterDeposit records a deposit against a schedule; the schedule
// flips to paid when the accumulated deposits cover the amount due
// POST /api/v1/depositos
func (h *PaymentHandler) RegisterDeposit(c *gin.Context) {
	var req services.RegisterDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.RegisterDeposit(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListDeposits returns the deposits recorded against a schedule
// GET /api/v1/cronogramas-pago/:id/depositos
func (h *PaymentHandler) ListDeposits(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	deposits, err := h.service.ListDeposits(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"depositos": deposits})
}

func (h *PaymentHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "payment schedule not found",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "payment handler error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "internal server error",
		})
	}
}
