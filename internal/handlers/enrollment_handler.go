package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matricula-cloud/matricula-service/internal/services"
	"github.com/matricula-cloud/matricula-service/internal/utils"
)

// EnrollmentHandler exposes the enrollment listing, stats and export
// endpoints
type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewEnrollmentHandler(service services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetByID returns a single enrollment with its details
// GET /api/v1/matriculas/:id
func (h *EnrollmentHandler) GetByID(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	enrollment, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// List returns a paginated enrollment listing. A page past the last
// match is an empty result, not an error.
// GET /api/v1/matriculas?page=&page_size=&id_periodo=&estado=&search=
func (h *EnrollmentHandler) List(c *gin.Context) {
	var req services.ListEnrollmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Stats returns the per-status counts for the filtered period
// GET /api/v1/matriculas/stats?id_periodo=
func (h *EnrollmentHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), parseUintQuery(c, "id_periodo"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Export streams the filtered enrollment set as an XLSX download
// GET /api/v1/matriculas/export?id_periodo=
func (h *EnrollmentHandler) Export(c *gin.Context) {
	data, err := h.service.ExportXLSX(c.Request.Context(), parseUintQuery(c, "id_periodo"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("matriculas_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *EnrollmentHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "enrollment not found",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "enrollment handler error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "internal server error",
		})
	}
}
