package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matricula-cloud/matricula-service/internal/services"
	"github.com/matricula-cloud/matricula-service/internal/utils"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

// CatalogHandler exposes the reference-data endpoints: institutions,
// periods, specialties, frequencies, schedules, and the read-only
// document type and payment method tables.
type CatalogHandler struct {
	BaseHandler
	service services.CatalogService
}

func NewCatalogHandler(service services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== INSTITUTIONS =====

// POST /api/v1/instituciones
func (h *CatalogHandler) CreateInstitution(c *gin.Context) {
	var req validator.InstitutionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	institution, err := h.service.CreateInstitution(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, institution)
}

// GET /api/v1/instituciones/:id
func (h *CatalogHandler) GetInstitution(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	institution, err := h.service.GetInstitution(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, institution)
}

// GET /api/v1/instituciones
func (h *CatalogHandler) ListInstitutions(c *gin.Context) {
	institutions, err := h.service.ListInstitutions(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"instituciones": institutions})
}

// PUT /api/v1/instituciones/:id
func (h *CatalogHandler) UpdateInstitution(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.InstitutionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	institution, err := h.service.UpdateInstitution(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, institution)
}

// DELETE /api/v1/instituciones/:id
func (h *CatalogHandler) DeleteInstitution(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteInstitution(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== PERIODS =====

// POST /api/v1/periodos
func (h *CatalogHandler) CreatePeriod(c *gin.Context) {
	var req validator.PeriodRequest
	if !h.bindJSON(c, &req) {
		return
	}

	period, err := h.service.CreatePeriod(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, period)
}

// GET /api/v1/periodos?id_institucion=
func (h *CatalogHandler) ListPeriods(c *gin.Context) {
	periods, err := h.service.ListPeriods(c.Request.Context(), parseUintQuery(c, "id_institucion"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"periodos": periods})
}

// PUT /api/v1/periodos/:id
func (h *CatalogHandler) UpdatePeriod(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.PeriodRequest
	if !h.bindJSON(c, &req) {
		return
	}

	period, err := h.service.UpdatePeriod(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, period)
}

// DELETE /api/v1/periodos/:id
func (h *CatalogHandler) DeletePeriod(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeletePeriod(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== SPECIALTIES =====

// POST /api/v1/especialidades
func (h *CatalogHandler) CreateSpecialty(c *gin.Context) {
	var req validator.SpecialtyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	specialty, err := h.service.CreateSpecialty(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, specialty)
}

// GET /api/v1/especialidades?id_institucion=
func (h *CatalogHandler) ListSpecialties(c *gin.Context) {
	specialties, err := h.service.ListSpecialties(c.Request.Context(), parseUintQuery(c, "id_institucion"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"especialidades": specialties})
}

// PUT /api/v1/especialidades/:id
func (h *CatalogHandler) UpdateSpecialty(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.SpecialtyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	specialty, err := h.service.UpdateSpecialty(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, specialty)
}

// DELETE /api/v1/especialidades/:id
func (h *CatalogHandler) DeleteSpecialty(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteSpecialty(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== FREQUENCIES AND SCHEDULES =====

// POST /api/v1/frecuencias
func (h *CatalogHandler) CreateFrequency(c *gin.Context) {
	var req validator.FrequencyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	frequency, err := h.service.CreateFrequency(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, frequency)
}

// GET /api/v1/frecuencias
func (h *CatalogHandler) ListFrequencies(c *gin.Context) {
	frequencies, err := h.service.ListFrequencies(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"frecuencias": frequencies})
}

// PUT /api/v1/frecuencias/:id
func (h *CatalogHandler) UpdateFrequency(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.FrequencyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	frequency, err := h.service.UpdateFrequency(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, frequency)
}

// DELETE /api/v1/frecuencias/:id
func (h *CatalogHandler) DeleteFrequency(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteFrequency(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /api/v1/horarios
func (h *CatalogHandler) CreateSchedule(c *gin.Context) {
	var req validator.ScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	schedule, err := h.service.CreateSchedule(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// GET /api/v1/horarios
func (h *CatalogHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.service.ListSchedules(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"horarios": schedules})
}

// PUT /api/v1/horarios/:id
func (h *CatalogHandler) UpdateSchedule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.ScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	schedule, err := h.service.UpdateSchedule(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// DELETE /api/v1/horarios/:id
func (h *CatalogHandler) DeleteSchedule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteSchedule(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== READ-ONLY REFERENCE TABLES =====

// GET /api/v1/tipos-documento
func (h *CatalogHandler) ListDocumentTypes(c *gin.Context) {
	types, err := h.service.ListDocumentTypes(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tipos_documento": types})
}

// GET /api/v1/medios-deposito
func (h *CatalogHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.service.ListPaymentMethods(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medios_deposito": methods})
}

// ===== HELPERS =====

func (h *CatalogHandler) bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func (h *CatalogHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "catalog entry not found",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "catalog handler error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "internal server error",
		})
	}
}
