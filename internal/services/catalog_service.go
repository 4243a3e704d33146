package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== INSTITUTIONS =====

func (s *catalogService) CreateInstitution(ctx context.Context, req *validator.InstitutionRequest) (*models.Institution, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	institution := &models.Institution{
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
	}
	if err := s.repo.Institution().Create(ctx, nil, institution); err != nil {
		return nil, fmt.Errorf("failed to create institution: %w", err)
	}

	s.logger.Info("Institution created", "institution_id", institution.ID)
	return institution, nil
}

func (s *catalogService) GetInstitution(ctx context.Context, id uint) (*models.Institution, error) {
	institution, err := s.repo.Institution().GetByID(ctx, nil, id)
	if err != nil {
		return nil, wrapQuery(err, "get institution")
	}
	return institution, nil
}

func (s *catalogService) ListInstitutions(ctx context.Context) ([]*models.Institution, error) {
	institutions, err := s.repo.Institution().List(ctx, nil)
	if err != nil {
		return nil, wrapQuery(err, "list institutions")
	}
	return institutions, nil
}

func (s *catalogService) UpdateInstitution(ctx context.Context, id uint, req *validator.InstitutionRequest) (*models.Institution, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	institution, err := s.repo.Institution().GetByID(ctx, nil, id)
	if err != nil {
		return nil, wrapQuery(err, "get institution for update")
	}

	institution.Nombre = req.Nombre
	institution.Direccion = req.Direccion
	institution.Telefono = req.Telefono

	if err := s.repo.Institution().Update(ctx, nil, institution); err != nil {
		return nil, fmt.Errorf("failed to update institution: %w", err)
	}
	return institution, nil
}

func (s *catalogService) DeleteInstitution(ctx context.Context, id uint) error {
	if err := s.repo.Institution().Delete(ctx, nil, id); err != nil {
		return wrapNotFound(err, "institution")
	}
	return nil
}

// ===== PERIODS =====

func (s *catalogService) CreatePeriod(ctx context.Context, req *validator.PeriodRequest) (*models.Period, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	period := &models.Period{
		InstitutionID: req.InstitutionID,
		Nombre:        req.Nombre,
	}
	if err := applyPeriodDates(period, req); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Period().Create(ctx, nil, period); err != nil {
		return nil, fmt.Errorf("failed to create period: %w", err)
	}

	s.logger.Info("Period created", "period_id", period.ID)
	return period, nil
}

func (s *catalogService) ListPeriods(ctx context.Context, institutionID *uint) ([]*models.Period, error) {
	periods, err := s.repo.Period().List(ctx, nil, institutionID)
	if err != nil {
		return nil, wrapQuery(err, "list periods")
	}
	return periods, nil
}

func (s *catalogService) UpdatePeriod(ctx context.Context, id uint, req *validator.PeriodRequest) (*models.Period, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	period, err := s.repo.Period().GetByID(ctx, nil, id)
	if err != nil {
		return nil, wrapQuery(err, "get period for update")
	}

	period.InstitutionID = req.InstitutionID
	period.Nombre = req.Nombre
	if err := applyPeriodDates(period, req); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Period().Update(ctx, nil, period); err != nil {
		return nil, fmt.Errorf("failed to update period: %w", err)
	}
	return period, nil
}

func (s *catalogService) DeletePeriod(ctx context.Context, id uint) error {
	if err := s.repo.Period().Delete(ctx, nil, id); err != nil {
		return wrapNotFound(err, "period")
	}
	return nil
}

// ===== SPECIALTIES =====

func (s *catalogService) CreateSpecialty(ctx context.Context, req *validator.SpecialtyRequest) (*models.Specialty, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	specialty := &models.Specialty{
		InstitutionID: req.InstitutionID,
		Nombre:        req.Nombre,
		Tipo:          req.Tipo,
		Precio:        req.Precio,
	}
	if err := s.repo.Specialty().Create(ctx, nil, specialty); err != nil {
		return nil, fmt.Errorf("failed to create specialty: %w", err)
	}

	s.logger.Info("Specialty created", "specialty_id", specialty.ID)
	return specialty, nil
}

func (s *catalogService) ListSpecialties(ctx context.Context, institutionID *uint) ([]*models.Specialty, error) {
	specialties, err := s.repo.Specialty().List(ctx, nil, institutionID)
	if err != nil {
		return nil, wrapQuery(err, "list specialties")
	}
	return specialties, nil
}

func (s *catalogService) UpdateSpecialty(ctx context.Context, id uint, req *validator.SpecialtyRequest) (*models.Specialty, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	specialty, err := s.repo.Specialty().GetByID(ctx, nil, id)
	if err != nil {
		return nil, wrapQuery(err, "get specialty for update")
	}

	specialty.InstitutionID = req.InstitutionID
	specialty.Nombre = req.Nombre
	specialty.Tipo = req.Tipo
	specialty.Precio = req.Precio

	if err := s.repo.Specialty().Update(ctx, nil, specialty); err != nil {
		return nil, fmt.Errorf("failed to update specialty: %w", err)
	}
	return specialty, nil
}

func (s *catalogService) DeleteSpecialty(ctx context.Context, id uint) error {
	if err := s.repo.Specialty().Delete(ctx, nil, id); err != nil {
		return wrapNotFound(err, "specialty")
	}
	return nil
}

// ===== FREQUENCIES AND SCHEDULES =====

func (s *catalogService) CreateFrequency(ctx context.Context, req *validator.FrequencyRequest) (*models.Frequency, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	frequency := &models.Frequency{Nombre: req.Nombre}
	if err := s.repo.Frequency().Create(ctx, nil, frequency); err != nil {
		return nil, fmt.Errorf("failed to create frequency: %w", err)
	}
	return frequency, nil
}

func (s *catalogService) ListFrequencies(ctx context.Context) ([]*models.Frequency, error) {
	frequencies, err := s.repo.Frequency().List(ctx, nil)
	if err != nil {
		return nil, wrapQuery(err, "list frequencies")
	}
	return frequencies, nil
}

func (s *catalogService) UpdateFrequency(ctx context.Context, id uint, req *validator.FrequencyRequest) (*models.Frequency, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	frequency, err := s.repo.Frequency().GetByID(ctx, nil, id)
	if err != nil {
		return nil, wrapQuery(err, "get frequency for update")
	}

	frequency.Nombre = req.Nombre
	if err := s.repo.Frequency().Update(ctx, nil, frequency); err != nil {
		return nil, fmt.Errorf("failed to update frequency: %w", err)
	}
	return frequency, nil
}

func (s *catalogService) DeleteFrequency(ctx context.Context, id uint) error {
	if err := s.repo.Frequency().Delete(ctx, nil, id); err != nil {
		return wrapNotFound(err, "frequency")
	}
	return nil
}

func (s *catalogService) CreateSchedule(ctx context.Context, req *validator.ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	schedule := &models.Schedule{
		HoraInicio: req.HoraInicio,
		HoraFin:    req.HoraFin,
	}
	if err := s.repo.Schedule().Create(ctx, nil, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return schedule, nil
}

func (s *catalogService) ListSchedules(ctx context.Context) ([]*models.Schedule, error) {
	schedules, err := s.repo.Schedule().List(ctx, nil)
	if err != nil {
		return nil, wrapQuery(err, "list schedules")
	}
	return schedules, nil
}

func (s *catalogService) UpdateSchedule(ctx context.Context, id uint, req *validator.ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	schedule, err := s.repo.Schedule().GetByID(ctx, nil, id)
	if err != nil {
		return nil, wrapQuery(err, "get schedule for update")
	}

	schedule.HoraInicio = req.HoraInicio
	schedule.HoraFin = req.HoraFin
	if err := s.repo.Schedule().Update(ctx, nil, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	return schedule, nil
}

func (s *catalogService) DeleteSchedule(ctx context.Context, id uint) error {
	if err := s.repo.Schedule().Delete(ctx, nil, id); err != nil {
		return wrapNotFound(err, "schedule")
	}
	return nil
}

// ===== READ-ONLY REFERENCE TABLES =====

func (s *catalogService) ListDocumentTypes(ctx context.Context) ([]*models.DocumentType, error) {
	types, err := s.repo.DocumentType().List(ctx, nil)
	if err != nil {
		return nil, wrapQuery(err, "list document types")
	}
	return types, nil
}

func (s *catalogService) ListPaymentMethods(ctx context.Context) ([]*models.PaymentMethod, error) {
	methods, err := s.repo.PaymentMethod().List(ctx, nil)
	if err != nil {
		return nil, wrapQuery(err, "list payment methods")
	}
	return methods, nil
}

// ===== HELPERS =====

func applyPeriodDates(period *models.Period, req *validator.PeriodRequest) error {
	inicio, err := time.Parse("2006-01-02", req.FechaInicio)
	if err != nil {
		return fmt.Errorf("invalid fecha_inicio: %w", err)
	}
	fin, err := time.Parse("2006-01-02", req.FechaFin)
	if err != nil {
		return fmt.Errorf("invalid fecha_fin: %w", err)
	}
	if fin.Before(inicio) {
		return fmt.Errorf("fecha_fin precedes fecha_inicio")
	}

	start := datatypes.Date(inicio)
	end := datatypes.Date(fin)
	period.FechaInicio = &start
	period.FechaFin = &end
	return nil
}
