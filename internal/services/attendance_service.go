package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

type attendanceService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttendanceService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) AttendanceService {
	return &attendanceService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// CreateSchedule plans a session for an enrollment detail and seeds
// its attendance record in estado pendiente. Both rows are written in
// one transaction so a planned session always has a record to mark.
func (s *attendanceService) CreateSchedule(ctx context.Context, req *validator.AttendanceScheduleCreateRequest) (*models.AttendanceSchedule, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	inicio, err := time.Parse(time.RFC3339, req.FechaHoraInicio)
	if err != nil {
		return nil, validationError(fmt.Errorf("invalid fecha_hora_inicio: %w", err))
	}
	fin, err := time.Parse(time.RFC3339, req.FechaHoraFin)
	if err != nil {
		return nil, validationError(fmt.Errorf("invalid fecha_hora_fin: %w", err))
	}
	if !fin.After(inicio) {
		return nil, fmt.Errorf("%w: fecha_hora_fin must follow fecha_hora_inicio", ErrValidationFailed)
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, req.EnrollmentID)
	if err != nil {
		return nil, wrapQuery(err, "get enrollment for schedule")
	}

	schedule := &models.AttendanceSchedule{
		EnrollmentID: req.EnrollmentID,
		DetailID:     req.DetailID,
		FechaInicio:  inicio,
		FechaFin:     fin,
	}
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Attendance().CreateSchedule(ctx, nil, schedule); err != nil {
			return fmt.Errorf("failed to create attendance schedule: %w", err)
		}

		attendance := &models.Attendance{
			ScheduleID:    schedule.ID,
			EnrollmentID:  &schedule.EnrollmentID,
			DetailID:      &schedule.DetailID,
			StudentID:     &enrollment.StudentID,
			FechaHoraBase: inicio,
			Estado:        models.AttendancePending,
		}
		if err := txRepo.Attendance().Create(ctx, nil, attendance); err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Attendance schedule created",
		"schedule_id", schedule.ID,
		"enrollment_id", schedule.EnrollmentID,
		"detail_id", schedule.DetailID)
	return schedule, nil
}

func (s *attendanceService) ListSchedules(ctx context.Context, enrollmentID uint) ([]*models.AttendanceSchedule, error) {
	schedules, err := s.repo.Attendance().ListSchedules(ctx, nil, enrollmentID)
	if err != nil {
		return nil, wrapQuery(err, "list attendance schedules")
	}
	return schedules, nil
}

func (s *attendanceService) List(ctx context.Context, filters repositories.AttendanceFilters) (*AttendanceListResponse, error) {
	attendances, total, err := s.repo.Attendance().List(ctx, nil, filters)
	if err != nil {
		return nil, wrapQuery(err, "list attendances")
	}
	return &AttendanceListResponse{Attendances: attendances, Total: total}, nil
}

// Mark records the outcome of a planned session. Marking presente or
// tardanza without an explicit real time stamps the current time.
func (s *attendanceService) Mark(ctx context.Context, attendanceID uint, req *validator.AttendanceMarkRequest, registeredBy *uint) error {
	if err := s.validator.Validate(req); err != nil {
		return validationError(err)
	}

	if _, err := s.repo.Attendance().GetByID(ctx, nil, attendanceID); err != nil {
		return wrapQuery(err, "get attendance")
	}

	var realTime *time.Time
	if req.FechaHoraReal != nil {
		parsed, err := time.Parse(time.RFC3339, *req.FechaHoraReal)
		if err != nil {
			return validationError(fmt.Errorf("invalid fecha_hora_real: %w", err))
		}
		realTime = &parsed
	} else if req.Estado == models.AttendancePresent || req.Estado == models.AttendanceLate {
		now := time.Now()
		realTime = &now
	}

	if err := s.repo.Attendance().UpdateStatus(ctx, nil, attendanceID, req.Estado, realTime); err != nil {
		return wrapNotFound(err, "attendance")
	}

	s.logger.Info("Attendance marked",
		"attendance_id", attendanceID,
		"estado", string(req.Estado),
		"registered_by", registeredBy)
	return nil
}
