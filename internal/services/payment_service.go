package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/events"
	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

type paymentService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewPaymentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) PaymentService {
	return &paymentService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// CreateSchedule registers a new scheduled charge against an
// enrollment. The charge starts pending; deposits move it to paid.
func (s *paymentService) CreateSchedule(ctx context.Context, req *validator.PaymentScheduleCreateRequest) (*models.PaymentSchedule, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	fechaCargo, err := time.Parse("2006-01-02", req.FechaCargo)
	if err != nil {
		return nil, validationError(fmt.Errorf("invalid fecha_cargo: %w", err))
	}
	fechaVencimiento, err := time.Parse("2006-01-02", req.FechaVencimiento)
	if err != nil {
		return nil, validationError(fmt.Errorf("invalid fecha_vencimiento: %w", err))
	}
	if fechaVencimiento.Before(fechaCargo) {
		return nil, fmt.Errorf("%w: fecha_vencimiento precedes fecha_cargo", ErrValidationFailed)
	}

	if _, err := s.repo.Enrollment().GetByID(ctx, nil, req.EnrollmentID); err != nil {
		return nil, wrapQuery(err, "get enrollment for schedule")
	}

	schedule := &models.PaymentSchedule{
		EnrollmentID:     req.EnrollmentID,
		FechaCargo:       datatypes.Date(fechaCargo),
		FechaVencimiento: datatypes.Date(fechaVencimiento),
		Importe:          req.Importe,
		Estado:           models.PaymentPending,
	}
	if err := s.repo.Payment().CreateSchedule(ctx, nil, schedule); err != nil {
		return nil, fmt.Errorf("failed to create payment schedule: %w", err)
	}

	s.logger.Info("Payment schedule created",
		"schedule_id", schedule.ID,
		"enrollment_id", schedule.EnrollmentID,
		"importe", schedule.Importe)
	return schedule, nil
}

func (s *paymentService) ListSchedules(ctx context.Context, filters repositories.PaymentFilters) (*PaymentScheduleListResponse, error) {
	schedules, total, err := s.repo.Payment().ListSchedules(ctx, nil, filters)
	if err != nil {
		return nil, wrapQuery(err, "list payment schedules")
	}
	return &PaymentScheduleListResponse{Schedules: schedules, Total: total}, nil
}

// RegisterDeposit records a deposit against a scheduled charge and,
// when the accumulated deposits cover the charge, flips the schedule
// to paid. Both writes run in one transaction so a paid schedule can
// never exist without its covering deposit.
func (s *paymentService) RegisterDeposit(ctx context.Context, req *RegisterDepositRequest) (*DepositResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, validationError(fmt.Errorf("invalid fecha: %w", err))
	}

	var response *DepositResponse
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		schedule, err := txRepo.Payment().GetScheduleByID(ctx, nil, req.PaymentScheduleID)
		if err != nil {
			return wrapQuery(err, "get payment schedule")
		}
		if schedule.Estado == models.PaymentCancelled {
			return fmt.Errorf("%w: schedule %d is cancelled", ErrValidationFailed, schedule.ID)
		}

		deposit := &models.Deposit{
			PaymentScheduleID: schedule.ID,
			InstitutionID:     req.InstitutionID,
			PaymentMethodID:   req.PaymentMethodID,
			Fecha:             datatypes.Date(fecha),
			Importe:           req.Importe,
		}
		if err := txRepo.Payment().CreateDeposit(ctx, nil, deposit); err != nil {
			return fmt.Errorf("failed to create deposit: %w", err)
		}

		var deposited float64
		for _, existing := range schedule.Deposits {
			deposited += existing.Importe
		}
		deposited += req.Importe

		estado := schedule.Estado
		paid := deposited >= schedule.Importe
		if paid && estado != models.PaymentPaid {
			estado = models.PaymentPaid
			if err := txRepo.Payment().UpdateScheduleStatus(ctx, nil, schedule.ID, estado); err != nil {
				return fmt.Errorf("failed to mark schedule paid: %w", err)
			}
		}

		response = &DepositResponse{
			Deposit:      deposit,
			SchedulePaid: paid,
			Estado:       estado,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		schedule, scheduleErr := s.repo.Payment().GetScheduleByID(ctx, nil, req.PaymentScheduleID)
		enrollmentID := uint(0)
		if scheduleErr == nil {
			enrollmentID = schedule.EnrollmentID
		}
		event := events.NewEvent(events.EventDepositRegistered, events.DepositRegisteredEvent{
			DepositID:         response.Deposit.ID,
			PaymentScheduleID: req.PaymentScheduleID,
			EnrollmentID:      enrollmentID,
			Importe:           req.Importe,
			SchedulePaid:      response.SchedulePaid,
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish deposit event", "error", err)
		}
	}

	s.logger.Info("Deposit registered",
		"deposit_id", response.Deposit.ID,
		"schedule_id", req.PaymentScheduleID,
		"paid", response.SchedulePaid)
	return response, nil
}

func (s *paymentService) ListDeposits(ctx context.Context, scheduleID uint) ([]*models.Deposit, error) {
	deposits, err := s.repo.Payment().ListDeposits(ctx, nil, scheduleID)
	if err != nil {
		return nil, wrapQuery(err, "list deposits")
	}
	return deposits, nil
}
