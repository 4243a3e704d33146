package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/events"
	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

type mockPaymentRepo struct {
	nextID    uint
	createErr error
	updateErr error

	schedules     map[uint]*models.PaymentSchedule
	deposits      []*models.Deposit
	statusUpdates []models.PaymentStatus
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{nextID: 800, schedules: map[uint]*models.PaymentSchedule{}}
}

func (m *mockPaymentRepo) CreateSchedule(ctx context.Context, tx *gorm.DB, schedule *models.PaymentSchedule) error {
	m.nextID++
	schedule.ID = m.nextID
	m.schedules[schedule.ID] = schedule
	return nil
}

func (m *mockPaymentRepo) GetScheduleByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentSchedule, error) {
	if schedule, ok := m.schedules[id]; ok {
		return schedule, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) ListSchedules(ctx context.Context, tx *gorm.DB, filters repositories.PaymentFilters) ([]*models.PaymentSchedule, int64, error) {
	out := make([]*models.PaymentSchedule, 0, len(m.schedules))
	for _, schedule := range m.schedules {
		out = append(out, schedule)
	}
	return out, int64(len(out)), nil
}

func (m *mockPaymentRepo) UpdateScheduleStatus(ctx context.Context, tx *gorm.DB, id uint, estado models.PaymentStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	schedule, ok := m.schedules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	schedule.Estado = estado
	m.statusUpdates = append(m.statusUpdates, estado)
	return nil
}

func (m *mockPaymentRepo) CreateDeposit(ctx context.Context, tx *gorm.DB, deposit *models.Deposit) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	deposit.ID = m.nextID
	m.deposits = append(m.deposits, deposit)
	return nil
}

func (m *mockPaymentRepo) ListDeposits(ctx context.Context, tx *gorm.DB, scheduleID uint) ([]*models.Deposit, error) {
	var out []*models.Deposit
	for _, deposit := range m.deposits {
		if deposit.PaymentScheduleID == scheduleID {
			out = append(out, deposit)
		}
	}
	return out, nil
}

func newPaymentServiceForTest(t *testing.T, repo *mockRepository) (PaymentService, *events.MockEventPublisher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	publisher := events.NewMockEventPublisher(logger)
	return NewPaymentService(repo, nil, logger, validator.New(), publisher), publisher
}

func seedSchedule(repo *mockPaymentRepo, importe float64, estado models.PaymentStatus) *models.PaymentSchedule {
	schedule := &models.PaymentSchedule{
		EnrollmentID: 42,
		Importe:      importe,
		Estado:       estado,
	}
	_ = repo.CreateSchedule(context.Background(), nil, schedule)
	return schedule
}

func depositRequest(scheduleID uint, importe float64) *RegisterDepositRequest {
	return &RegisterDepositRequest{
		PaymentScheduleID: scheduleID,
		Fecha:             "2026-03-15",
		Importe:           importe,
	}
}

func TestPaymentService_CreateSchedule(t *testing.T) {
	ctx := context.Background()

	scheduleRequest := func() *validator.PaymentScheduleCreateRequest {
		return &validator.PaymentScheduleCreateRequest{
			EnrollmentID:     42,
			FechaCargo:       "2026-03-01",
			FechaVencimiento: "2026-03-15",
			Importe:          250.0,
		}
	}

	t.Run("success stores pending charge", func(t *testing.T) {
		payments := newMockPaymentRepo()
		repo := &mockRepository{
			payment:    payments,
			enrollment: &mockEnrollmentRepo{rows: []*models.Enrollment{{ID: 42, StudentID: 9}}},
		}
		service, _ := newPaymentServiceForTest(t, repo)

		schedule, err := service.CreateSchedule(ctx, scheduleRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if schedule.ID == 0 {
			t.Error("expected schedule to receive an id")
		}
		if schedule.Estado != models.PaymentPending {
			t.Errorf("schedule.Estado = %s, want %s", schedule.Estado, models.PaymentPending)
		}
		if _, ok := payments.schedules[schedule.ID]; !ok {
			t.Error("expected schedule persisted")
		}
	})

	t.Run("unknown enrollment yields not found", func(t *testing.T) {
		repo := &mockRepository{
			payment:    newMockPaymentRepo(),
			enrollment: &mockEnrollmentRepo{},
		}
		service, _ := newPaymentServiceForTest(t, repo)

		_, err := service.CreateSchedule(ctx, scheduleRequest())
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("due date before charge date fails validation", func(t *testing.T) {
		payments := newMockPaymentRepo()
		repo := &mockRepository{
			payment:    payments,
			enrollment: &mockEnrollmentRepo{rows: []*models.Enrollment{{ID: 42}}},
		}
		service, _ := newPaymentServiceForTest(t, repo)

		req := scheduleRequest()
		req.FechaVencimiento = "2026-02-01"

		_, err := service.CreateSchedule(ctx, req)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if len(payments.schedules) != 0 {
			t.Error("no schedule expected on validation failure")
		}
	})

	t.Run("non-positive importe fails validation", func(t *testing.T) {
		repo := &mockRepository{
			payment:    newMockPaymentRepo(),
			enrollment: &mockEnrollmentRepo{rows: []*models.Enrollment{{ID: 42}}},
		}
		service, _ := newPaymentServiceForTest(t, repo)

		req := scheduleRequest()
		req.Importe = 0

		_, err := service.CreateSchedule(ctx, req)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
	})
}

func TestPaymentService_RegisterDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("covering deposit flips schedule to paid", func(t *testing.T) {
		payments := newMockPaymentRepo()
		schedule := seedSchedule(payments, 150.0, models.PaymentPending)
		repo := &mockRepository{payment: payments}
		service, publisher := newPaymentServiceForTest(t, repo)

		resp, err := service.RegisterDeposit(ctx, depositRequest(schedule.ID, 150.0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.SchedulePaid || resp.Estado != models.PaymentPaid {
			t.Errorf("expected paid schedule, got %+v", resp)
		}
		if schedule.Estado != models.PaymentPaid {
			t.Errorf("schedule status = %s, want %s", schedule.Estado, models.PaymentPaid)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventDepositRegistered {
			t.Errorf("expected one %s event, got %+v", events.EventDepositRegistered, published)
		}
	})

	t.Run("partial deposit leaves schedule pending", func(t *testing.T) {
		payments := newMockPaymentRepo()
		schedule := seedSchedule(payments, 200.0, models.PaymentPending)
		repo := &mockRepository{payment: payments}
		service, _ := newPaymentServiceForTest(t, repo)

		resp, err := service.RegisterDeposit(ctx, depositRequest(schedule.ID, 80.0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.SchedulePaid {
			t.Error("partial deposit must not mark the schedule paid")
		}
		if len(payments.statusUpdates) != 0 {
			t.Errorf("no status update expected, got %v", payments.statusUpdates)
		}
	})

	t.Run("second deposit completing the amount pays the schedule", func(t *testing.T) {
		payments := newMockPaymentRepo()
		schedule := seedSchedule(payments, 200.0, models.PaymentPending)
		schedule.Deposits = []models.Deposit{{PaymentScheduleID: schedule.ID, Importe: 120.0}}
		repo := &mockRepository{payment: payments}
		service, _ := newPaymentServiceForTest(t, repo)

		resp, err := service.RegisterDeposit(ctx, depositRequest(schedule.ID, 80.0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.SchedulePaid {
			t.Error("accumulated deposits cover the charge, schedule should be paid")
		}
	})

	t.Run("cancelled schedule rejects deposits", func(t *testing.T) {
		payments := newMockPaymentRepo()
		schedule := seedSchedule(payments, 100.0, models.PaymentCancelled)
		repo := &mockRepository{payment: payments}
		service, _ := newPaymentServiceForTest(t, repo)

		_, err := service.RegisterDeposit(ctx, depositRequest(schedule.ID, 100.0))
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if len(payments.deposits) != 0 {
			t.Error("no deposit row expected against a cancelled schedule")
		}
	})

	t.Run("missing schedule yields not found", func(t *testing.T) {
		repo := &mockRepository{payment: newMockPaymentRepo()}
		service, _ := newPaymentServiceForTest(t, repo)

		_, err := service.RegisterDeposit(ctx, depositRequest(9999, 50.0))
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("malformed fecha fails validation", func(t *testing.T) {
		payments := newMockPaymentRepo()
		schedule := seedSchedule(payments, 100.0, models.PaymentPending)
		repo := &mockRepository{payment: payments}
		service, _ := newPaymentServiceForTest(t, repo)

		req := depositRequest(schedule.ID, 50.0)
		req.Fecha = "15/03/2026"

		_, err := service.RegisterDeposit(ctx, req)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
	})
}
