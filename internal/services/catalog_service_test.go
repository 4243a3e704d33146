package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

// ===== MOCK REPOSITORIES =====

type mockFrequencyRepo struct {
	updateErr error

	updated []*models.Frequency
	byID    map[uint]*models.Frequency
}

func newMockFrequencyRepo() *mockFrequencyRepo {
	return &mockFrequencyRepo{byID: map[uint]*models.Frequency{}}
}

func (m *mockFrequencyRepo) Create(ctx context.Context, tx *gorm.DB, frequency *models.Frequency) error {
	return nil
}

func (m *mockFrequencyRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Frequency, error) {
	if frequency, ok := m.byID[id]; ok {
		return frequency, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFrequencyRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Frequency, error) {
	return nil, nil
}

func (m *mockFrequencyRepo) Update(ctx context.Context, tx *gorm.DB, frequency *models.Frequency) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, frequency)
	m.byID[frequency.ID] = frequency
	return nil
}

func (m *mockFrequencyRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error { return nil }

type mockScheduleRepo struct {
	updateErr error

	updated []*models.Schedule
	byID    map[uint]*models.Schedule
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{byID: map[uint]*models.Schedule{}}
}

func (m *mockScheduleRepo) Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	return nil
}

func (m *mockScheduleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Schedule, error) {
	if schedule, ok := m.byID[id]; ok {
		return schedule, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Schedule, error) {
	return nil, nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, schedule)
	m.byID[schedule.ID] = schedule
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error { return nil }

// ===== TEST SETUP =====

func newCatalogServiceForTest(t *testing.T, repo *mockRepository) CatalogService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewCatalogService(repo, nil, logger, validator.New())
}

// ===== UPDATE FREQUENCY =====

func TestCatalogService_UpdateFrequency(t *testing.T) {
	ctx := context.Background()

	t.Run("success renames existing frequency", func(t *testing.T) {
		frequencies := newMockFrequencyRepo()
		frequencies.byID[3] = &models.Frequency{ID: 3, Nombre: "Diario"}
		repo := &mockRepository{frequency: frequencies}
		service := newCatalogServiceForTest(t, repo)

		frequency, err := service.UpdateFrequency(ctx, 3, &validator.FrequencyRequest{Nombre: "Interdiario"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if frequency.Nombre != "Interdiario" {
			t.Errorf("frequency.Nombre = %q, want %q", frequency.Nombre, "Interdiario")
		}
		if len(frequencies.updated) != 1 || frequencies.updated[0].ID != 3 {
			t.Errorf("expected update persisted for frequency 3, got %+v", frequencies.updated)
		}
	})

	t.Run("unknown id maps to ErrNotFound", func(t *testing.T) {
		repo := &mockRepository{frequency: newMockFrequencyRepo()}
		service := newCatalogServiceForTest(t, repo)

		_, err := service.UpdateFrequency(ctx, 99, &validator.FrequencyRequest{Nombre: "Sabatino"})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("empty name fails validation before any repo call", func(t *testing.T) {
		frequencies := newMockFrequencyRepo()
		repo := &mockRepository{frequency: frequencies}
		service := newCatalogServiceForTest(t, repo)

		_, err := service.UpdateFrequency(ctx, 3, &validator.FrequencyRequest{})
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if len(frequencies.updated) != 0 {
			t.Errorf("expected no update on validation failure, got %+v", frequencies.updated)
		}
	})
}

// ===== UPDATE SCHEDULE =====

func TestCatalogService_UpdateSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("success rewrites time range", func(t *testing.T) {
		schedules := newMockScheduleRepo()
		schedules.byID[5] = &models.Schedule{ID: 5, HoraInicio: "08:00", HoraFin: "10:00"}
		repo := &mockRepository{schedule: schedules}
		service := newCatalogServiceForTest(t, repo)

		schedule, err := service.UpdateSchedule(ctx, 5, &validator.ScheduleRequest{
			HoraInicio: "14:00",
			HoraFin:    "16:00",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if schedule.HoraInicio != "14:00" || schedule.HoraFin != "16:00" {
			t.Errorf("schedule range = %s-%s, want 14:00-16:00", schedule.HoraInicio, schedule.HoraFin)
		}
		if len(schedules.updated) != 1 || schedules.updated[0].ID != 5 {
			t.Errorf("expected update persisted for schedule 5, got %+v", schedules.updated)
		}
	})

	t.Run("unknown id maps to ErrNotFound", func(t *testing.T) {
		repo := &mockRepository{schedule: newMockScheduleRepo()}
		service := newCatalogServiceForTest(t, repo)

		_, err := service.UpdateSchedule(ctx, 42, &validator.ScheduleRequest{
			HoraInicio: "08:00",
			HoraFin:    "10:00",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("malformed time fails validation", func(t *testing.T) {
		schedules := newMockScheduleRepo()
		schedules.byID[5] = &models.Schedule{ID: 5, HoraInicio: "08:00", HoraFin: "10:00"}
		repo := &mockRepository{schedule: schedules}
		service := newCatalogServiceForTest(t, repo)

		_, err := service.UpdateSchedule(ctx, 5, &validator.ScheduleRequest{
			HoraInicio: "8am",
			HoraFin:    "10:00",
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if len(schedules.updated) != 0 {
			t.Errorf("expected no update on validation failure, got %+v", schedules.updated)
		}
	})
}
