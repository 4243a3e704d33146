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

type mockEnrollmentRepo struct {
	rows     []*models.Enrollment
	total    int64
	listErr  error
	statuses []models.EnrollmentStatus

	lastFilters repositories.EnrollmentFilters
}

func (m *mockEnrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	for _, row := range m.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	m.lastFilters = filters
	if m.listErr != nil {
		return nil, 0, m.listErr
	}

	start := filters.Offset
	if start > len(m.rows) {
		start = len(m.rows)
	}
	end := start + filters.Limit
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return m.rows[start:end], m.total, nil
}

func (m *mockEnrollmentRepo) ListStatuses(ctx context.Context, tx *gorm.DB, periodID *uint) ([]models.EnrollmentStatus, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.statuses, nil
}

func newEnrollmentServiceForTest(t *testing.T, enrollments *mockEnrollmentRepo) EnrollmentService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := &mockRepository{enrollment: enrollments}
	publisher := events.NewMockEventPublisher(logger)
	return NewEnrollmentService(repo, nil, logger, validator.New(), publisher)
}

func makeEnrollments(n int) []*models.Enrollment {
	rows := make([]*models.Enrollment, n)
	for i := 0; i < n; i++ {
		rows[i] = &models.Enrollment{ID: uint(i + 1), Estado: models.EnrollmentActive}
	}
	return rows
}

func TestEnrollmentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("page two of twenty-five rows", func(t *testing.T) {
		enrollments := &mockEnrollmentRepo{rows: makeEnrollments(25), total: 25}
		service := newEnrollmentServiceForTest(t, enrollments)

		resp, err := service.List(ctx, &ListEnrollmentsRequest{Page: 2, PageSize: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.TotalPages != 3 {
			t.Errorf("totalPages = %d, want 3", resp.TotalPages)
		}
		if len(resp.Rows) > 10 {
			t.Errorf("row count = %d, want <= 10", len(resp.Rows))
		}
		if enrollments.lastFilters.Offset != 10 {
			t.Errorf("offset = %d, want 10", enrollments.lastFilters.Offset)
		}
		if resp.Total != 25 {
			t.Errorf("total = %d, want 25", resp.Total)
		}
	})

	t.Run("zero matches is an empty page, not an error", func(t *testing.T) {
		enrollments := &mockEnrollmentRepo{rows: nil, total: 0}
		service := newEnrollmentServiceForTest(t, enrollments)

		resp, err := service.List(ctx, &ListEnrollmentsRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Rows) != 0 || resp.Total != 0 || resp.TotalPages != 0 {
			t.Errorf("expected empty result, got %+v", resp)
		}
	})

	t.Run("defaults are page one, size ten", func(t *testing.T) {
		enrollments := &mockEnrollmentRepo{rows: makeEnrollments(3), total: 3}
		service := newEnrollmentServiceForTest(t, enrollments)

		resp, err := service.List(ctx, &ListEnrollmentsRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Page != 1 || resp.PageSize != 10 {
			t.Errorf("expected defaults 1/10, got %d/%d", resp.Page, resp.PageSize)
		}
		if enrollments.lastFilters.Offset != 0 {
			t.Errorf("offset = %d, want 0", enrollments.lastFilters.Offset)
		}
		if resp.TotalPages != 1 {
			t.Errorf("totalPages = %d, want 1", resp.TotalPages)
		}
	})

	t.Run("repository failure surfaces as query error", func(t *testing.T) {
		enrollments := &mockEnrollmentRepo{listErr: errors.New("connection refused")}
		service := newEnrollmentServiceForTest(t, enrollments)

		_, err := service.List(ctx, &ListEnrollmentsRequest{})
		if !errors.Is(err, ErrQueryFailed) {
			t.Fatalf("expected ErrQueryFailed, got %v", err)
		}
	})
}

func TestEnrollmentService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("counts each row status individually", func(t *testing.T) {
		enrollments := &mockEnrollmentRepo{statuses: []models.EnrollmentStatus{
			models.EnrollmentActive,
			models.EnrollmentActive,
			models.EnrollmentFinished,
			models.EnrollmentCancelled,
			models.EnrollmentActive,
		}}
		service := newEnrollmentServiceForTest(t, enrollments)

		stats, err := service.Stats(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if stats.Total != 5 {
			t.Errorf("total = %d, want 5", stats.Total)
		}
		if stats.Activos != 3 {
			t.Errorf("activos = %d, want 3", stats.Activos)
		}
		if stats.Finalizados != 1 {
			t.Errorf("finalizados = %d, want 1", stats.Finalizados)
		}
		if stats.Cancelados != 1 {
			t.Errorf("cancelados = %d, want 1", stats.Cancelados)
		}
	})

	t.Run("empty set yields zero counts", func(t *testing.T) {
		service := newEnrollmentServiceForTest(t, &mockEnrollmentRepo{})

		stats, err := service.Stats(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Total != 0 || stats.Activos != 0 || stats.Finalizados != 0 || stats.Cancelados != 0 {
			t.Errorf("expected zero stats, got %+v", stats)
		}
	})
}
