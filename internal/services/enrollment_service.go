package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/events"
	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

type enrollmentService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

func (s *enrollmentService) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, id)
	if err != nil {
		return nil, wrapQuery(err, "get enrollment")
	}
	return enrollment, nil
}

// List composes the paginated, filtered, relation-enriched view.
// Page defaults to 1, page size to 10; the row offset is
// (page-1)*pageSize and totalPages is ceil(total/pageSize).
func (s *enrollmentService) List(ctx context.Context, req *ListEnrollmentsRequest) (*EnrollmentListResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)

	filters := repositories.EnrollmentFilters{
		PeriodID: req.PeriodID,
		Estado:   req.Estado,
		Search:   req.Search,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}

	rows, total, err := s.repo.Enrollment().List(ctx, nil, filters)
	if err != nil {
		return nil, wrapQuery(err, "list enrollments")
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &EnrollmentListResponse{
		Rows:       rows,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Stats partitions the filtered rows by status. Every row's status is
// inspected individually rather than pushed down as a SQL aggregate,
// so the result always matches what a listing of the same filter
// would show.
func (s *enrollmentService) Stats(ctx context.Context, periodID *uint) (*EnrollmentStats, error) {
	statuses, err := s.repo.Enrollment().ListStatuses(ctx, nil, periodID)
	if err != nil {
		return nil, wrapQuery(err, "enrollment stats")
	}

	stats := &EnrollmentStats{Total: len(statuses)}
	for _, status := range statuses {
		switch status {
		case models.EnrollmentActive:
			stats.Activos++
		case models.EnrollmentFinished:
			stats.Finalizados++
		case models.EnrollmentCancelled:
			stats.Cancelados++
		}
	}
	return stats, nil
}

// ExportXLSX renders every enrollment matching the period filter into
// a spreadsheet, one row per enrollment.
func (s *enrollmentService) ExportXLSX(ctx context.Context, periodID *uint) ([]byte, error) {
	const exportPageSize = 500

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	const sheet = "Matriculas"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Debug("default sheet removal failed", "error", err)
	}

	headers := []string{"ID", "Alumno", "Documento", "Periodo", "Estado", "Fecha Registro", "Especialidades"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	rowNum := 2
	exported := 0
	for page := 1; ; page++ {
		rows, total, err := s.repo.Enrollment().List(ctx, nil, repositories.EnrollmentFilters{
			PeriodID: periodID,
			Limit:    exportPageSize,
			Offset:   (page - 1) * exportPageSize,
		})
		if err != nil {
			return nil, wrapQuery(err, "export enrollments")
		}

		for _, enrollment := range rows {
			if err := s.writeEnrollmentRow(f, sheet, rowNum, enrollment); err != nil {
				return nil, err
			}
			rowNum++
			exported++
		}

		if int64(exported) >= total || len(rows) == 0 {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	if s.eventPublisher != nil {
		event := events.NewEvent(events.EventEnrollmentExported, events.EnrollmentExportedEvent{
			PeriodID: periodID,
			Rows:     exported,
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish export event", "error", err)
		}
	}

	s.logger.Info("Enrollments exported", "rows", exported)
	return buf.Bytes(), nil
}

func (s *enrollmentService) writeEnrollmentRow(f *excelize.File, sheet string, rowNum int, enrollment *models.Enrollment) error {
	studentName := ""
	document := ""
	if enrollment.Student != nil && enrollment.Student.Person != nil {
		studentName = fullName(enrollment.Student.Person)
		if enrollment.Student.Person.NumDocumento != nil {
			document = *enrollment.Student.Person.NumDocumento
		}
	}

	periodName := ""
	if enrollment.Period != nil {
		periodName = enrollment.Period.Nombre
	}

	specialties := ""
	for i, detail := range enrollment.Details {
		if detail.Specialty == nil {
			continue
		}
		if i > 0 && specialties != "" {
			specialties += ", "
		}
		specialties += detail.Specialty.Nombre
	}

	values := []interface{}{
		enrollment.ID,
		studentName,
		document,
		periodName,
		string(enrollment.Estado),
		time.Time(enrollment.FechaRegistro).Format("2006-01-02"),
		specialties,
	}
	for i, value := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
	}
	return nil
}
