package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/events"
	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

type studentService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) StudentService {
	return &studentService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// Create follows the same two-step person-then-role protocol as the
// teacher service, including the best-effort person cleanup when the
// student insert fails.
func (s *studentService) Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error) {
	s.logger.Info("Creating student", "nombres", req.Nombres, "institution_id", req.InstitutionID)

	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	person, err := buildPerson(&req.PersonAttributes)
	if err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Person().Create(ctx, nil, person); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersonCreateFailed, err)
	}

	student := &models.Student{
		InstitutionID: req.InstitutionID,
		PersonID:      person.ID,
	}

	if err := s.repo.Student().Create(ctx, nil, student); err != nil {
		if delErr := s.repo.Person().Delete(ctx, nil, person.ID); delErr != nil {
			s.logger.Error("compensating person delete failed, orphan person row remains",
				"person_id", person.ID, "error", delErr)
		}
		return nil, fmt.Errorf("student creation failed: %v", err)
	}

	student.Person = person

	if s.eventPublisher != nil {
		event := events.NewEvent(events.EventStudentCreated, events.StudentCreatedEvent{
			StudentID:     student.ID,
			PersonID:      person.ID,
			InstitutionID: student.InstitutionID,
			FullName:      fullName(person),
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish event", "event_type", event.Type, "error", err)
		}
	}

	s.logger.Info("Student created successfully", "student_id", student.ID, "person_id", person.ID)
	return student, nil
}

func (s *studentService) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		return nil, wrapQuery(err, "get student")
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters, page, pageSize int) (*StudentListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	filters.Limit = pageSize
	filters.Offset = (page - 1) * pageSize

	students, total, err := s.repo.Student().List(ctx, nil, filters)
	if err != nil {
		return nil, wrapQuery(err, "list students")
	}

	return &StudentListResponse{
		Students: students,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
