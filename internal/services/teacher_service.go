package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/events"
	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

type teacherService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewTeacherService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) TeacherService {
	return &teacherService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// ===== COMPOSITE CREATE =====

// Create writes the person row first, then the teacher row linking to
// it. The two inserts are deliberately sequential, not a database
// transaction: step two never begins before step one's id is known.
// If the teacher insert fails, the person row is deleted best-effort;
// a failed cleanup is logged and swallowed, so an orphaned person row
// can remain.
func (s *teacherService) Create(ctx context.Context, req *CreateTeacherRequest) (*models.Teacher, error) {
	s.logger.Info("Creating teacher", "nombres", req.Nombres, "institution_id", req.InstitutionID)

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

	teacher := &models.Teacher{
		InstitutionID: req.InstitutionID,
		PersonID:      person.ID,
		SpecialtyID:   req.SpecialtyID,
		FechaRegistro: datatypes.Date(time.Now()),
	}

	if err := s.repo.Teacher().Create(ctx, nil, teacher); err != nil {
		// Compensating delete of the person row created above
		if delErr := s.repo.Person().Delete(ctx, nil, person.ID); delErr != nil {
			s.logger.Error("compensating person delete failed, orphan person row remains",
				"person_id", person.ID, "error", delErr)
		} else {
			s.logger.Warn("teacher insert failed, person row rolled back", "person_id", person.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrTeacherCreateFailed, err)
	}

	teacher.Person = person

	s.publishEvent(ctx, events.NewEvent(events.EventTeacherCreated, events.TeacherCreatedEvent{
		TeacherID:     teacher.ID,
		PersonID:      person.ID,
		InstitutionID: teacher.InstitutionID,
		SpecialtyID:   teacher.SpecialtyID,
		FullName:      fullName(person),
	}))

	s.logger.Info("Teacher created successfully", "teacher_id", teacher.ID, "person_id", person.ID)
	return teacher, nil
}

// ===== READS =====

func (s *teacherService) GetByID(ctx context.Context, id uint) (*models.Teacher, error) {
	teacher, err := s.repo.Teacher().GetByID(ctx, nil, id)
	if err != nil {
		return nil, wrapQuery(err, "get teacher")
	}
	return teacher, nil
}

func (s *teacherService) List(ctx context.Context, filters repositories.TeacherFilters, page, pageSize int) (*TeacherListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	filters.Limit = pageSize
	filters.Offset = (page - 1) * pageSize

	teachers, total, err := s.repo.Teacher().List(ctx, nil, filters)
	if err != nil {
		return nil, wrapQuery(err, "list teachers")
	}

	return &TeacherListResponse{
		Teachers: teachers,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ===== COMPOSITE UPDATE =====

// Update is a full replace of the mutable fields, person row first.
// Unlike Create there is no compensation: once the person update has
// committed it cannot be cleanly reversed without a prior snapshot,
// so a failed teacher update leaves the person's new values in place.
func (s *teacherService) Update(ctx context.Context, teacherID, personID uint, req *UpdateTeacherRequest) (*models.Teacher, error) {
	s.logger.Info("Updating teacher", "teacher_id", teacherID, "person_id", personID)

	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	person, err := s.repo.Person().GetByID(ctx, nil, personID)
	if err != nil {
		return nil, wrapQuery(err, "get person for update")
	}

	if err := applyPersonAttributes(person, &req.PersonAttributes); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Person().Update(ctx, nil, person); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersonUpdateFailed, err)
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, nil, teacherID)
	if err != nil {
		return nil, wrapQuery(err, "get teacher for update")
	}

	teacher.SpecialtyID = req.SpecialtyID
	if err := s.repo.Teacher().Update(ctx, nil, teacher); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTeacherUpdateFailed, err)
	}

	teacher.Person = person

	s.publishEvent(ctx, events.NewEvent(events.EventTeacherUpdated, events.TeacherUpdatedEvent{
		TeacherID: teacher.ID,
		PersonID:  person.ID,
	}))

	return teacher, nil
}

// ===== DELETE =====

// Delete removes only the teacher row. The person row is retained on
// purpose: the same person may hold other roles.
func (s *teacherService) Delete(ctx context.Context, id uint) error {
	teacher, err := s.repo.Teacher().GetByID(ctx, nil, id)
	if err != nil {
		return wrapQuery(err, "get teacher for delete")
	}

	if err := s.repo.Teacher().Delete(ctx, nil, id); err != nil {
		return wrapNotFound(err, "teacher")
	}

	s.publishEvent(ctx, events.NewEvent(events.EventTeacherDeleted, events.TeacherDeletedEvent{
		TeacherID: id,
		PersonID:  teacher.PersonID,
	}))

	s.logger.Info("Teacher deleted, person retained", "teacher_id", id, "person_id", teacher.PersonID)
	return nil
}

// ===== HELPERS =====

func (s *teacherService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.Type, "error", err)
	}
}

// buildPerson maps request attributes onto a fresh person row.
// Optional fields stay nil so the database stores NULL, never an
// empty string.
func buildPerson(attrs *validator.PersonAttributes) (*models.Person, error) {
	person := &models.Person{}
	if err := applyPersonAttributes(person, attrs); err != nil {
		return nil, err
	}
	return person, nil
}

func applyPersonAttributes(person *models.Person, attrs *validator.PersonAttributes) error {
	person.Nombres = attrs.Nombres
	person.ApPaterno = attrs.ApPaterno
	person.ApMaterno = attrs.ApMaterno
	person.DocumentTypeID = attrs.DocumentTypeID
	person.NumDocumento = attrs.NumDocumento
	person.Celular = attrs.Celular
	person.Correo = attrs.Correo
	person.Sexo = attrs.Sexo
	person.Direccion = attrs.Direccion

	if attrs.FechaNacimiento != nil {
		parsed, err := time.Parse("2006-01-02", *attrs.FechaNacimiento)
		if err != nil {
			return fmt.Errorf("invalid fecha_nacimiento: %w", err)
		}
		date := datatypes.Date(parsed)
		person.FechaNacimiento = &date
	} else {
		person.FechaNacimiento = nil
	}
	return nil
}

func fullName(person *models.Person) string {
	parts := []string{person.Nombres, person.ApPaterno}
	if person.ApMaterno != nil && *person.ApMaterno != "" {
		parts = append(parts, *person.ApMaterno)
	}
	return strings.Join(parts, " ")
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}
