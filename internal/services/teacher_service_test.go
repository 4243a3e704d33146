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

// ===== MOCK REPOSITORIES =====

type mockPersonRepo struct {
	nextID    uint
	createErr error
	deleteErr error
	updateErr error

	created []*models.Person
	deleted []uint
	byID    map[uint]*models.Person
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{nextID: 100, byID: map[uint]*models.Person{}}
}

func (m *mockPersonRepo) Create(ctx context.Context, tx *gorm.DB, person *models.Person) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	person.ID = m.nextID
	m.created = append(m.created, person)
	m.byID[person.ID] = person
	return nil
}

func (m *mockPersonRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Person, error) {
	if person, ok := m.byID[id]; ok {
		return person, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) Update(ctx context.Context, tx *gorm.DB, person *models.Person) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.byID[person.ID] = person
	return nil
}

func (m *mockPersonRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	delete(m.byID, id)
	return nil
}

func (m *mockPersonRepo) ExistsByDocument(ctx context.Context, tx *gorm.DB, documentTypeID uint, numDocumento string) (bool, error) {
	return false, nil
}

type mockTeacherRepo struct {
	nextID    uint
	createErr error
	updateErr error
	deleteErr error

	created []*models.Teacher
	deleted []uint
	byID    map[uint]*models.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{nextID: 500, byID: map[uint]*models.Teacher{}}
}

func (m *mockTeacherRepo) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	teacher.ID = m.nextID
	m.created = append(m.created, teacher)
	m.byID[teacher.ID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	if teacher, ok := m.byID[id]; ok {
		return teacher, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.TeacherFilters) ([]*models.Teacher, int64, error) {
	return nil, 0, nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.byID[teacher.ID] = teacher
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	delete(m.byID, id)
	return nil
}

// mockRepository wires the sub-mocks into the aggregate interface;
// unused domains return nil.
type mockRepository struct {
	person     *mockPersonRepo
	teacher    *mockTeacherRepo
	student    repositories.StudentRepository
	enrollment repositories.EnrollmentRepository
	payment    repositories.PaymentRepository
	frequency  repositories.FrequencyRepository
	schedule   repositories.ScheduleRepository
	attendance repositories.AttendanceRepository
}

func (m *mockRepository) Institution() repositories.InstitutionRepository     { return nil }
func (m *mockRepository) Period() repositories.PeriodRepository               { return nil }
func (m *mockRepository) Specialty() repositories.SpecialtyRepository         { return nil }
func (m *mockRepository) Frequency() repositories.FrequencyRepository         { return m.frequency }
func (m *mockRepository) Schedule() repositories.ScheduleRepository           { return m.schedule }
func (m *mockRepository) DocumentType() repositories.DocumentTypeRepository   { return nil }
func (m *mockRepository) PaymentMethod() repositories.PaymentMethodRepository { return nil }
func (m *mockRepository) Person() repositories.PersonRepository               { return m.person }
func (m *mockRepository) Teacher() repositories.TeacherRepository             { return m.teacher }
func (m *mockRepository) Student() repositories.StudentRepository             { return m.student }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository       { return m.enrollment }
func (m *mockRepository) Payment() repositories.PaymentRepository             { return m.payment }
func (m *mockRepository) Attendance() repositories.AttendanceRepository       { return m.attendance }
func (m *mockRepository) Auth() repositories.AuthRepository                   { return nil }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== TEST SETUP =====

func newTeacherServiceForTest(t *testing.T, repo *mockRepository) (TeacherService, *events.MockEventPublisher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	publisher := events.NewMockEventPublisher(logger)
	return NewTeacherService(repo, nil, logger, validator.New(), publisher), publisher
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

func validCreateRequest() *CreateTeacherRequest {
	return &CreateTeacherRequest{
		PersonAttributes: validator.PersonAttributes{
			Nombres:   "Juan Carlos",
			ApPaterno: "Ramos",
		},
		InstitutionID: 1,
	}
}

// ===== CREATE =====

func TestTeacherService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success links teacher to created person", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		service, publisher := newTeacherServiceForTest(t, repo)

		req := validCreateRequest()
		req.ApMaterno = strPtr("Diaz")
		req.Correo = strPtr("juan@example.com")
		req.SpecialtyID = uintPtr(7)

		teacher, err := service.Create(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(repo.person.created) != 1 {
			t.Fatalf("expected 1 person created, got %d", len(repo.person.created))
		}
		person := repo.person.created[0]
		if teacher.PersonID != person.ID {
			t.Errorf("teacher.PersonID = %d, want %d", teacher.PersonID, person.ID)
		}
		if person.Nombres != "Juan Carlos" || person.ApPaterno != "Ramos" {
			t.Errorf("person fields not stored from input: %+v", person)
		}
		if person.ApMaterno == nil || *person.ApMaterno != "Diaz" {
			t.Errorf("expected ap_materno stored, got %v", person.ApMaterno)
		}
		if teacher.SpecialtyID == nil || *teacher.SpecialtyID != 7 {
			t.Errorf("expected specialty 7, got %v", teacher.SpecialtyID)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventTeacherCreated {
			t.Errorf("expected one %s event, got %+v", events.EventTeacherCreated, published)
		}
	})

	t.Run("absent optional fields stay nil", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		service, _ := newTeacherServiceForTest(t, repo)

		_, err := service.Create(ctx, validCreateRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		person := repo.person.created[0]
		if person.ApMaterno != nil || person.NumDocumento != nil || person.Celular != nil || person.Correo != nil {
			t.Errorf("expected optional fields nil, got %+v", person)
		}
	})

	t.Run("person insert failure stops before teacher insert", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		repo.person.createErr = errors.New("unique violation")
		service, _ := newTeacherServiceForTest(t, repo)

		_, err := service.Create(ctx, validCreateRequest())
		if !errors.Is(err, ErrPersonCreateFailed) {
			t.Fatalf("expected ErrPersonCreateFailed, got %v", err)
		}
		if len(repo.teacher.created) != 0 {
			t.Error("teacher insert must not be attempted after person failure")
		}
	})

	t.Run("teacher insert failure deletes the person row", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		repo.teacher.createErr = errors.New("foreign key violation")
		service, _ := newTeacherServiceForTest(t, repo)

		_, err := service.Create(ctx, validCreateRequest())
		if !errors.Is(err, ErrTeacherCreateFailed) {
			t.Fatalf("expected ErrTeacherCreateFailed, got %v", err)
		}

		if len(repo.person.created) != 1 {
			t.Fatalf("expected person created before failure")
		}
		personID := repo.person.created[0].ID
		if len(repo.person.deleted) != 1 || repo.person.deleted[0] != personID {
			t.Errorf("expected compensating delete of person %d, got %v", personID, repo.person.deleted)
		}
		if _, found := repo.person.byID[personID]; found {
			t.Error("person row must not be retrievable after compensation")
		}
	})

	t.Run("failed compensation leaves person row and surfaces teacher failure", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		repo.teacher.createErr = errors.New("foreign key violation")
		repo.person.deleteErr = errors.New("connection reset")
		service, _ := newTeacherServiceForTest(t, repo)

		_, err := service.Create(ctx, validCreateRequest())
		if !errors.Is(err, ErrTeacherCreateFailed) {
			t.Fatalf("expected ErrTeacherCreateFailed even when cleanup fails, got %v", err)
		}

		personID := repo.person.created[0].ID
		if _, found := repo.person.byID[personID]; !found {
			t.Error("person row should remain when the compensating delete fails")
		}
	})

	t.Run("validation failure attempts no writes", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		service, _ := newTeacherServiceForTest(t, repo)

		req := validCreateRequest()
		req.Nombres = ""

		_, err := service.Create(ctx, req)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if len(repo.person.created) != 0 {
			t.Error("no person insert expected on validation failure")
		}
	})
}

// ===== UPDATE =====

func TestTeacherService_Update(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *mockRepository) (uint, uint) {
		person := &models.Person{Nombres: "Ana", ApPaterno: "Torres"}
		_ = repo.person.Create(ctx, nil, person)
		teacher := &models.Teacher{InstitutionID: 1, PersonID: person.ID}
		_ = repo.teacher.Create(ctx, nil, teacher)
		return teacher.ID, person.ID
	}

	validUpdate := func() *UpdateTeacherRequest {
		return &UpdateTeacherRequest{
			PersonAttributes: validator.PersonAttributes{
				Nombres:   "Ana Maria",
				ApPaterno: "Torres",
			},
			SpecialtyID: uintPtr(3),
		}
	}

	t.Run("updates person first then teacher specialty", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		teacherID, personID := seed(repo)
		service, _ := newTeacherServiceForTest(t, repo)

		updated, err := service.Update(ctx, teacherID, personID, validUpdate())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.person.byID[personID].Nombres != "Ana Maria" {
			t.Error("person fields not replaced")
		}
		if updated.SpecialtyID == nil || *updated.SpecialtyID != 3 {
			t.Errorf("expected specialty 3, got %v", updated.SpecialtyID)
		}
	})

	t.Run("person update failure leaves teacher untouched", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		teacherID, personID := seed(repo)
		repo.person.updateErr = errors.New("deadlock")
		service, _ := newTeacherServiceForTest(t, repo)

		_, err := service.Update(ctx, teacherID, personID, validUpdate())
		if !errors.Is(err, ErrPersonUpdateFailed) {
			t.Fatalf("expected ErrPersonUpdateFailed, got %v", err)
		}
		if repo.teacher.byID[teacherID].SpecialtyID != nil {
			t.Error("teacher row must stay untouched after person update failure")
		}
	})

	t.Run("teacher update failure is reported without compensation", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		teacherID, personID := seed(repo)
		repo.teacher.updateErr = errors.New("deadlock")
		service, _ := newTeacherServiceForTest(t, repo)

		_, err := service.Update(ctx, teacherID, personID, validUpdate())
		if !errors.Is(err, ErrTeacherUpdateFailed) {
			t.Fatalf("expected ErrTeacherUpdateFailed, got %v", err)
		}
		// The committed person update stays in place: no snapshot to
		// roll back to
		if repo.person.byID[personID].Nombres != "Ana Maria" {
			t.Error("person update should remain committed")
		}
	})
}

// ===== DELETE =====

func TestTeacherService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes teacher row and keeps person", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		person := &models.Person{Nombres: "Luis", ApPaterno: "Vega"}
		_ = repo.person.Create(ctx, nil, person)
		teacher := &models.Teacher{InstitutionID: 1, PersonID: person.ID}
		_ = repo.teacher.Create(ctx, nil, teacher)
		service, _ := newTeacherServiceForTest(t, repo)

		if err := service.Delete(ctx, teacher.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, found := repo.teacher.byID[teacher.ID]; found {
			t.Error("teacher row should be gone")
		}
		if _, found := repo.person.byID[person.ID]; !found {
			t.Error("person row must survive the teacher delete")
		}
		if len(repo.person.deleted) != 0 {
			t.Error("no person delete expected")
		}
	})

	t.Run("missing teacher yields not found", func(t *testing.T) {
		repo := &mockRepository{person: newMockPersonRepo(), teacher: newMockTeacherRepo()}
		service, _ := newTeacherServiceForTest(t, repo)

		err := service.Delete(ctx, 9999)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
