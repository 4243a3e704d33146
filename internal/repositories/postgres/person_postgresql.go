package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/cache"
	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
)

// ===== PERSONS =====

type personRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewPersonRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.PersonRepository {
	return &personRepository{db: db, cacheManager: cacheManager}
}

func (r *personRepository) Create(ctx context.Context, tx *gorm.DB, person *models.Person) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(person).Error; err != nil {
		return handleDBError(err, "create person")
	}
	return nil
}

func (r *personRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Person, error) {
	db := getDB(r.db, tx)
	var person models.Person

	err := r.cacheManager.Person.CacheOrExecute(ctx, fmt.Sprintf("%d", id), &person,
		cache.PersonCacheConfig.TTL, func() (interface{}, error) {
			var row models.Person
			if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
				return nil, handleDBError(err, "get person by id")
			}
			return row, nil
		})
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepository) Update(ctx context.Context, tx *gorm.DB, person *models.Person) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(person).Error; err != nil {
		return handleDBError(err, "update person")
	}
	cache.InvalidatePersonCache(ctx, r.cacheManager, person.ID)
	return nil
}

func (r *personRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Person{}, id).Error; err != nil {
		return handleDBError(err, "delete person")
	}
	cache.InvalidatePersonCache(ctx, r.cacheManager, id)
	return nil
}

func (r *personRepository) ExistsByDocument(ctx context.Context, tx *gorm.DB, documentTypeID uint, numDocumento string) (bool, error) {
	db := getDB(r.db, tx)
	var count int64
	err := db.WithContext(ctx).Model(&models.Person{}).
		Where("id_tipo_documento = ? AND num_documento = ?", documentTypeID, numDocumento).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check person document")
	}
	return count > 0, nil
}

// ===== TEACHERS =====

type teacherRepository struct {
	db *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) repositories.TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(teacher).Error; err != nil {
		return handleDBError(err, "create teacher")
	}
	return nil
}

func (r *teacherRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	db := getDB(r.db, tx)
	var teacher models.Teacher
	err := db.WithContext(ctx).
		Preload("Person").
		Preload("Specialty").
		First(&teacher, id).Error
	if err != nil {
		return nil, handleDBError(err, "get teacher by id")
	}
	return &teacher, nil
}

func (r *teacherRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.TeacherFilters) ([]*models.Teacher, int64, error) {
	db := getDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.Teacher{}).
		Joins("JOIN personas ON personas.id_persona = profesores.id_persona")

	if filters.InstitutionID != nil {
		query = query.Where("profesores.id_institucion = ?", *filters.InstitutionID)
	}
	if filters.SpecialtyID != nil {
		query = query.Where("profesores.id_especialidad = ?", *filters.SpecialtyID)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where(
			"personas.nombres ILIKE ? OR personas.ap_paterno ILIKE ? OR personas.num_documento ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count teachers")
	}

	var teachers []*models.Teacher
	err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Person").
		Preload("Specialty").
		Order("profesores.fecha_registro DESC").
		Find(&teachers).Error
	if err != nil {
		return nil, 0, handleDBError(err, "list teachers")
	}
	return teachers, total, nil
}

func (r *teacherRepository) Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(teacher).Error; err != nil {
		return handleDBError(err, "update teacher")
	}
	return nil
}

func (r *teacherRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.Teacher{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete teacher")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete teacher")
	}
	return nil
}

// ===== STUDENTS =====

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) repositories.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(student).Error; err != nil {
		return handleDBError(err, "create student")
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	db := getDB(r.db, tx)
	var student models.Student
	err := db.WithContext(ctx).
		Preload("Person").
		First(&student, id).Error
	if err != nil {
		return nil, handleDBError(err, "get student by id")
	}
	return &student, nil
}

func (r *studentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	db := getDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.Student{}).
		Joins("JOIN personas ON personas.id_persona = alumnos.id_persona")

	if filters.InstitutionID != nil {
		query = query.Where("alumnos.id_institucion = ?", *filters.InstitutionID)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where(
			"personas.nombres ILIKE ? OR personas.ap_paterno ILIKE ? OR personas.num_documento ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count students")
	}

	var students []*models.Student
	err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Person").
		Order("alumnos.created_at DESC").
		Find(&students).Error
	if err != nil {
		return nil, 0, handleDBError(err, "list students")
	}
	return students, total, nil
}

func (r *studentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete student")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete student")
	}
	return nil
}
