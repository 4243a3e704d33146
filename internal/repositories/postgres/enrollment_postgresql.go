package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
)

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) repositories.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	db := getDB(r.db, tx)
	var enrollment models.Enrollment
	err := db.WithContext(ctx).
		Preload("Student.Person").
		Preload("Period").
		Preload("Details.Specialty").
		Preload("Details.Teacher.Person").
		First(&enrollment, id).Error
	if err != nil {
		return nil, handleDBError(err, "get enrollment by id")
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	db := getDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.Enrollment{})

	if filters.PeriodID != nil {
		query = query.Where("matriculas.id_periodo = ?", *filters.PeriodID)
	}
	if filters.Estado != nil {
		query = query.Where("matriculas.estado = ?", *filters.Estado)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.
			Joins("JOIN alumnos ON alumnos.id_alumno = matriculas.id_alumno").
			Joins("JOIN personas ON personas.id_persona = alumnos.id_persona").
			Where(
				"personas.nombres ILIKE ? OR personas.ap_paterno ILIKE ?",
				pattern, pattern,
			)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count enrollments")
	}

	// A page past the last match is an empty result, not an error
	if total == 0 {
		return []*models.Enrollment{}, 0, nil
	}

	var enrollments []*models.Enrollment
	err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Student.Person").
		Preload("Period").
		Preload("Details.Specialty").
		Preload("Details.Teacher.Person").
		Order("matriculas.fecha_registro DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, 0, handleDBError(err, "list enrollments")
	}
	return enrollments, total, nil
}

func (r *enrollmentRepository) ListStatuses(ctx context.Context, tx *gorm.DB, periodID *uint) ([]models.EnrollmentStatus, error) {
	db := getDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.Enrollment{})
	if periodID != nil {
		query = query.Where("id_periodo = ?", *periodID)
	}

	var statuses []models.EnrollmentStatus
	if err := query.Pluck("estado", &statuses).Error; err != nil {
		return nil, handleDBError(err, "list enrollment statuses")
	}
	return statuses, nil
}
