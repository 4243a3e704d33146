package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
)

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) repositories.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) CreateSchedule(ctx context.Context, tx *gorm.DB, schedule *models.AttendanceSchedule) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(schedule).Error; err != nil {
		return handleDBError(err, "create attendance schedule")
	}
	return nil
}

func (r *attendanceRepository) ListSchedules(ctx context.Context, tx *gorm.DB, enrollmentID uint) ([]*models.AttendanceSchedule, error) {
	db := getDB(r.db, tx)
	var schedules []*models.AttendanceSchedule
	err := db.WithContext(ctx).
		Where("id_matricula = ?", enrollmentID).
		Order("fecha_hora_inicio").
		Find(&schedules).Error
	if err != nil {
		return nil, handleDBError(err, "list attendance schedules")
	}
	return schedules, nil
}

func (r *attendanceRepository) Create(ctx context.Context, tx *gorm.DB, attendance *models.Attendance) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(attendance).Error; err != nil {
		return handleDBError(err, "create attendance")
	}
	return nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Attendance, error) {
	db := getDB(r.db, tx)
	var attendance models.Attendance
	err := db.WithContext(ctx).
		Preload("Schedule").
		First(&attendance, id).Error
	if err != nil {
		return nil, handleDBError(err, "get attendance by id")
	}
	return &attendance, nil
}

func (r *attendanceRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, int64, error) {
	db := getDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.Attendance{})
	if filters.EnrollmentID != nil {
		query = query.Where("id_matricula = ?", *filters.EnrollmentID)
	}
	if filters.DetailID != nil {
		query = query.Where("id_matricula_detalle = ?", *filters.DetailID)
	}
	if filters.Estado != nil {
		query = query.Where("estado = ?", *filters.Estado)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count attendances")
	}

	var attendances []*models.Attendance
	err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Schedule").
		Order("fecha_hora_base DESC").
		Find(&attendances).Error
	if err != nil {
		return nil, 0, handleDBError(err, "list attendances")
	}
	return attendances, total, nil
}

func (r *attendanceRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, estado models.AttendanceStatus, realTime *time.Time) error {
	db := getDB(r.db, tx)

	updates := map[string]interface{}{"estado": estado}
	if realTime != nil {
		updates["fecha_hora_real"] = *realTime
	}

	result := db.WithContext(ctx).Model(&models.Attendance{}).
		Where("id_asistencia = ?", id).
		Updates(updates)
	if result.Error != nil {
		return handleDBError(result.Error, "update attendance status")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "update attendance status")
	}
	return nil
}
