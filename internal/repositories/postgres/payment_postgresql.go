package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) repositories.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateSchedule(ctx context.Context, tx *gorm.DB, schedule *models.PaymentSchedule) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(schedule).Error; err != nil {
		return handleDBError(err, "create payment schedule")
	}
	return nil
}

func (r *paymentRepository) GetScheduleByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentSchedule, error) {
	db := getDB(r.db, tx)
	var schedule models.PaymentSchedule
	err := db.WithContext(ctx).
		Preload("Deposits").
		First(&schedule, id).Error
	if err != nil {
		return nil, handleDBError(err, "get payment schedule by id")
	}
	return &schedule, nil
}

func (r *paymentRepository) ListSchedules(ctx context.Context, tx *gorm.DB, filters repositories.PaymentFilters) ([]*models.PaymentSchedule, int64, error) {
	db := getDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.PaymentSchedule{})
	if filters.EnrollmentID != nil {
		query = query.Where("id_matricula = ?", *filters.EnrollmentID)
	}
	if filters.Estado != nil {
		query = query.Where("estado = ?", *filters.Estado)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count payment schedules")
	}

	var schedules []*models.PaymentSchedule
	err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Deposits").
		Order("fecha_vencimiento").
		Find(&schedules).Error
	if err != nil {
		return nil, 0, handleDBError(err, "list payment schedules")
	}
	return schedules, total, nil
}

func (r *paymentRepository) UpdateScheduleStatus(ctx context.Context, tx *gorm.DB, id uint, estado models.PaymentStatus) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Model(&models.PaymentSchedule{}).
		Where("id_cronograma_pago = ?", id).
		Update("estado", estado)
	if result.Error != nil {
		return handleDBError(result.Error, "update payment schedule status")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "update payment schedule status")
	}
	return nil
}

func (r *paymentRepository) CreateDeposit(ctx context.Context, tx *gorm.DB, deposit *models.Deposit) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(deposit).Error; err != nil {
		return handleDBError(err, "create deposit")
	}
	return nil
}

func (r *paymentRepository) ListDeposits(ctx context.Context, tx *gorm.DB, scheduleID uint) ([]*models.Deposit, error) {
	db := getDB(r.db, tx)
	var deposits []*models.Deposit
	err := db.WithContext(ctx).
		Where("id_cronograma_pago = ?", scheduleID).
		Order("fecha DESC").
		Find(&deposits).Error
	if err != nil {
		return nil, handleDBError(err, "list deposits")
	}
	return deposits, nil
}
