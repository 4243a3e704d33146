package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/cache"
	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
)

// ===== INSTITUTIONS =====

type institutionRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewInstitutionRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.InstitutionRepository {
	return &institutionRepository{db: db, cacheManager: cacheManager}
}

func (r *institutionRepository) Create(ctx context.Context, tx *gorm.DB, institution *models.Institution) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(institution).Error; err != nil {
		return handleDBError(err, "create institution")
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager, "instituciones")
	return nil
}

func (r *institutionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Institution, error) {
	db := getDB(r.db, tx)
	var institution models.Institution
	if err := db.WithContext(ctx).First(&institution, id).Error; err != nil {
		return nil, handleDBError(err, "get institution by id")
	}
	return &institution, nil
}

func (r *institutionRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Institution, error) {
	db := getDB(r.db, tx)
	var institutions []*models.Institution

	err := r.cacheManager.Catalog.CacheOrExecute(ctx, "instituciones:list", &institutions,
		cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
			var rows []*models.Institution
			if err := db.WithContext(ctx).Order("nombre").Find(&rows).Error; err != nil {
				return nil, handleDBError(err, "list institutions")
			}
			return rows, nil
		})
	if err != nil {
		return nil, err
	}
	return institutions, nil
}

func (r *institutionRepository) Update(ctx context.Context, tx *gorm.DB, institution *models.Institution) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(institution).Error; err != nil {
		return handleDBError(err, "update institution")
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager, "instituciones")
	return nil
}

func (r *institutionRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Institution{}, id).Error; err != nil {
		return handleDBError(err, "delete institution")
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager, "instituciones")
	return nil
}

// ===== PERIODS =====

type periodRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewPeriodRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.PeriodRepository {
	return &periodRepository{db: db, cacheManager: cacheManager}
}

func (r *periodRepository) Create(ctx context.Context, tx *gorm.DB, period *models.Period) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(period).Error; err != nil {
		return handleDBError(err, "create period")
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager, "periodos")
	return nil
}

func (r *periodRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Period, error) {
	db := getDB(r.db, tx)
	var period models.Period
	if err := db.WithContext(ctx).First(&period, id).Error; err != nil {
		return nil, handleDBError(err, "get period by id")
	}
	return &period, nil
}

func (r *periodRepository) List(ctx context.Context, tx *gorm.DB, institutionID *uint) ([]*models.Period, error) {
	db := getDB(r.db, tx)
	var periods []*models.Period

	cacheKey := "periodos:list"
	if institutionID != nil {
		cacheKey = fmt.Sprintf("periodos:list:inst:%d", *institutionID)
	}

	err := r.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &periods,
		cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
			query := db.WithContext(ctx).Order("nombre DESC")
			if institutionID != nil {
				query = query.Where("id_institucion = ?", *institutionID)
			}
			var rows []*models.Period
			if err := query.Find(&rows).Error; err != nil {
				return nil, handleDBError(err, "list periods")
			}
			return rows, nil
		})
	if err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *periodRepository) Update(ctx context.Context, tx *gorm.DB, period *models.Period) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(period).Error; err != nil {
		return handleDBError(err, "update period")
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager, "periodos")
	return nil
}

func (r *periodRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Period{}, id).Error; err != nil {
		return handleDBError(err, "delete period")
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager, "periodos")
	return nil
}

// ===== SPECIALTIES =====

type specialtyRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSpecialtyRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SpecialtyRepository {
	return &specialtyRepository{db: db, cacheManager: cacheManager}
}

func (r *specialtyRepository) Create(ctx context.Context, tx *gorm.DB, specialty *models.Specialty) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(specialty).Error; err != nil {
		return handleDBError(err, "create specialty")
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager, "especialidades")
	return nil
}

func (r *specialtyRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Specialty, error) {
	db := getDB(r.db, tx)
	var specialty models.Specialty
	if err := db.WithContext(ctx).First(&specialty, id).Error; err != nil {
		return nil, handleDBError(err, "get specialty by id")
	}
	return &specialty, nil
}

func (r *specialtyRepository) List(ctx context.Context, tx *gorm.DB, institutionID *uint) ([]*models.Specialty, error) {
	db := getDB(r.db, tx)
	var specialties []*models.Specialty

	cacheKey := "especialidades:list"
	if institutionID != nil {
		cacheKey = fmt.Sprintf("especialidades:list:inst:%d", *institutionID)
	}

	err := r.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &specialties,
		cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
			query := db.WithContext(ctx).Order("nombre")
			if institutionID != nil {
				query = query.Where("id_institucion = ?", *institutionID)
			}
			var rows []*models.Specialty
			if err := query.Find(&rows).Error; err != nil {
				return nil, handleDBError(err, "list specialties")
			}
			return rows, nil
		})
	if err != nil {
		return nil, err
	}
	return specialties, nil
}

func (r *specialtyRepository) Update(ctx context.Context, tx *gorm.DB, specialty *models.Specialty) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(specialty).Error; err != nil {
		return handleDBError(err, "update specialty")
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager, "especialidades")
	return nil
}

func (r *specialtyRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Specialty{}, id).Error; err != nil {
		return handleDBError(err, "delete specialty")
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager, "especialidades")
	return nil
}

// ===== FREQUENCIES =====

type frequencyRepository struct {
	db *gorm.DB
}

func NewFrequencyRepository(db *gorm.DB) repositories.FrequencyRepository {
	return &frequencyRepository{db: db}
}

func (r *frequencyRepository) Create(ctx context.Context, tx *gorm.DB, frequency *models.Frequency) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(frequency).Error; err != nil {
		return handleDBError(err, "create frequency")
	}
	return nil
}

func (r *frequencyRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Frequency, error) {
	db := getDB(r.db, tx)
	var frequency models.Frequency
	if err := db.WithContext(ctx).First(&frequency, id).Error; err != nil {
		return nil, handleDBError(err, "get frequency by id")
	}
	return &frequency, nil
}

func (r *frequencyRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Frequency, error) {
	db := getDB(r.db, tx)
	var frequencies []*models.Frequency
	if err := db.WithContext(ctx).Order("id_frecuencia").Find(&frequencies).Error; err != nil {
		return nil, handleDBError(err, "list frequencies")
	}
	return frequencies, nil
}

func (r *frequencyRepository) Update(ctx context.Context, tx *gorm.DB, frequency *models.Frequency) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(frequency).Error; err != nil {
		return handleDBError(err, "update frequency")
	}
	return nil
}

func (r *frequencyRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Frequency{}, id).Error; err != nil {
		return handleDBError(err, "delete frequency")
	}
	return nil
}

// ===== SCHEDULES =====

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) repositories.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(schedule).Error; err != nil {
		return handleDBError(err, "create schedule")
	}
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Schedule, error) {
	db := getDB(r.db, tx)
	var schedule models.Schedule
	if err := db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		return nil, handleDBError(err, "get schedule by id")
	}
	return &schedule, nil
}

func (r *scheduleRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Schedule, error) {
	db := getDB(r.db, tx)
	var schedules []*models.Schedule
	if err := db.WithContext(ctx).Order("hora_inicio").Find(&schedules).Error; err != nil {
		return nil, handleDBError(err, "list schedules")
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(schedule).Error; err != nil {
		return handleDBError(err, "update schedule")
	}
	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Schedule{}, id).Error; err != nil {
		return handleDBError(err, "delete schedule")
	}
	return nil
}

// ===== READ-ONLY REFERENCE TABLES =====

type documentTypeRepository struct {
	db *gorm.DB
}

func NewDocumentTypeRepository(db *gorm.DB) repositories.DocumentTypeRepository {
	return &documentTypeRepository{db: db}
}

func (r *documentTypeRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.DocumentType, error) {
	db := getDB(r.db, tx)
	var types []*models.DocumentType
	if err := db.WithContext(ctx).Order("id_tipo_documento").Find(&types).Error; err != nil {
		return nil, handleDBError(err, "list document types")
	}
	return types, nil
}

type paymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) repositories.PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.PaymentMethod, error) {
	db := getDB(r.db, tx)
	var methods []*models.PaymentMethod
	if err := db.WithContext(ctx).Order("id_medio_deposito").Find(&methods).Error; err != nil {
		return nil, handleDBError(err, "list payment methods")
	}
	return methods, nil
}
