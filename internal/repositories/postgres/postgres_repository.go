package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/cache"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/repositories/casdoor"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	institution   repositories.InstitutionRepository
	period        repositories.PeriodRepository
	specialty     repositories.SpecialtyRepository
	frequency     repositories.FrequencyRepository
	schedule      repositories.ScheduleRepository
	documentType  repositories.DocumentTypeRepository
	paymentMethod repositories.PaymentMethodRepository
	person        repositories.PersonRepository
	teacher       repositories.TeacherRepository
	student       repositories.StudentRepository
	enrollment    repositories.EnrollmentRepository
	payment       repositories.PaymentRepository
	attendance    repositories.AttendanceRepository
	auth          repositories.AuthRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.initSubRepositories(config.DB)

	// Auth repository talks to Casdoor, not Postgres
	repo.auth = casdoor.NewAuthCasdoor(config.CasdoorConfig, config.RedisClient)

	return repo
}

func (r *PostgreSQLRepository) initSubRepositories(db *gorm.DB) {
	r.institution = NewInstitutionRepository(db, r.cacheManager)
	r.period = NewPeriodRepository(db, r.cacheManager)
	r.specialty = NewSpecialtyRepository(db, r.cacheManager)
	r.frequency = NewFrequencyRepository(db)
	r.schedule = NewScheduleRepository(db)
	r.documentType = NewDocumentTypeRepository(db)
	r.paymentMethod = NewPaymentMethodRepository(db)
	r.person = NewPersonRepository(db, r.cacheManager)
	r.teacher = NewTeacherRepository(db)
	r.student = NewStudentRepository(db)
	r.enrollment = NewEnrollmentRepository(db)
	r.payment = NewPaymentRepository(db)
	r.attendance = NewAttendanceRepository(db)
}

func (r *PostgreSQLRepository) Institution() repositories.InstitutionRepository {
	return r.institution
}

func (r *PostgreSQLRepository) Period() repositories.PeriodRepository {
	return r.period
}

func (r *PostgreSQLRepository) Specialty() repositories.SpecialtyRepository {
	return r.specialty
}

func (r *PostgreSQLRepository) Frequency() repositories.FrequencyRepository {
	return r.frequency
}

func (r *PostgreSQLRepository) Schedule() repositories.ScheduleRepository {
	return r.schedule
}

func (r *PostgreSQLRepository) DocumentType() repositories.DocumentTypeRepository {
	return r.documentType
}

func (r *PostgreSQLRepository) PaymentMethod() repositories.PaymentMethodRepository {
	return r.paymentMethod
}

func (r *PostgreSQLRepository) Person() repositories.PersonRepository {
	return r.person
}

func (r *PostgreSQLRepository) Teacher() repositories.TeacherRepository {
	return r.teacher
}

func (r *PostgreSQLRepository) Student() repositories.StudentRepository {
	return r.student
}

func (r *PostgreSQLRepository) Enrollment() repositories.EnrollmentRepository {
	return r.enrollment
}

func (r *PostgreSQLRepository) Payment() repositories.PaymentRepository {
	return r.payment
}

func (r *PostgreSQLRepository) Attendance() repositories.AttendanceRepository {
	return r.attendance
}

func (r *PostgreSQLRepository) Auth() repositories.AuthRepository {
	return r.auth
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create a new repository instance bound to the transaction
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}
		txRepo.initSubRepositories(tx)

		// Auth repository is external and doesn't participate in the transaction
		txRepo.auth = r.auth

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if err := rm.config.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)
	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck verifies all connections are alive
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return rm.repo.Ping(ctx)
}

// Shutdown gracefully closes all connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
