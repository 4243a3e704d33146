package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/events"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	EnableDebugLogging bool
	LogLevel           slog.Level

	// Service-specific configurations
	Catalog    ServiceConfig
	Teacher    ServiceConfig
	Student    ServiceConfig
	Enrollment ServiceConfig
	Payment    ServiceConfig
	Attendance ServiceConfig

	DefaultTimeout time.Duration
}

type ServiceConfig struct {
	Enabled      bool
	CacheEnabled bool
	CacheTTL     time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db             *gorm.DB
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	config         ServiceManagerConfig

	// Service instances
	catalogService    CatalogService
	teacherService    TeacherService
	studentService    StudentService
	enrollmentService EnrollmentService
	paymentService    PaymentService
	attendanceService AttendanceService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:             db,
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		config:         config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,

		Catalog: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     15 * time.Minute,
		},
		Teacher: ServiceConfig{
			Enabled: true,
		},
		Student: ServiceConfig{
			Enabled: true,
		},
		Enrollment: ServiceConfig{
			Enabled: true,
		},
		Payment: ServiceConfig{
			Enabled: true,
		},
		Attendance: ServiceConfig{
			Enabled: true,
		},

		DefaultTimeout: 30 * time.Second,
	}

	return NewServiceManager(db, repo, logger, validator, eventPublisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.config.Catalog.Enabled {
		sm.catalogService = NewCatalogService(sm.repo, sm.db, sm.logger, sm.validator)
		sm.logger.Info("Catalog service initialized")
	}

	if sm.config.Teacher.Enabled {
		sm.teacherService = NewTeacherService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
		sm.logger.Info("Teacher service initialized")
	}

	if sm.config.Student.Enabled {
		sm.studentService = NewStudentService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
		sm.logger.Info("Student service initialized")
	}

	if sm.config.Enrollment.Enabled {
		sm.enrollmentService = NewEnrollmentService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
		sm.logger.Info("Enrollment service initialized")
	}

	if sm.config.Payment.Enabled {
		sm.paymentService = NewPaymentService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
		sm.logger.Info("Payment service initialized")
	}

	if sm.config.Attendance.Enabled {
		sm.attendanceService = NewAttendanceService(sm.repo, sm.db, sm.logger, sm.validator)
		sm.logger.Info("Attendance service initialized")
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// ===== SERVICE GETTERS =====

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.catalogService == nil {
		panic("catalog service not enabled")
	}
	return sm.catalogService
}

func (sm *serviceManager) Teacher() TeacherService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.teacherService == nil {
		panic("teacher service not enabled")
	}
	return sm.teacherService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.studentService == nil {
		panic("student service not enabled")
	}
	return sm.studentService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.enrollmentService == nil {
		panic("enrollment service not enabled")
	}
	return sm.enrollmentService
}

func (sm *serviceManager) Payment() PaymentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.paymentService == nil {
		panic("payment service not enabled")
	}
	return sm.paymentService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.attendanceService == nil {
		panic("attendance service not enabled")
	}
	return sm.attendanceService
}

// ===== LIFECYCLE =====

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Warn("failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	return nil
}
