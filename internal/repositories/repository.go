package repositories

import "context"

// Repository aggregates every data-access interface of the service
type Repository interface {
	// Catalog domain
	Institution() InstitutionRepository
	Period() PeriodRepository
	Specialty() SpecialtyRepository
	Frequency() FrequencyRepository
	Schedule() ScheduleRepository
	DocumentType() DocumentTypeRepository
	PaymentMethod() PaymentMethodRepository

	// People domain
	Person() PersonRepository
	Teacher() TeacherRepository
	Student() StudentRepository

	// Enrollment domain
	Enrollment() EnrollmentRepository

	// Payments and attendance
	Payment() PaymentRepository
	Attendance() AttendanceRepository

	// Auth provider (external, read-mostly)
	Auth() AuthRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
