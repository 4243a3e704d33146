package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/matricula-cloud/matricula-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type EnrollmentFilters struct {
	PeriodID *uint                    `json:"id_periodo"`
	Estado   *models.EnrollmentStatus `json:"estado"`
	// Search matches case-insensitively against the student's nombres
	// and ap_paterno through the alumno -> persona join
	Search string `json:"search"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type TeacherFilters struct {
	InstitutionID *uint  `json:"id_institucion"`
	SpecialtyID   *uint  `json:"id_especialidad"`
	Search        string `json:"search"`
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
}

type StudentFilters struct {
	InstitutionID *uint  `json:"id_institucion"`
	Search        string `json:"search"`
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
}

type PaymentFilters struct {
	EnrollmentID *uint                 `json:"id_matricula"`
	Estado       *models.PaymentStatus `json:"estado"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

type AttendanceFilters struct {
	EnrollmentID *uint                    `json:"id_matricula"`
	DetailID     *uint                    `json:"id_matricula_detalle"`
	Estado       *models.AttendanceStatus `json:"estado"`
	Limit        int                      `json:"limit"`
	Offset       int                      `json:"offset"`
}

// ===== CATALOG REPOSITORIES =====

type InstitutionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, institution *models.Institution) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Institution, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Institution, error)
	Update(ctx context.Context, tx *gorm.DB, institution *models.Institution) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type PeriodRepository interface {
	Create(ctx context.Context, tx *gorm.DB, period *models.Period) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Period, error)
	List(ctx context.Context, tx *gorm.DB, institutionID *uint) ([]*models.Period, error)
	Update(ctx context.Context, tx *gorm.DB, period *models.Period) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type SpecialtyRepository interface {
	Create(ctx context.Context, tx *gorm.DB, specialty *models.Specialty) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Specialty, error)
	List(ctx context.Context, tx *gorm.DB, institutionID *uint) ([]*models.Specialty, error)
	Update(ctx context.Context, tx *gorm.DB, specialty *models.Specialty) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type FrequencyRepository interface {
	Create(ctx context.Context, tx *gorm.DB, frequency *models.Frequency) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Frequency, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Frequency, error)
	Update(ctx context.Context, tx *gorm.DB, frequency *models.Frequency) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type ScheduleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Schedule, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Schedule, error)
	Update(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type DocumentTypeRepository interface {
	List(ctx context.Context, tx *gorm.DB) ([]*models.DocumentType, error)
}

type PaymentMethodRepository interface {
	List(ctx context.Context, tx *gorm.DB) ([]*models.PaymentMethod, error)
}

// ===== PEOPLE REPOSITORIES =====

type PersonRepository interface {
	Create(ctx context.Context, tx *gorm.DB, person *models.Person) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Person, error)
	Update(ctx context.Context, tx *gorm.DB, person *models.Person) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ExistsByDocument(ctx context.Context, tx *gorm.DB, documentTypeID uint, numDocumento string) (bool, error)
}

type TeacherRepository interface {
	Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error)
	List(ctx context.Context, tx *gorm.DB, filters TeacherFilters) ([]*models.Teacher, int64, error)
	Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

// ===== ENROLLMENT REPOSITORY =====

type EnrollmentRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	// List returns the filtered page with student/person, period and
	// detail/specialty relations preloaded, plus the total match count.
	List(ctx context.Context, tx *gorm.DB, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	// ListStatuses returns only the estado column of every matching row;
	// the stats aggregation inspects each row client-side.
	ListStatuses(ctx context.Context, tx *gorm.DB, periodID *uint) ([]models.EnrollmentStatus, error)
}

// ===== PAYMENT REPOSITORY =====

type PaymentRepository interface {
	CreateSchedule(ctx context.Context, tx *gorm.DB, schedule *models.PaymentSchedule) error
	GetScheduleByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentSchedule, error)
	ListSchedules(ctx context.Context, tx *gorm.DB, filters PaymentFilters) ([]*models.PaymentSchedule, int64, error)
	UpdateScheduleStatus(ctx context.Context, tx *gorm.DB, id uint, estado models.PaymentStatus) error
	CreateDeposit(ctx context.Context, tx *gorm.DB, deposit *models.Deposit) error
	ListDeposits(ctx context.Context, tx *gorm.DB, scheduleID uint) ([]*models.Deposit, error)
}

// ===== ATTENDANCE REPOSITORY =====

type AttendanceRepository interface {
	CreateSchedule(ctx context.Context, tx *gorm.DB, schedule *models.AttendanceSchedule) error
	ListSchedules(ctx context.Context, tx *gorm.DB, enrollmentID uint) ([]*models.AttendanceSchedule, error)
	Create(ctx context.Context, tx *gorm.DB, attendance *models.Attendance) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Attendance, error)
	List(ctx context.Context, tx *gorm.DB, filters AttendanceFilters) ([]*models.Attendance, int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, estado models.AttendanceStatus, realTime *time.Time) error
}

// ===== AUTH REPOSITORY =====

// Session is the provider-side authentication state
type Session struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// AuthRepository is the interface to the external auth provider
type AuthRepository interface {
	// SignIn exchanges credentials for a session
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// SignOut invalidates the provider-side session for the token
	SignOut(ctx context.Context, token string) error
	// GetSession returns the live session for a token, or nil when the
	// token no longer maps to one
	GetSession(ctx context.Context, token string) (*Session, error)
	// GetUserByID resolves a provider identity
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// ===== ERROR HELPERS =====

// IsNotFoundError reports whether err is a missing-row error
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
