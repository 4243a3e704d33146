package services

import (
	"context"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateTeacherRequest = validator.TeacherCreateRequest
type UpdateTeacherRequest = validator.TeacherUpdateRequest
type CreateStudentRequest = validator.StudentCreateRequest
type ListEnrollmentsRequest = validator.EnrollmentListRequest
type RegisterDepositRequest = validator.DepositCreateRequest

type TeacherListResponse struct {
	Teachers []*models.Teacher `json:"profesores"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type StudentListResponse struct {
	Students []*models.Student `json:"alumnos"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// EnrollmentListResponse is the paginated enrollment view. TotalPages
// is ceil(Total/PageSize); a zero Total yields zero TotalPages and an
// empty Rows slice, never an error.
type EnrollmentListResponse struct {
	Rows       []*models.Enrollment `json:"rows"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// EnrollmentStats partitions the filtered row set by status. Counts
// are derived by inspecting each row's status individually, not via a
// database aggregate.
type EnrollmentStats struct {
	Total       int `json:"total"`
	Activos     int `json:"activos"`
	Finalizados int `json:"finalizados"`
	Cancelados  int `json:"cancelados"`
}

type PaymentScheduleListResponse struct {
	Schedules []*models.PaymentSchedule `json:"cronogramas"`
	Total     int64                     `json:"total"`
}

type DepositResponse struct {
	Deposit      *models.Deposit      `json:"deposito"`
	SchedulePaid bool                 `json:"cronograma_pagado"`
	Estado       models.PaymentStatus `json:"estado"`
}

type AttendanceListResponse struct {
	Attendances []*models.Attendance `json:"asistencias"`
	Total       int64                `json:"total"`
}

// ===== SERVICE INTERFACES =====

type CatalogService interface {
	// Institutions
	CreateInstitution(ctx context.Context, req *validator.InstitutionRequest) (*models.Institution, error)
	GetInstitution(ctx context.Context, id uint) (*models.Institution, error)
	ListInstitutions(ctx context.Context) ([]*models.Institution, error)
	UpdateInstitution(ctx context.Context, id uint, req *validator.InstitutionRequest) (*models.Institution, error)
	DeleteInstitution(ctx context.Context, id uint) error

	// Periods
	CreatePeriod(ctx context.Context, req *validator.PeriodRequest) (*models.Period, error)
	ListPeriods(ctx context.Context, institutionID *uint) ([]*models.Period, error)
	UpdatePeriod(ctx context.Context, id uint, req *validator.PeriodRequest) (*models.Period, error)
	DeletePeriod(ctx context.Context, id uint) error

	// Specialties
	CreateSpecialty(ctx context.Context, req *validator.SpecialtyRequest) (*models.Specialty, error)
	ListSpecialties(ctx context.Context, institutionID *uint) ([]*models.Specialty, error)
	UpdateSpecialty(ctx context.Context, id uint, req *validator.SpecialtyRequest) (*models.Specialty, error)
	DeleteSpecialty(ctx context.Context, id uint) error

	// Frequencies and schedules
	CreateFrequency(ctx context.Context, req *validator.FrequencyRequest) (*models.Frequency, error)
	ListFrequencies(ctx context.Context) ([]*models.Frequency, error)
	UpdateFrequency(ctx context.Context, id uint, req *validator.FrequencyRequest) (*models.Frequency, error)
	DeleteFrequency(ctx context.Context, id uint) error
	CreateSchedule(ctx context.Context, req *validator.ScheduleRequest) (*models.Schedule, error)
	ListSchedules(ctx context.Context) ([]*models.Schedule, error)
	UpdateSchedule(ctx context.Context, id uint, req *validator.ScheduleRequest) (*models.Schedule, error)
	DeleteSchedule(ctx context.Context, id uint) error

	// Read-only reference tables
	ListDocumentTypes(ctx context.Context) ([]*models.DocumentType, error)
	ListPaymentMethods(ctx context.Context) ([]*models.PaymentMethod, error)
}

type TeacherService interface {
	// Create spans two rows (person, then teacher) with a compensating
	// person delete if the teacher insert fails
	Create(ctx context.Context, req *CreateTeacherRequest) (*models.Teacher, error)
	GetByID(ctx context.Context, id uint) (*models.Teacher, error)
	List(ctx context.Context, filters repositories.TeacherFilters, page, pageSize int) (*TeacherListResponse, error)
	// Update replaces the person fields first, then the teacher's
	// specialty; no compensation runs on update failure
	Update(ctx context.Context, teacherID, personID uint, req *UpdateTeacherRequest) (*models.Teacher, error)
	// Delete removes only the teacher row; the person row is retained
	Delete(ctx context.Context, id uint) error
}

type StudentService interface {
	Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error)
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	List(ctx context.Context, filters repositories.StudentFilters, page, pageSize int) (*StudentListResponse, error)
}

type EnrollmentService interface {
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	List(ctx context.Context, req *ListEnrollmentsRequest) (*EnrollmentListResponse, error)
	Stats(ctx context.Context, periodID *uint) (*EnrollmentStats, error)
	// ExportXLSX renders the filtered enrollment set as a spreadsheet
	ExportXLSX(ctx context.Context, periodID *uint) ([]byte, error)
}

type PaymentService interface {
	// CreateSchedule registers a pending charge against an enrollment
	CreateSchedule(ctx context.Context, req *validator.PaymentScheduleCreateRequest) (*models.PaymentSchedule, error)
	ListSchedules(ctx context.Context, filters repositories.PaymentFilters) (*PaymentScheduleListResponse, error)
	// RegisterDeposit records a deposit and flips the schedule to paid
	// when covered, atomically
	RegisterDeposit(ctx context.Context, req *RegisterDepositRequest) (*DepositResponse, error)
	ListDeposits(ctx context.Context, scheduleID uint) ([]*models.Deposit, error)
}

type AttendanceService interface {
	// CreateSchedule plans a session and seeds its pending record
	CreateSchedule(ctx context.Context, req *validator.AttendanceScheduleCreateRequest) (*models.AttendanceSchedule, error)
	ListSchedules(ctx context.Context, enrollmentID uint) ([]*models.AttendanceSchedule, error)
	List(ctx context.Context, filters repositories.AttendanceFilters) (*AttendanceListResponse, error)
	Mark(ctx context.Context, attendanceID uint, req *validator.AttendanceMarkRequest, registeredBy *uint) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Catalog() CatalogService
	Teacher() TeacherService
	Student() StudentService
	Enrollment() EnrollmentService
	Payment() PaymentService
	Attendance() AttendanceService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
