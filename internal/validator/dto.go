package validator

import "github.com/matricula-cloud/matricula-service/internal/models"

// ===== AUTH =====

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ===== PERSONS / TEACHERS =====

// PersonAttributes is the shared person field set of the composite
// requests. Optional fields are pointers so absence survives into the
// database as NULL instead of an empty string.
type PersonAttributes struct {
	Nombres         string  `json:"nombres" validate:"required,max=100"`
	ApPaterno       string  `json:"ap_paterno" validate:"required,max=100"`
	ApMaterno       *string `json:"ap_materno" validate:"omitempty,max=100"`
	DocumentTypeID  *uint   `json:"id_tipo_documento"`
	NumDocumento    *string `json:"num_documento" validate:"omitempty,max=20"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Celular         *string `json:"celular" validate:"omitempty,max=20"`
	Correo          *string `json:"correo" validate:"omitempty,email,max=255"`
	Sexo            *string `json:"sexo" validate:"omitempty,oneof=M F"`
	Direccion       *string `json:"direccion" validate:"omitempty,max=255"`
}

type TeacherCreateRequest struct {
	PersonAttributes
	InstitutionID uint  `json:"id_institucion" validate:"required"`
	SpecialtyID   *uint `json:"id_especialidad"`
}

// TeacherUpdateRequest is a full replace of mutable fields, not a
// partial patch: required person fields must be re-supplied.
type TeacherUpdateRequest struct {
	PersonAttributes
	SpecialtyID *uint `json:"id_especialidad"`
}

type StudentCreateRequest struct {
	PersonAttributes
	InstitutionID uint `json:"id_institucion" validate:"required"`
}

// ===== CATALOGS =====

type InstitutionRequest struct {
	Nombre    string  `json:"nombre" validate:"required,max=150"`
	Direccion *string `json:"direccion" validate:"omitempty,max=255"`
	Telefono  *string `json:"telefono" validate:"omitempty,max=20"`
}

type PeriodRequest struct {
	InstitutionID uint   `json:"id_institucion" validate:"required"`
	Nombre        string `json:"nombre" validate:"required,max=100"`
	FechaInicio   string `json:"fecha_inicio" validate:"required,datetime=2006-01-02"`
	FechaFin      string `json:"fecha_fin" validate:"required,datetime=2006-01-02"`
}

type SpecialtyRequest struct {
	InstitutionID uint                 `json:"id_institucion" validate:"required"`
	Nombre        string               `json:"nombre" validate:"required,max=100"`
	Tipo          models.SpecialtyType `json:"tipo" validate:"required,oneof=regular taller"`
	Precio        *float64             `json:"precio" validate:"omitempty,gte=0"`
}

type FrequencyRequest struct {
	Nombre string `json:"nombre" validate:"required,max=100"`
}

type ScheduleRequest struct {
	HoraInicio string `json:"hora_inicio" validate:"required,datetime=15:04"`
	HoraFin    string `json:"hora_fin" validate:"required,datetime=15:04"`
}

// ===== ENROLLMENTS =====

type EnrollmentListRequest struct {
	Page     int                      `json:"page" form:"page" validate:"omitempty,min=1"`
	PageSize int                      `json:"page_size" form:"page_size" validate:"omitempty,min=1,max=100"`
	PeriodID *uint                    `json:"id_periodo" form:"id_periodo"`
	Estado   *models.EnrollmentStatus `json:"estado" form:"estado" validate:"omitempty,oneof=activo finalizado cancelado"`
	Search   string                   `json:"search" form:"search" validate:"omitempty,max=100"`
}

// ===== PAYMENTS =====

type PaymentScheduleCreateRequest struct {
	EnrollmentID     uint    `json:"id_matricula" validate:"required"`
	FechaCargo       string  `json:"fecha_cargo" validate:"required,datetime=2006-01-02"`
	FechaVencimiento string  `json:"fecha_vencimiento" validate:"required,datetime=2006-01-02"`
	Importe          float64 `json:"importe" validate:"required,gt=0"`
}

type DepositCreateRequest struct {
	PaymentScheduleID uint    `json:"id_cronograma_pago" validate:"required"`
	PaymentMethodID   *uint   `json:"id_medio_deposito"`
	InstitutionID     *uint   `json:"id_institucion"`
	Fecha             string  `json:"fecha" validate:"required,datetime=2006-01-02"`
	Importe           float64 `json:"importe" validate:"required,gt=0"`
}

// ===== ATTENDANCE =====

type AttendanceScheduleCreateRequest struct {
	EnrollmentID    uint   `json:"id_matricula" validate:"required"`
	DetailID        uint   `json:"id_matricula_detalle" validate:"required"`
	FechaHoraInicio string `json:"fecha_hora_inicio" validate:"required"`
	FechaHoraFin    string `json:"fecha_hora_fin" validate:"required"`
}

type AttendanceMarkRequest struct {
	Estado        models.AttendanceStatus `json:"estado" validate:"required,oneof=pendiente presente tardanza ausente justificado"`
	FechaHoraReal *string                 `json:"fecha_hora_real" validate:"omitempty"`
}
