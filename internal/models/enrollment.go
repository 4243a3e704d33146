package models

import (
	"time"

	"gorm.io/datatypes"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "activo"
	EnrollmentFinished  EnrollmentStatus = "finalizado"
	EnrollmentCancelled EnrollmentStatus = "cancelado"
)

type EnrollmentType string

const (
	EnrollmentRegular EnrollmentType = "regular"
	EnrollmentSpecial EnrollmentType = "especial"
)

// Enrollment ties a student to a period; the per-specialty breakdown
// lives in the detail rows.
type Enrollment struct {
	ID            uint             `json:"id_matricula" gorm:"column:id_matricula;primaryKey"`
	InstitutionID uint             `json:"id_institucion" gorm:"column:id_institucion;not null"`
	PeriodID      uint             `json:"id_periodo" gorm:"column:id_periodo;not null"`
	StudentID     uint             `json:"id_alumno" gorm:"column:id_alumno;not null"`
	FechaRegistro datatypes.Date   `json:"fecha_registro"`
	Tipo          EnrollmentType   `json:"tipo" gorm:"not null;size:20;default:regular"`
	Estado        EnrollmentStatus `json:"estado" gorm:"not null;size:20;default:activo"`

	// Contact overrides captured at enrollment time
	CelularAlumno   *string `json:"celular_alumno" gorm:"size:20"`
	CorreoAlumno    *string `json:"correo_alumno" gorm:"size:255"`
	DireccionAlumno *string `json:"direccion_alumno" gorm:"size:255"`

	// Guardian linkage
	GuardianPersonID   *uint   `json:"id_persona_responsable" gorm:"column:id_persona_responsable"`
	CelularResponsable *string `json:"celular_responsable" gorm:"size:20"`
	CorreoResponsable  *string `json:"correo_responsable" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student *Student           `json:"alumno,omitempty" gorm:"foreignKey:StudentID"`
	Period  *Period            `json:"periodo,omitempty" gorm:"foreignKey:PeriodID"`
	Details []EnrollmentDetail `json:"matriculas_detalles,omitempty" gorm:"foreignKey:EnrollmentID"`
}

func (Enrollment) TableName() string {
	return "matriculas"
}

type EnrollmentDetail struct {
	ID           uint             `json:"id_matricula_detalle" gorm:"column:id_matricula_detalle;primaryKey"`
	EnrollmentID uint             `json:"id_matricula" gorm:"column:id_matricula;not null"`
	TeacherID    *uint            `json:"id_profesor" gorm:"column:id_profesor"`
	SpecialtyID  *uint            `json:"id_especialidad" gorm:"column:id_especialidad"`
	FrequencyID  *uint            `json:"id_frecuencia" gorm:"column:id_frecuencia"`
	ScheduleID   *uint            `json:"id_horario" gorm:"column:id_horario"`
	FechaInicio  *datatypes.Date  `json:"fecha_inicio"`
	FechaFin     *datatypes.Date  `json:"fecha_fin"`
	CantSesiones int              `json:"cant_sesiones" gorm:"default:0"`
	Estado       EnrollmentStatus `json:"estado" gorm:"not null;size:20;default:activo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Specialty *Specialty `json:"especialidad,omitempty" gorm:"foreignKey:SpecialtyID"`
	Teacher   *Teacher   `json:"profesor,omitempty" gorm:"foreignKey:TeacherID"`
}

func (EnrollmentDetail) TableName() string {
	return "matriculas_detalles"
}
