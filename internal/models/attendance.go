package models

import "time"

type AttendanceStatus string

const (
	AttendancePending   AttendanceStatus = "pendiente"
	AttendancePresent   AttendanceStatus = "presente"
	AttendanceLate      AttendanceStatus = "tardanza"
	AttendanceAbsent    AttendanceStatus = "ausente"
	AttendanceJustified AttendanceStatus = "justificado"
)

// AttendanceSchedule is a planned session of an enrollment detail
type AttendanceSchedule struct {
	ID           uint      `json:"id_cronograma_asistencia" gorm:"column:id_cronograma_asistencia;primaryKey"`
	EnrollmentID uint      `json:"id_matricula" gorm:"column:id_matricula;not null"`
	DetailID     uint      `json:"id_matricula_detalle" gorm:"column:id_matricula_detalle;not null"`
	FechaInicio  time.Time `json:"fecha_hora_inicio" gorm:"column:fecha_hora_inicio;not null"`
	FechaFin     time.Time `json:"fecha_hora_fin" gorm:"column:fecha_hora_fin;not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (AttendanceSchedule) TableName() string {
	return "cronogramas_asistencia"
}

// Attendance is the recorded outcome of one planned session
type Attendance struct {
	ID                 uint             `json:"id_asistencia" gorm:"column:id_asistencia;primaryKey"`
	ScheduleID         uint             `json:"id_cronograma_asistencia" gorm:"column:id_cronograma_asistencia;not null"`
	EnrollmentID       *uint            `json:"id_matricula" gorm:"column:id_matricula"`
	DetailID           *uint            `json:"id_matricula_detalle" gorm:"column:id_matricula_detalle"`
	StudentID          *uint            `json:"id_alumno" gorm:"column:id_alumno"`
	FechaHoraBase      time.Time        `json:"fecha_hora_base" gorm:"not null"`
	FechaHoraReal      *time.Time       `json:"fecha_hora_real"`
	Estado             AttendanceStatus `json:"estado" gorm:"not null;size:20;default:pendiente"`
	RegisteredPersonID *uint            `json:"id_persona_register" gorm:"column:id_persona_register"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Schedule *AttendanceSchedule `json:"cronograma,omitempty" gorm:"foreignKey:ScheduleID"`
}

func (Attendance) TableName() string {
	return "asistencias"
}
