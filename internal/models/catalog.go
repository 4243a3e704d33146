package models

import (
	"time"

	"gorm.io/datatypes"
)

type Institution struct {
	ID        uint    `json:"id_institucion" gorm:"column:id_institucion;primaryKey"`
	Nombre    string  `json:"nombre" gorm:"not null;size:150"`
	Direccion *string `json:"direccion" gorm:"size:255"`
	Telefono  *string `json:"telefono" gorm:"size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Institution) TableName() string {
	return "instituciones"
}

type Period struct {
	ID            uint            `json:"id_periodo" gorm:"column:id_periodo;primaryKey"`
	InstitutionID uint            `json:"id_institucion" gorm:"column:id_institucion;not null"`
	Nombre        string          `json:"nombre" gorm:"not null;size:100"`
	FechaInicio   *datatypes.Date `json:"fecha_inicio"`
	FechaFin      *datatypes.Date `json:"fecha_fin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Institution *Institution `json:"institucion,omitempty" gorm:"foreignKey:InstitutionID"`
}

func (Period) TableName() string {
	return "periodos"
}

type SpecialtyType string

const (
	SpecialtyRegular SpecialtyType = "regular"
	SpecialtyTaller  SpecialtyType = "taller"
)

type Specialty struct {
	ID            uint          `json:"id_especialidad" gorm:"column:id_especialidad;primaryKey"`
	InstitutionID uint          `json:"id_institucion" gorm:"column:id_institucion;not null"`
	Nombre        string        `json:"nombre" gorm:"not null;size:100"`
	Tipo          SpecialtyType `json:"tipo" gorm:"not null;size:20;default:regular"`
	Precio        *float64      `json:"precio" gorm:"type:numeric(10,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Specialty) TableName() string {
	return "especialidades"
}

type Frequency struct {
	ID     uint   `json:"id_frecuencia" gorm:"column:id_frecuencia;primaryKey"`
	Nombre string `json:"nombre" gorm:"not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
}

func (Frequency) TableName() string {
	return "frecuencias"
}

// Schedule is a reusable time slot (e.g. 09:00-10:30)
type Schedule struct {
	ID         uint   `json:"id_horario" gorm:"column:id_horario;primaryKey"`
	HoraInicio string `json:"hora_inicio" gorm:"not null;size:8"`
	HoraFin    string `json:"hora_fin" gorm:"not null;size:8"`

	CreatedAt time.Time `json:"created_at"`
}

func (Schedule) TableName() string {
	return "horarios"
}

type PaymentMethod struct {
	ID     uint   `json:"id_medio_deposito" gorm:"column:id_medio_deposito;primaryKey"`
	Nombre string `json:"nombre" gorm:"not null;size:50"`
}

func (PaymentMethod) TableName() string {
	return "medios_deposito"
}
