package models

import (
	"time"

	"gorm.io/datatypes"
)

// Teacher links a Person to an Institution with an optional Specialty.
// A teacher row must never exist without its backing person row; the
// creation protocol in the teacher service enforces the ordering.
type Teacher struct {
	ID            uint           `json:"id_profesor" gorm:"column:id_profesor;primaryKey"`
	InstitutionID uint           `json:"id_institucion" gorm:"column:id_institucion;not null"`
	PersonID      uint           `json:"id_persona" gorm:"column:id_persona;not null"`
	SpecialtyID   *uint          `json:"id_especialidad" gorm:"column:id_especialidad"`
	FechaRegistro datatypes.Date `json:"fecha_registro"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Person    *Person    `json:"persona,omitempty" gorm:"foreignKey:PersonID"`
	Specialty *Specialty `json:"especialidad,omitempty" gorm:"foreignKey:SpecialtyID"`
}

func (Teacher) TableName() string {
	return "profesores"
}

// Student links a Person to an Institution
type Student struct {
	ID            uint `json:"id_alumno" gorm:"column:id_alumno;primaryKey"`
	InstitutionID uint `json:"id_institucion" gorm:"column:id_institucion;not null"`
	PersonID      uint `json:"id_persona" gorm:"column:id_persona;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Person      *Person      `json:"persona,omitempty" gorm:"foreignKey:PersonID"`
	Institution *Institution `json:"institucion,omitempty" gorm:"foreignKey:InstitutionID"`
}

func (Student) TableName() string {
	return "alumnos"
}
