package models

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentType is a reference row (DNI, CE, pasaporte...)
type DocumentType struct {
	ID     uint   `json:"id_tipo_documento" gorm:"column:id_tipo_documento;primaryKey"`
	Nombre string `json:"nombre" gorm:"not null;size:50"`
}

func (DocumentType) TableName() string {
	return "tipos_documento"
}

// Person is the identity row shared by students, teachers and guardians.
// Optional attributes are pointers so an absent value is stored as NULL,
// never as an empty string.
type Person struct {
	ID              uint            `json:"id_persona" gorm:"column:id_persona;primaryKey"`
	Nombres         string          `json:"nombres" gorm:"not null;size:100"`
	ApPaterno       string          `json:"ap_paterno" gorm:"not null;size:100"`
	ApMaterno       *string         `json:"ap_materno" gorm:"size:100"`
	DocumentTypeID  *uint           `json:"id_tipo_documento" gorm:"column:id_tipo_documento"`
	NumDocumento    *string         `json:"num_documento" gorm:"size:20"`
	FechaNacimiento *datatypes.Date `json:"fecha_nacimiento"`
	Celular         *string         `json:"celular" gorm:"size:20"`
	Correo          *string         `json:"correo" gorm:"size:255"`
	Sexo            *string         `json:"sexo" gorm:"size:1"`
	Direccion       *string         `json:"direccion" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DocumentType *DocumentType `json:"tipo_documento,omitempty" gorm:"foreignKey:DocumentTypeID"`
}

func (Person) TableName() string {
	return "personas"
}
