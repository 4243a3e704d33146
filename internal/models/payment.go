package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pendiente"
	PaymentPaid      PaymentStatus = "pagado"
	PaymentOverdue   PaymentStatus = "vencido"
	PaymentCancelled PaymentStatus = "anulado"
)

// PaymentSchedule is one scheduled charge of an enrollment
type PaymentSchedule struct {
	ID               uint           `json:"id_cronograma_pago" gorm:"column:id_cronograma_pago;primaryKey"`
	EnrollmentID     uint           `json:"id_matricula" gorm:"column:id_matricula;not null"`
	FechaCargo       datatypes.Date `json:"fecha_cargo"`
	FechaVencimiento datatypes.Date `json:"fecha_vencimiento"`
	Importe          float64        `json:"importe" gorm:"type:numeric(10,2);not null"`
	Estado           PaymentStatus  `json:"estado" gorm:"not null;size:20;default:pendiente"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Enrollment *Enrollment `json:"matricula,omitempty" gorm:"foreignKey:EnrollmentID"`
	Deposits   []Deposit   `json:"depositos,omitempty" gorm:"foreignKey:PaymentScheduleID"`
}

func (PaymentSchedule) TableName() string {
	return "cronogramas_pago"
}

// Deposit is a payment received against a scheduled charge
type Deposit struct {
	ID                uint           `json:"id_deposito" gorm:"column:id_deposito;primaryKey"`
	PaymentScheduleID uint           `json:"id_cronograma_pago" gorm:"column:id_cronograma_pago;not null"`
	InstitutionID     *uint          `json:"id_institucion" gorm:"column:id_institucion"`
	PaymentMethodID   *uint          `json:"id_medio_deposito" gorm:"column:id_medio_deposito"`
	Fecha             datatypes.Date `json:"fecha"`
	Importe           float64        `json:"importe" gorm:"type:numeric(10,2);not null"`

	CreatedAt time.Time `json:"created_at"`

	PaymentMethod *PaymentMethod `json:"medio_deposito,omitempty" gorm:"foreignKey:PaymentMethodID"`
}

func (Deposit) TableName() string {
	return "depositos"
}
