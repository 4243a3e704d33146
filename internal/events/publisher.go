package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published by the service
const (
	EventTeacherCreated     = "teacher.created"
	EventTeacherUpdated     = "teacher.updated"
	EventTeacherDeleted     = "teacher.deleted"
	EventStudentCreated     = "student.created"
	EventEnrollmentExported = "enrollment.exported"
	EventDepositRegistered  = "payment.deposit_registered"
)

// Event is the envelope every published message travels in
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with identity and timing filled in
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "matricula-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to the message broker
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// ===== EVENT PAYLOADS =====

// TeacherCreatedEvent is emitted after the two-step person/teacher
// creation completes
type TeacherCreatedEvent struct {
	TeacherID     uint   `json:"id_profesor"`
	PersonID      uint   `json:"id_persona"`
	InstitutionID uint   `json:"id_institucion"`
	SpecialtyID   *uint  `json:"id_especialidad,omitempty"`
	FullName      string `json:"nombre_completo"`
}

type TeacherUpdatedEvent struct {
	TeacherID uint `json:"id_profesor"`
	PersonID  uint `json:"id_persona"`
}

type TeacherDeletedEvent struct {
	TeacherID uint `json:"id_profesor"`
	// The person row outlives the teacher row
	PersonID uint `json:"id_persona"`
}

type StudentCreatedEvent struct {
	StudentID     uint   `json:"id_alumno"`
	PersonID      uint   `json:"id_persona"`
	InstitutionID uint   `json:"id_institucion"`
	FullName      string `json:"nombre_completo"`
}

type EnrollmentExportedEvent struct {
	PeriodID *uint `json:"id_periodo,omitempty"`
	Rows     int   `json:"rows"`
}

type DepositRegisteredEvent struct {
	DepositID         uint    `json:"id_deposito"`
	PaymentScheduleID uint    `json:"id_cronograma_pago"`
	EnrollmentID      uint    `json:"id_matricula"`
	Importe           float64 `json:"importe"`
	SchedulePaid      bool    `json:"cronograma_pagado"`
}
