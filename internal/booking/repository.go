package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound        = errors.New("slot not found")
	ErrSlotExists          = errors.New("slot already exists")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	// Slots
	ListSlots(ctx context.Context, availableOnly bool) ([]TimeSlot, error)
	InsertSlot(ctx context.Context, slot TimeSlot) (*TimeSlot, error)
	SetSlotAvailability(ctx context.Context, id uuid.UUID, available bool) (*TimeSlot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error

	// Appointments
	InsertAppointment(ctx context.Context, appt Appointment) (*Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListAppointments(ctx context.Context) ([]Appointment, error)
	ListAppointmentsByClient(ctx context.Context, email, phone string) ([]Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
