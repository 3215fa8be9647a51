package appointmentRepo

import (
	"context"
	"errors"

	"carelink/models"
)

var (
	ErrNotFound  = errors.New("appointment not found")
	ErrMissingID = errors.New("appointment id is required")
)

// AppointmentStore persists appointments keyed by their generated id.
type AppointmentStore interface {
	// Create writes the record under its id. Writing the same id twice
	// overwrites instead of duplicating.
	Create(ctx context.Context, appt *models.Appointment) error
	Get(ctx context.Context, appointmentID string) (*models.Appointment, error)
	Update(ctx context.Context, appt *models.Appointment) error
	Remove(ctx context.Context, appointmentID string) error
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	// FindBySlot returns the appointment holding a slot, or ErrNotFound.
	FindBySlot(ctx context.Context, doctorID, slotID string) (*models.Appointment, error)
}
