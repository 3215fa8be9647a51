package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appointmentRepo "carelink/database/repository/appointment"
	slotRepo "carelink/database/repository/slot"
	"carelink/models"
)

// BookingService is the caller-facing booking API.
type BookingService interface {
	BookAppointment(ctx context.Context, req models.BookingRequest) BookingOutcome
	Book(ctx context.Context, slot models.SlotRecord, patient models.Patient, reason string) (bool, string)

	ListSlots(ctx context.Context, doctorID, day string) ([]models.SlotRecord, error)
	WatchSlots(ctx context.Context, doctorID, day string, every time.Duration) (<-chan []models.SlotRecord, error)
	SetSlot(ctx context.Context, slot models.SlotRecord) (*models.SlotRecord, error)
	RemoveSlot(ctx context.Context, doctorID, slotID string) error

	GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, patientID, doctorID string) ([]models.Appointment, error)
}

// ReconcileEnqueuer schedules the repair of a partially failed booking.
type ReconcileEnqueuer interface {
	EnqueueReconcile(ctx context.Context, payload models.ReconcilePayload) error
}

// Notifier tells a patient their appointment is confirmed.
type Notifier interface {
	NotifyAppointmentBooked(ctx context.Context, patient models.Patient, appt models.Appointment) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Slots        slotRepo.SlotStore
	Appointments appointmentRepo.AppointmentStore
	Reconcile    ReconcileEnqueuer // optional
	Notifier     Notifier          // optional
	Logger       *zap.Logger

	NewID func() string
	Now   func() time.Time
}

// NewBookingService wires the stores with uuid ids and the wall clock.
func NewBookingService(
	slots slotRepo.SlotStore,
	appointments appointmentRepo.AppointmentStore,
	logger *zap.Logger,
) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Slots:        slots,
		Appointments: appointments,
		Logger:       logger,
		NewID:        func() string { return uuid.New().String() },
		Now:          time.Now,
	}
}
