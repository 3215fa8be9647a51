package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appointmentRepo "carelink/database/repository/appointment"
	slotRepo "carelink/database/repository/slot"
	"carelink/models"
)

var errBackend = errors.New("backend unavailable")

// flakySlotStore fails the next failClaims claims before they reach the store.
type flakySlotStore struct {
	slotRepo.SlotStore
	mu         sync.Mutex
	failClaims int
	claims     int
}

func (s *flakySlotStore) ClaimSlot(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, slotRepo.ClaimResult, error) {
	s.mu.Lock()
	s.claims++
	fail := s.failClaims > 0
	if fail {
		s.failClaims--
	}
	s.mu.Unlock()
	if fail {
		return nil, slotRepo.TransientFailure, errBackend
	}
	return s.SlotStore.ClaimSlot(ctx, doctorID, slotID)
}

// flakyAppointmentStore fails the next failCreates writes.
type flakyAppointmentStore struct {
	appointmentRepo.AppointmentStore
	mu          sync.Mutex
	failCreates int
}

func (s *flakyAppointmentStore) Create(ctx context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	fail := s.failCreates > 0
	if fail {
		s.failCreates--
	}
	s.mu.Unlock()
	if fail {
		return errBackend
	}
	return s.AppointmentStore.Create(ctx, appt)
}

type recordingEnqueuer struct {
	payloads []models.ReconcilePayload
	err      error
}

func (e *recordingEnqueuer) EnqueueReconcile(_ context.Context, payload models.ReconcilePayload) error {
	if e.err != nil {
		return e.err
	}
	e.payloads = append(e.payloads, payload)
	return nil
}

type recordingNotifier struct {
	sent []models.Appointment
	err  error
}

func (n *recordingNotifier) NotifyAppointmentBooked(_ context.Context, _ models.Patient, appt models.Appointment) error {
	n.sent = append(n.sent, appt)
	return n.err
}

func sampleSlot() models.SlotRecord {
	return models.SlotRecord{
		ID:          "s1",
		DoctorID:    "d1",
		Day:         "2024-06-01",
		StartTime:   "10:00",
		EndTime:     "10:30",
		IsAvailable: true,
	}
}

func samplePatient() models.Patient {
	return models.Patient{ID: "p1", Name: "Jane"}
}

// newTestService returns a service over in-memory stores with predictable ids.
func newTestService(seed ...models.SlotRecord) *DefaultBookingService {
	svc := NewBookingService(slotRepo.NewMemoryStore(seed...), appointmentRepo.NewMemoryStore(), nil)
	var n int
	var mu sync.Mutex
	svc.NewID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("appt-%d", n)
	}
	svc.Now = func() time.Time { return time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC) }
	return svc
}
