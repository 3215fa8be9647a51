package appointmentRepo

import (
	"context"
	"sort"
	"sync"

	"carelink/models"
)

type memoryStore struct {
	mu   sync.RWMutex
	byID map[string]models.Appointment
}

// NewMemoryStore constructs an in-process AppointmentStore.
func NewMemoryStore() AppointmentStore {
	return &memoryStore{byID: make(map[string]models.Appointment)}
}

func (s *memoryStore) Create(ctx context.Context, appt *models.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if appt.ID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[appt.ID] = *appt
	return nil
}

func (s *memoryStore) Get(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	appt, ok := s.byID[appointmentID]
	if !ok {
		return nil, ErrNotFound
	}
	return &appt, nil
}

func (s *memoryStore) Update(ctx context.Context, appt *models.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[appt.ID]; !ok {
		return ErrNotFound
	}
	s.byID[appt.ID] = *appt
	return nil
}

func (s *memoryStore) Remove(ctx context.Context, appointmentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[appointmentID]; !ok {
		return ErrNotFound
	}
	delete(s.byID, appointmentID)
	return nil
}

func (s *memoryStore) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.filter(ctx, func(a models.Appointment) bool { return a.PatientID == patientID })
}

func (s *memoryStore) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return s.filter(ctx, func(a models.Appointment) bool { return a.DoctorID == doctorID })
}

func (s *memoryStore) FindBySlot(ctx context.Context, doctorID, slotID string) (*models.Appointment, error) {
	found, err := s.filter(ctx, func(a models.Appointment) bool {
		return a.DoctorID == doctorID && a.SlotID == slotID
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

func (s *memoryStore) filter(ctx context.Context, keep func(models.Appointment) bool) ([]models.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Appointment
	for _, a := range s.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	sortBySchedule(out)
	return out, nil
}

// sortBySchedule orders by date, then time, then id.
func sortBySchedule(appts []models.Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		if appts[i].Time != appts[j].Time {
			return appts[i].Time < appts[j].Time
		}
		return appts[i].ID < appts[j].ID
	})
}
