package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/db"

	"carelink/models"
)

// firebaseStore keeps appointments flat under appointments/{id}. Lookups by
// patient, doctor and slot need ".indexOn": ["patientId","doctorId","slotId"].
type firebaseStore struct {
	client  *db.Client
	root    string
	timeout time.Duration
}

// NewFirebaseStore constructs a Realtime Database backed AppointmentStore.
func NewFirebaseStore(client *db.Client, timeout time.Duration) AppointmentStore {
	return &firebaseStore{
		client:  client,
		root:    "appointments",
		timeout: timeout,
	}
}

func (s *firebaseStore) ref(appointmentID string) *db.Ref {
	return s.client.NewRef(s.root).Child(appointmentID)
}

func (s *firebaseStore) Create(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		return ErrMissingID
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.ref(appt.ID).Set(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (s *firebaseStore) Get(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	if appointmentID == "" {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var appt *models.Appointment
	if err := s.ref(appointmentID).Get(ctx, &appt); err != nil {
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	return appt, nil
}

// Update and Remove run as transactions so a concurrent Remove cannot be
// undone by an Update that read the record before it was deleted.
func (s *firebaseStore) Update(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.ref(appt.ID).Transaction(ctx, replaceUpdate(appt)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (s *firebaseStore) Remove(ctx context.Context, appointmentID string) error {
	if appointmentID == "" {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.ref(appointmentID).Transaction(ctx, removeUpdate); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to remove appointment: %w", err)
	}
	return nil
}

// replaceUpdate writes appt only over an existing record.
func replaceUpdate(appt *models.Appointment) db.UpdateFn {
	return func(node db.TransactionNode) (interface{}, error) {
		if err := requireExisting(node); err != nil {
			return nil, err
		}
		return appt, nil
	}
}

// removeUpdate writes null, which deletes the node, only over an existing record.
func removeUpdate(node db.TransactionNode) (interface{}, error) {
	if err := requireExisting(node); err != nil {
		return nil, err
	}
	return nil, nil
}

func requireExisting(node db.TransactionNode) error {
	var current *models.Appointment
	if err := node.Unmarshal(&current); err != nil {
		return fmt.Errorf("decode appointment: %w", err)
	}
	if current == nil {
		return ErrNotFound
	}
	return nil
}

func (s *firebaseStore) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.queryBy(ctx, "patientId", patientID)
}

func (s *firebaseStore) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return s.queryBy(ctx, "doctorId", doctorID)
}

func (s *firebaseStore) FindBySlot(ctx context.Context, doctorID, slotID string) (*models.Appointment, error) {
	appts, err := s.queryBy(ctx, "slotId", slotID)
	if err != nil {
		return nil, err
	}
	for i := range appts {
		if appts[i].DoctorID == doctorID {
			return &appts[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *firebaseStore) queryBy(ctx context.Context, child, value string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var byID map[string]models.Appointment
	if err := s.client.NewRef(s.root).OrderByChild(child).EqualTo(value).Get(ctx, &byID); err != nil {
		return nil, fmt.Errorf("failed to query appointments by %s: %w", child, err)
	}
	return collect(byID), nil
}

func collect(byID map[string]models.Appointment) []models.Appointment {
	appts := make([]models.Appointment, 0, len(byID))
	for id, appt := range byID {
		if appt.ID == "" {
			appt.ID = id
		}
		appts = append(appts, appt)
	}
	sortBySchedule(appts)
	return appts
}
