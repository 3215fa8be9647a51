package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carelink/models"
)

type mongoAppointmentStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoAppointmentStore constructs a MongoDB AppointmentStore.
func NewMongoAppointmentStore(coll *mongo.Collection, timeout time.Duration) AppointmentStore {
	return &mongoAppointmentStore{coll: coll, timeout: timeout}
}

// Create upserts on id so a retried write lands on the same document.
func (r *mongoAppointmentStore) Create(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		return ErrMissingID
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": appt.ID}, appt, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *mongoAppointmentStore) Get(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"id": appointmentID})
}

func (r *mongoAppointmentStore) Update(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": appt.ID}, appt)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAppointmentStore) Remove(ctx context.Context, appointmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": appointmentID})
	if err != nil {
		return fmt.Errorf("failed to remove appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAppointmentStore) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{"patientId": patientID})
}

func (r *mongoAppointmentStore) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{"doctorId": doctorID})
}

func (r *mongoAppointmentStore) FindBySlot(ctx context.Context, doctorID, slotID string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"doctorId": doctorID, "slotId": slotID})
}

func (r *mongoAppointmentStore) findOne(ctx context.Context, filter bson.M) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, filter).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &appt, nil
}

func (r *mongoAppointmentStore) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}
