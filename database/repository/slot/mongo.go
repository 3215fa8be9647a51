// File: database/repository/slot/mongo.go
package slotRepo

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

type mongoSlotStore struct {
	coll        *mongo.Collection
	timeout     time.Duration
	maxAttempts int
}

// NewMongoSlotStore constructs a MongoDB SlotStore on the given collection.
// Claims use the record's version field as an optimistic concurrency token
// and give up after maxAttempts conflicting rounds.
func NewMongoSlotStore(coll *mongo.Collection, timeout time.Duration, maxAttempts int) SlotStore {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &mongoSlotStore{
		coll:        coll,
		timeout:     timeout,
		maxAttempts: maxAttempts,
	}
}

func keyFilter(doctorID, slotID string) bson.M {
	return bson.M{"doctorId": doctorID, "id": slotID}
}

func (r *mongoSlotStore) ClaimSlot(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, ClaimResult, error) {
	if !validKey(doctorID, slotID) {
		return nil, NotFound, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		var current models.SlotRecord
		err := r.coll.FindOne(ctx, keyFilter(doctorID, slotID)).Decode(&current)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFound, nil
		}
		if err != nil {
			return nil, TransientFailure, fmt.Errorf("failed to read slot: %w", err)
		}
		if !current.IsAvailable {
			return nil, AlreadyBooked, nil
		}

		filter := bson.M{
			"doctorId":    doctorID,
			"id":          slotID,
			"isAvailable": true,
			"version":     current.Version,
		}
		update := bson.M{
			"$set": bson.M{"isAvailable": false},
			"$inc": bson.M{"version": 1},
		}
		res, err := r.coll.UpdateOne(ctx, filter, update)
		if err != nil {
			return nil, TransientFailure, fmt.Errorf("failed to claim slot: %w", err)
		}
		if res.MatchedCount == 1 {
			// The filter pinned the version, so the committed document is exactly this.
			current.IsAvailable = false
			current.Version++
			return &current, Claimed, nil
		}
		// Version moved between read and write; re-read and decide again.
	}
	return nil, TransientFailure, ErrContention
}

func (r *mongoSlotStore) ListSlots(ctx context.Context, doctorID, day string) ([]models.SlotRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"doctorId": doctorID, "day": day}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.SlotRecord
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotStore) Get(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var slot models.SlotRecord
	err := r.coll.FindOne(ctx, keyFilter(doctorID, slotID)).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &slot, nil
}

// Set upserts on the key restricted to available records. A claimed record
// does not match, so the upsert collides with the unique key index instead of
// reopening it.
func (r *mongoSlotStore) Set(ctx context.Context, slot models.SlotRecord) error {
	if !validKey(slot.DoctorID, slot.ID) {
		return ErrInvalidKey
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := keyFilter(slot.DoctorID, slot.ID)
	filter["isAvailable"] = true
	update := bson.M{
		"$set": bson.M{
			"day":       slot.Day,
			"startTime": slot.StartTime,
			"endTime":   slot.EndTime,
		},
		"$inc": bson.M{"version": 1},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotClaimed
	}
	if err != nil {
		return fmt.Errorf("failed to store slot: %w", err)
	}
	return nil
}

func (r *mongoSlotStore) Remove(ctx context.Context, doctorID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := keyFilter(doctorID, slotID)
	filter["isAvailable"] = true
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove slot: %w", err)
	}
	if res.DeletedCount == 1 {
		return nil
	}

	count, err := r.coll.CountDocuments(ctx, keyFilter(doctorID, slotID))
	if err != nil {
		return fmt.Errorf("failed to check slot: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrSlotClaimed
}
