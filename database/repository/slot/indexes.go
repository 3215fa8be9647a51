// FILE: database/repository/slot/indexes.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureSlotIndexes creates the indexes the slot collection relies on.
func EnsureSlotIndexes(ctx context.Context, coll *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// One record per doctor and slot; claims filter on this key.
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("doctor_slot_unique"),
		},
		// Listing pattern.
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "day", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("doctor_day_start_idx"),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}
	return nil
}
