package appointmentRepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoAppointmentStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create upserts on id", func(mt *mtest.T) {
		store := NewMongoAppointmentStore(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: int32(1)},
			bson.E{Key: "nModified", Value: int32(0)},
		))

		appt := appointment("a1", "p1", "d1", "s1", "2024-06-01", "10:00 - 10:30")
		require.NoError(mt, store.Create(ctx, appt))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("find by slot decodes the holder", func(mt *mtest.T) {
		store := NewMongoAppointmentStore(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "carelink."+mt.Coll.Name(), mtest.FirstBatch, bson.D{
			{Key: "id", Value: "a1"},
			{Key: "patientId", Value: "p1"},
			{Key: "doctorId", Value: "d1"},
			{Key: "slotId", Value: "s1"},
			{Key: "status", Value: "active"},
		}))

		appt, err := store.FindBySlot(ctx, "d1", "s1")
		require.NoError(mt, err)
		assert.Equal(mt, "a1", appt.ID)
		assert.Equal(mt, "p1", appt.PatientID)
	})

	mt.Run("missing appointment is not found", func(mt *mtest.T) {
		store := NewMongoAppointmentStore(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "carelink."+mt.Coll.Name(), mtest.FirstBatch))

		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("remove reports a missing document", func(mt *mtest.T) {
		store := NewMongoAppointmentStore(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		assert.ErrorIs(mt, store.Remove(ctx, "a1"), ErrNotFound)
	})
}
