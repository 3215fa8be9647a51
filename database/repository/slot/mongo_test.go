package slotRepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"carelink/models"
)

func slotDoc(available bool, version int32) bson.D {
	return bson.D{
		{Key: "id", Value: "s1"},
		{Key: "doctorId", Value: "d1"},
		{Key: "day", Value: "2024-06-01"},
		{Key: "startTime", Value: "10:00"},
		{Key: "endTime", Value: "10:30"},
		{Key: "isAvailable", Value: available},
		{Key: "version", Value: version},
	}
}

func findResponse(mt *mtest.T, docs ...bson.D) bson.D {
	return mtest.CreateCursorResponse(0, "carelink."+mt.Coll.Name(), mtest.FirstBatch, docs...)
}

func updateResponse(matched int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: matched},
	)
}

func TestMongoSlotStoreClaimSlot(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("available slot is claimed", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 3)
		mt.AddMockResponses(findResponse(mt, slotDoc(true, 0)), updateResponse(1))

		claimed, result, err := store.ClaimSlot(ctx, "d1", "s1")
		require.NoError(mt, err)
		assert.Equal(mt, Claimed, result)
		require.NotNil(mt, claimed)
		assert.False(mt, claimed.IsAvailable)
		assert.Equal(mt, 1, claimed.Version)
		assert.Equal(mt, "2024-06-01", claimed.Day)
	})

	mt.Run("booked slot is rejected without a write", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 3)
		mt.AddMockResponses(findResponse(mt, slotDoc(false, 1)))

		_, result, err := store.ClaimSlot(ctx, "d1", "s1")
		require.NoError(mt, err)
		assert.Equal(mt, AlreadyBooked, result)

		started := mt.GetAllStartedEvents()
		require.Len(mt, started, 1)
		assert.Equal(mt, "find", started[0].CommandName)
	})

	mt.Run("missing slot is not found", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 3)
		mt.AddMockResponses(findResponse(mt))

		_, result, err := store.ClaimSlot(ctx, "dX", "sY")
		require.NoError(mt, err)
		assert.Equal(mt, NotFound, result)
	})

	mt.Run("version conflict re-reads and loses to the winner", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 3)
		mt.AddMockResponses(
			findResponse(mt, slotDoc(true, 0)),
			updateResponse(0),
			findResponse(mt, slotDoc(false, 1)),
		)

		_, result, err := store.ClaimSlot(ctx, "d1", "s1")
		require.NoError(mt, err)
		assert.Equal(mt, AlreadyBooked, result)
	})

	mt.Run("exhausted attempts are transient", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 2)
		mt.AddMockResponses(
			findResponse(mt, slotDoc(true, 0)),
			updateResponse(0),
			findResponse(mt, slotDoc(true, 1)),
			updateResponse(0),
		)

		_, result, err := store.ClaimSlot(ctx, "d1", "s1")
		assert.Equal(mt, TransientFailure, result)
		assert.ErrorIs(mt, err, ErrContention)
	})

	mt.Run("backend error is transient", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 3)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		_, result, err := store.ClaimSlot(ctx, "d1", "s1")
		assert.Equal(mt, TransientFailure, result)
		assert.Error(mt, err)
	})
}

func TestMongoSlotStoreRemove(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("claimed slot is refused", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 3)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}),
			mtest.CreateCursorResponse(0, "carelink."+mt.Coll.Name(), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		assert.ErrorIs(mt, store.Remove(ctx, "d1", "s1"), ErrSlotClaimed)
	})

	mt.Run("available slot is deleted", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 3)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))

		assert.NoError(mt, store.Remove(ctx, "d1", "s1"))
	})
}

func TestMongoSlotStoreSet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("claimed slot is not reopened", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 3)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		err := store.Set(ctx, models.SlotRecord{ID: "s1", DoctorID: "d1", Day: "2024-06-01", StartTime: "10:00", EndTime: "10:30"})
		assert.ErrorIs(mt, err, ErrSlotClaimed)
	})

	mt.Run("missing key is refused without a round trip", func(mt *mtest.T) {
		store := NewMongoSlotStore(mt.Coll, time.Second, 3)
		assert.ErrorIs(mt, store.Set(ctx, models.SlotRecord{DoctorID: "d1"}), ErrInvalidKey)
	})
}
