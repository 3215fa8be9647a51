package appointmentRepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelink/models"
)

func appointment(id, patientID, doctorID, slotID, date, at string) *models.Appointment {
	return &models.Appointment{
		ID:        id,
		PatientID: patientID,
		DoctorID:  doctorID,
		SlotID:    slotID,
		Date:      date,
		Time:      at,
		Status:    models.AppointmentStatusActive,
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Create Is Idempotent By ID", func(t *testing.T) {
		store := NewMemoryStore()
		appt := appointment("a1", "p1", "d1", "s1", "2024-06-01", "10:00 - 10:30")

		require.NoError(t, store.Create(ctx, appt))
		require.NoError(t, store.Create(ctx, appt))

		appts, err := store.ListByPatient(ctx, "p1")
		require.NoError(t, err)
		assert.Len(t, appts, 1)
	})

	t.Run("Create Requires An ID", func(t *testing.T) {
		store := NewMemoryStore()
		assert.ErrorIs(t, store.Create(ctx, &models.Appointment{PatientID: "p1"}), ErrMissingID)
	})

	t.Run("Lookups", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Create(ctx, appointment("a2", "p1", "d1", "s2", "2024-06-01", "11:00 - 11:30")))
		require.NoError(t, store.Create(ctx, appointment("a1", "p1", "d2", "s1", "2024-06-01", "10:00 - 10:30")))
		require.NoError(t, store.Create(ctx, appointment("a3", "p2", "d1", "s3", "2024-05-30", "09:00 - 09:30")))

		byPatient, err := store.ListByPatient(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, byPatient, 2)
		assert.Equal(t, "a1", byPatient[0].ID)
		assert.Equal(t, "a2", byPatient[1].ID)

		byDoctor, err := store.ListByDoctor(ctx, "d1")
		require.NoError(t, err)
		require.Len(t, byDoctor, 2)
		assert.Equal(t, "a3", byDoctor[0].ID)

		found, err := store.FindBySlot(ctx, "d1", "s2")
		require.NoError(t, err)
		assert.Equal(t, "a2", found.ID)

		_, err = store.FindBySlot(ctx, "d2", "s2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Update And Remove", func(t *testing.T) {
		store := NewMemoryStore()
		appt := appointment("a1", "p1", "d1", "s1", "2024-06-01", "10:00 - 10:30")

		assert.ErrorIs(t, store.Update(ctx, appt), ErrNotFound)
		require.NoError(t, store.Create(ctx, appt))

		appt.Status = models.AppointmentStatusCompleted
		require.NoError(t, store.Update(ctx, appt))
		got, err := store.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusCompleted, got.Status)

		require.NoError(t, store.Remove(ctx, "a1"))
		assert.ErrorIs(t, store.Remove(ctx, "a1"), ErrNotFound)
		_, err = store.Get(ctx, "a1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
