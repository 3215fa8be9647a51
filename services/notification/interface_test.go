package notification

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carelink/models"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, message *messaging.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, message)
	return "projects/carelink/messages/1", nil
}

func TestNotifyAppointmentBooked(t *testing.T) {
	ctx := context.Background()
	appt := models.Appointment{ID: "a1", DoctorID: "d1", Date: "2024-06-01", Time: "10:00 - 10:30"}

	t.Run("Sends To Device Token", func(t *testing.T) {
		sender := &fakeSender{}
		n := &FCMNotifier{client: sender, logger: zap.NewNop()}

		require.NoError(t, n.NotifyAppointmentBooked(ctx, models.Patient{ID: "p1", DeviceToken: "tok"}, appt))
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "tok", sender.sent[0].Token)
		assert.Equal(t, "a1", sender.sent[0].Data["appointmentId"])
		assert.Contains(t, sender.sent[0].Notification.Body, "10:00 - 10:30")
	})

	t.Run("Missing Token", func(t *testing.T) {
		sender := &fakeSender{}
		n := &FCMNotifier{client: sender, logger: zap.NewNop()}

		assert.Error(t, n.NotifyAppointmentBooked(ctx, models.Patient{ID: "p1"}, appt))
		assert.Empty(t, sender.sent)
	})

	t.Run("Send Failure Is Wrapped", func(t *testing.T) {
		fcm := errors.New("registration-token-not-registered")
		n := &FCMNotifier{client: &fakeSender{err: fcm}, logger: zap.NewNop()}

		assert.ErrorIs(t, n.NotifyAppointmentBooked(ctx, models.Patient{ID: "p1", DeviceToken: "tok"}, appt), fcm)
	})
}
