package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"carelink/models"
)

// messageSender is the subset of *messaging.Client used for pushes.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier sends booking confirmations through Firebase Cloud Messaging.
type FCMNotifier struct {
	client messageSender
	logger *zap.Logger
}

func NewFCMNotifier(client *messaging.Client, logger *zap.Logger) (*FCMNotifier, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: messaging client is nil")
	}
	return &FCMNotifier{client: client, logger: logger}, nil
}

// NotifyAppointmentBooked pushes a confirmation to the patient's device.
func (n *FCMNotifier) NotifyAppointmentBooked(ctx context.Context, patient models.Patient, appt models.Appointment) error {
	if patient.DeviceToken == "" {
		return fmt.Errorf("NotifyAppointmentBooked: patient %s has no device token", patient.ID)
	}

	msg := bookedMessage(patient.DeviceToken, appt)
	response, err := n.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyAppointmentBooked: failed to send FCM message: %w", err)
	}

	n.logger.Debug("booking confirmation sent",
		zap.String("appointmentId", appt.ID),
		zap.String("messageId", response),
	)
	return nil
}

func bookedMessage(token string, appt models.Appointment) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Appointment confirmed",
			Body:  fmt.Sprintf("Your appointment on %s at %s is booked.", appt.Date, appt.Time),
		},
		Data: map[string]string{
			"type":          "appointment_booked",
			"appointmentId": appt.ID,
			"doctorId":      appt.DoctorID,
			"date":          appt.Date,
			"time":          appt.Time,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}
