package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"carelink/models"
)

// ListSlots returns a snapshot of a doctor's slots on a day. Listings may lag
// behind concurrent claims.
func (s *DefaultBookingService) ListSlots(ctx context.Context, doctorID, day string) ([]models.SlotRecord, error) {
	if doctorID == "" {
		return nil, NewValidationError("doctorId is required")
	}
	if err := validateDay(day); err != nil {
		return nil, err
	}
	slots, err := s.Slots.ListSlots(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	if slots == nil {
		slots = []models.SlotRecord{}
	}
	return slots, nil
}

// SetSlot publishes an available slot, generating its id when absent.
func (s *DefaultBookingService) SetSlot(ctx context.Context, slot models.SlotRecord) (*models.SlotRecord, error) {
	if err := validateSlotRecord(slot); err != nil {
		return nil, err
	}
	if slot.ID == "" {
		slot.ID = s.NewID()
	}
	if err := s.Slots.Set(ctx, slot); err != nil {
		return nil, err
	}
	s.Logger.Info("slot published",
		zap.String("doctorId", slot.DoctorID),
		zap.String("slotId", slot.ID),
		zap.String("day", slot.Day),
	)
	return s.Slots.Get(ctx, slot.DoctorID, slot.ID)
}

func (s *DefaultBookingService) RemoveSlot(ctx context.Context, doctorID, slotID string) error {
	if err := s.Slots.Remove(ctx, doctorID, slotID); err != nil {
		return err
	}
	s.Logger.Info("slot removed", zap.String("doctorId", doctorID), zap.String("slotId", slotID))
	return nil
}

func (s *DefaultBookingService) GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return s.Appointments.Get(ctx, appointmentID)
}

// ListAppointments queries by patient, or by doctor when patientID is empty.
func (s *DefaultBookingService) ListAppointments(ctx context.Context, patientID, doctorID string) ([]models.Appointment, error) {
	var (
		appts []models.Appointment
		err   error
	)
	switch {
	case patientID != "":
		appts, err = s.Appointments.ListByPatient(ctx, patientID)
	case doctorID != "":
		appts, err = s.Appointments.ListByDoctor(ctx, doctorID)
	default:
		return nil, NewValidationError("patientId or doctorId is required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}
