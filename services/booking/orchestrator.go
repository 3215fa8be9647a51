package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	slotRepo "carelink/database/repository/slot"
	"carelink/models"
)

// BookAppointment claims the slot and, only once the claim has committed,
// writes the appointment record. The claim is never retried here.
func (s *DefaultBookingService) BookAppointment(ctx context.Context, req models.BookingRequest) BookingOutcome {
	if err := validateBookingRequest(req); err != nil {
		return BookingOutcome{Kind: Rejected, Message: err.Error(), Cause: err}
	}

	log := s.Logger.With(
		zap.String("doctorId", req.Slot.DoctorID),
		zap.String("slotId", req.Slot.ID),
		zap.String("patientId", req.Patient.ID),
	)

	slot, claim, err := s.Slots.ClaimSlot(ctx, req.Slot.DoctorID, req.Slot.ID)
	switch claim {
	case slotRepo.Claimed:
	case slotRepo.AlreadyBooked, slotRepo.NotFound:
		log.Info("slot claim rejected", zap.Stringer("claim", claim))
		return BookingOutcome{Kind: Rejected, Claim: claim, Message: MsgSlotTaken}
	default:
		if err == nil {
			err = fmt.Errorf("unexpected claim result %q", claim)
		}
		log.Warn("slot claim failed", zap.Stringer("claim", claim), zap.Error(err))
		return BookingOutcome{Kind: Failed, Claim: claim, Message: MsgTryAgain, Cause: &OutcomeError{Kind: Failed, Cause: err}}
	}

	if scheduleDiffers(req.Slot, *slot) {
		log.Warn("request schedule differs from claimed slot, using stored schedule",
			zap.String("requestedDay", req.Slot.Day),
			zap.String("requestedStart", req.Slot.StartTime),
		)
	}

	// Date and time come from the committed record, never from the request.
	appt := s.newAppointment(*slot, req.Patient, req.Reason)
	log = log.With(zap.String("appointmentId", appt.ID))

	// The claim is committed; the write runs to completion even if the caller leaves.
	writeCtx := context.WithoutCancel(ctx)
	if err := s.Appointments.Create(writeCtx, appt); err != nil {
		return s.partialFailure(writeCtx, log, appt, err)
	}

	log.Info("appointment booked")
	s.notifyBooked(writeCtx, log, req.Patient, *appt)
	return BookingOutcome{
		Kind:          Booked,
		Claim:         claim,
		AppointmentID: appt.ID,
		Message:       MsgBooked,
	}
}

// Book is BookAppointment collapsed to a display pair.
func (s *DefaultBookingService) Book(ctx context.Context, slot models.SlotRecord, patient models.Patient, reason string) (bool, string) {
	return s.BookAppointment(ctx, models.BookingRequest{Slot: slot, Patient: patient, Reason: reason}).Collapse()
}

func (s *DefaultBookingService) newAppointment(slot models.SlotRecord, patient models.Patient, reason string) *models.Appointment {
	return &models.Appointment{
		ID:          s.NewID(),
		PatientID:   patient.ID,
		DoctorID:    slot.DoctorID,
		SlotID:      slot.ID,
		PatientName: patient.Name,
		Date:        slot.Day,
		Time:        formatSlotTime(slot),
		Reason:      reason,
		Status:      models.AppointmentStatusActive,
		CreatedAt:   s.Now().UTC(),
	}
}

func (s *DefaultBookingService) partialFailure(ctx context.Context, log *zap.Logger, appt *models.Appointment, cause error) BookingOutcome {
	log.Error("appointment write failed after slot claim", zap.Error(cause))
	outcome := BookingOutcome{
		Kind:          PartiallyFailed,
		Claim:         slotRepo.Claimed,
		AppointmentID: appt.ID,
		Message:       MsgPartialUnqueued,
		Cause:         &OutcomeError{Kind: PartiallyFailed, Cause: cause},
	}
	if s.Reconcile == nil {
		return outcome
	}

	payload := models.ReconcilePayload{
		Appointment: *appt,
		Attempted:   s.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Reconcile.EnqueueReconcile(ctx, payload); err != nil {
		log.Error("failed to queue appointment repair", zap.Error(err))
		return outcome
	}
	log.Warn("appointment repair queued")
	outcome.ReconcileQueued = true
	outcome.Message = MsgPartialQueued
	return outcome
}

func (s *DefaultBookingService) notifyBooked(ctx context.Context, log *zap.Logger, patient models.Patient, appt models.Appointment) {
	if s.Notifier == nil || patient.DeviceToken == "" {
		return
	}
	if err := s.Notifier.NotifyAppointmentBooked(ctx, patient, appt); err != nil {
		log.Warn("booking confirmation push failed", zap.Error(err))
	}
}
