package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	appointmentRepo "carelink/database/repository/appointment"
	slotRepo "carelink/database/repository/slot"
	"carelink/models"
)

// Reconciler repairs bookings whose slot was claimed but whose appointment
// write was lost.
type Reconciler struct {
	Slots        slotRepo.SlotStore
	Appointments appointmentRepo.AppointmentStore
	Logger       *zap.Logger
}

func NewReconciler(slots slotRepo.SlotStore, appointments appointmentRepo.AppointmentStore, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{Slots: slots, Appointments: appointments, Logger: logger}
}

// Repair writes appt again under its original id. It does nothing when the
// slot already has an appointment, and returns ErrSlotReleased or ErrSlotGone
// when the slot no longer backs the booking.
func (r *Reconciler) Repair(ctx context.Context, appt models.Appointment) error {
	log := r.Logger.With(
		zap.String("appointmentId", appt.ID),
		zap.String("doctorId", appt.DoctorID),
		zap.String("slotId", appt.SlotID),
	)

	holder, err := r.Appointments.FindBySlot(ctx, appt.DoctorID, appt.SlotID)
	switch {
	case err == nil:
		if holder.ID != appt.ID {
			log.Warn("slot already held by another appointment", zap.String("holderId", holder.ID))
		}
		return nil
	case !errors.Is(err, appointmentRepo.ErrNotFound):
		return fmt.Errorf("failed to look up slot holder: %w", err)
	}

	slot, err := r.Slots.Get(ctx, appt.DoctorID, appt.SlotID)
	if errors.Is(err, slotRepo.ErrNotFound) {
		return ErrSlotGone
	}
	if err != nil {
		return fmt.Errorf("failed to read slot: %w", err)
	}
	if slot.IsAvailable {
		return ErrSlotReleased
	}

	if err := r.Appointments.Create(ctx, &appt); err != nil {
		return fmt.Errorf("failed to restore appointment: %w", err)
	}
	log.Info("appointment restored")
	return nil
}

// FindOrphans lists a doctor's claimed slots on a day that no appointment holds.
func (r *Reconciler) FindOrphans(ctx context.Context, doctorID, day string) ([]models.SlotRecord, error) {
	if doctorID == "" {
		return nil, NewValidationError("doctorId is required")
	}
	if err := validateDay(day); err != nil {
		return nil, err
	}
	slots, err := r.Slots.ListSlots(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	orphans := []models.SlotRecord{}
	for _, slot := range slots {
		if slot.IsAvailable {
			continue
		}
		_, err := r.Appointments.FindBySlot(ctx, doctorID, slot.ID)
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			orphans = append(orphans, slot)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up slot holder: %w", err)
		}
	}
	if len(orphans) > 0 {
		r.Logger.Warn("claimed slots without appointments",
			zap.String("doctorId", doctorID),
			zap.String("day", day),
			zap.Int("count", len(orphans)),
		)
	}
	return orphans, nil
}
