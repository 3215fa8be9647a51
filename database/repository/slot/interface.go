// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"

	"carelink/models"
)

// ClaimResult is the outcome of a conditional claim on one slot record. The
// zero value means no claim was attempted.
type ClaimResult int

const (
	// Claimed means the record flipped from available to booked and was committed.
	Claimed ClaimResult = iota + 1
	// AlreadyBooked means the record was already unavailable; nothing was written.
	AlreadyBooked
	// NotFound means no record exists for the key; nothing was written.
	NotFound
	// TransientFailure means the backend failed before a commit was observed.
	// No state changed and the whole booking may be retried.
	TransientFailure
)

func (r ClaimResult) String() string {
	switch r {
	case Claimed:
		return "claimed"
	case AlreadyBooked:
		return "already_booked"
	case NotFound:
		return "not_found"
	case TransientFailure:
		return "transient_failure"
	default:
		return "unknown"
	}
}

var (
	ErrNotFound    = errors.New("slot not found")
	ErrSlotClaimed = errors.New("slot is claimed by an appointment")
	// ErrContention is returned with TransientFailure when the optimistic claim
	// loop ran out of attempts while the record kept changing.
	ErrContention = errors.New("slot claim contended, attempts exhausted")
	ErrInvalidKey = errors.New("doctorId and slot id are required")
)

// SlotStore holds one availability record per (doctorID, slotID).
type SlotStore interface {
	// ClaimSlot atomically sets isAvailable=false if and only if the record
	// exists and is available. On Claimed it returns the record as committed.
	// The error is non-nil only for TransientFailure.
	ClaimSlot(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, ClaimResult, error)
	// ListSlots returns a snapshot of a doctor's slots on a day ordered by start time.
	ListSlots(ctx context.Context, doctorID, day string) ([]models.SlotRecord, error)
	Get(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, error)
	// Set publishes an available slot, creating or replacing the record.
	// Claimed records are refused with ErrSlotClaimed.
	Set(ctx context.Context, slot models.SlotRecord) error
	// Remove deletes an available slot. Claimed slots are refused with ErrSlotClaimed.
	Remove(ctx context.Context, doctorID, slotID string) error
}

func validKey(doctorID, slotID string) bool {
	return doctorID != "" && slotID != ""
}
