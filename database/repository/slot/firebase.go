package slotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/db"

	"carelink/models"
)

// Aborts raised from inside a transaction update function. They never reach
// callers; claimResultFromError maps them onto ClaimResult.
var (
	errSlotMissing = errors.New("slot record missing")
	errSlotTaken   = errors.New("slot already taken")
)

// firebaseStore keeps slots under slots/{doctorId}/{slotId} in the Realtime
// Database. Listing by day needs ".indexOn": ["day"] on slots/$doctorId.
type firebaseStore struct {
	client  *db.Client
	root    string
	timeout time.Duration
}

// NewFirebaseStore constructs a Realtime Database backed SlotStore.
func NewFirebaseStore(client *db.Client, timeout time.Duration) SlotStore {
	return &firebaseStore{
		client:  client,
		root:    "slots",
		timeout: timeout,
	}
}

func (s *firebaseStore) ref(doctorID, slotID string) *db.Ref {
	return s.client.NewRef(s.root).Child(doctorID).Child(slotID)
}

// ClaimSlot runs the read-check-write inside a server transaction. The SDK
// re-invokes claimUpdate with fresh data whenever another writer wins the
// compare-and-set, so two claimants can never both commit.
func (s *firebaseStore) ClaimSlot(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, ClaimResult, error) {
	if !validKey(doctorID, slotID) {
		return nil, NotFound, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Only the last invocation of the update function is the one that committed.
	var committed *models.SlotRecord
	err := s.ref(doctorID, slotID).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		next, err := claimUpdate(node)
		if err != nil {
			return nil, err
		}
		committed = next.(*models.SlotRecord)
		return next, nil
	})
	result, err := claimResultFromError(err)
	if result != Claimed {
		return nil, result, err
	}
	if committed.ID == "" {
		committed.ID = slotID
	}
	if committed.DoctorID == "" {
		committed.DoctorID = doctorID
	}
	return committed, result, nil
}

func claimUpdate(node db.TransactionNode) (interface{}, error) {
	var current *models.SlotRecord
	if err := node.Unmarshal(&current); err != nil {
		return nil, fmt.Errorf("decode slot: %w", err)
	}
	if current == nil {
		return nil, errSlotMissing
	}
	if !current.IsAvailable {
		return nil, errSlotTaken
	}
	current.IsAvailable = false
	current.Version++
	return current, nil
}

func claimResultFromError(err error) (ClaimResult, error) {
	switch {
	case err == nil:
		return Claimed, nil
	case errors.Is(err, errSlotMissing):
		return NotFound, nil
	case errors.Is(err, errSlotTaken):
		return AlreadyBooked, nil
	default:
		return TransientFailure, fmt.Errorf("slot claim transaction failed: %w", err)
	}
}

func (s *firebaseStore) ListSlots(ctx context.Context, doctorID, day string) ([]models.SlotRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var byID map[string]models.SlotRecord
	query := s.client.NewRef(s.root).Child(doctorID).OrderByChild("day").EqualTo(day)
	if err := query.Get(ctx, &byID); err != nil {
		return nil, fmt.Errorf("failed to fetch slots: %w", err)
	}

	slots := make([]models.SlotRecord, 0, len(byID))
	for id, slot := range byID {
		if slot.ID == "" {
			slot.ID = id
		}
		if slot.DoctorID == "" {
			slot.DoctorID = doctorID
		}
		slots = append(slots, slot)
	}
	sortByStart(slots)
	return slots, nil
}

func (s *firebaseStore) Get(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, error) {
	if !validKey(doctorID, slotID) {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var slot *models.SlotRecord
	if err := s.ref(doctorID, slotID).Get(ctx, &slot); err != nil {
		return nil, fmt.Errorf("failed to fetch slot: %w", err)
	}
	if slot == nil {
		return nil, ErrNotFound
	}
	return slot, nil
}

// Set runs as a transaction so a publish can never reopen a slot that a
// concurrent claim has just taken.
func (s *firebaseStore) Set(ctx context.Context, slot models.SlotRecord) error {
	if !validKey(slot.DoctorID, slot.ID) {
		return ErrInvalidKey
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.ref(slot.DoctorID, slot.ID).Transaction(ctx, setUpdate(slot))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errSlotTaken):
		return ErrSlotClaimed
	default:
		return fmt.Errorf("failed to store slot: %w", err)
	}
}

func setUpdate(slot models.SlotRecord) db.UpdateFn {
	return func(node db.TransactionNode) (interface{}, error) {
		var current *models.SlotRecord
		if err := node.Unmarshal(&current); err != nil {
			return nil, fmt.Errorf("decode slot: %w", err)
		}
		next := slot
		next.IsAvailable = true
		next.Version = 0
		if current != nil {
			if !current.IsAvailable {
				return nil, errSlotTaken
			}
			next.Version = current.Version + 1
		}
		return &next, nil
	}
}

// Remove deletes the record inside a transaction so a concurrent claim cannot
// slip in between the availability check and the delete.
func (s *firebaseStore) Remove(ctx context.Context, doctorID, slotID string) error {
	if !validKey(doctorID, slotID) {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.ref(doctorID, slotID).Transaction(ctx, removeUpdate)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errSlotMissing):
		return ErrNotFound
	case errors.Is(err, errSlotTaken):
		return ErrSlotClaimed
	default:
		return fmt.Errorf("failed to remove slot: %w", err)
	}
}

// removeUpdate returns nil to delete the node.
func removeUpdate(node db.TransactionNode) (interface{}, error) {
	var current *models.SlotRecord
	if err := node.Unmarshal(&current); err != nil {
		return nil, fmt.Errorf("decode slot: %w", err)
	}
	if current == nil {
		return nil, errSlotMissing
	}
	if !current.IsAvailable {
		return nil, errSlotTaken
	}
	return nil, nil
}
