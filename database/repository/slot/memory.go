package slotRepo

import (
	"context"
	"sort"
	"sync"

	"carelink/models"
)

type slotKey struct {
	doctorID string
	slotID   string
}

// memoryStore keeps slots in process. The mutex is the serialization point
// for claims, so it gives the same guarantees as a remote conditional update
// for callers inside one process.
type memoryStore struct {
	mu    sync.Mutex
	slots map[slotKey]models.SlotRecord
}

// NewMemoryStore constructs an in-process SlotStore.
func NewMemoryStore(seed ...models.SlotRecord) SlotStore {
	s := &memoryStore{slots: make(map[slotKey]models.SlotRecord, len(seed))}
	for _, slot := range seed {
		s.slots[slotKey{slot.DoctorID, slot.ID}] = slot
	}
	return s
}

func (s *memoryStore) ClaimSlot(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, ClaimResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, TransientFailure, err
	}
	if !validKey(doctorID, slotID) {
		return nil, NotFound, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{doctorID, slotID}
	current, ok := s.slots[key]
	if !ok {
		return nil, NotFound, nil
	}
	if !current.IsAvailable {
		return nil, AlreadyBooked, nil
	}
	current.IsAvailable = false
	current.Version++
	s.slots[key] = current
	return &current, Claimed, nil
}

func (s *memoryStore) ListSlots(ctx context.Context, doctorID, day string) ([]models.SlotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.SlotRecord
	for key, slot := range s.slots {
		if key.doctorID == doctorID && slot.Day == day {
			out = append(out, slot)
		}
	}
	sortByStart(out)
	return out, nil
}

func (s *memoryStore) Get(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotKey{doctorID, slotID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &slot, nil
}

func (s *memoryStore) Set(ctx context.Context, slot models.SlotRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validKey(slot.DoctorID, slot.ID) {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{slot.DoctorID, slot.ID}
	slot.IsAvailable = true
	slot.Version = 0
	if prev, ok := s.slots[key]; ok {
		if !prev.IsAvailable {
			return ErrSlotClaimed
		}
		slot.Version = prev.Version + 1
	}
	s.slots[key] = slot
	return nil
}

func (s *memoryStore) Remove(ctx context.Context, doctorID, slotID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{doctorID, slotID}
	slot, ok := s.slots[key]
	if !ok {
		return ErrNotFound
	}
	if !slot.IsAvailable {
		return ErrSlotClaimed
	}
	delete(s.slots, key)
	return nil
}

func sortByStart(slots []models.SlotRecord) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartTime == slots[j].StartTime {
			return slots[i].ID < slots[j].ID
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}
