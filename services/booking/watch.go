package booking

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"carelink/models"
)

const minWatchInterval = time.Second

// WatchSlots streams listing snapshots for a doctor's day. The first snapshot
// is sent immediately, later ones only when the listing changed. The channel
// closes when ctx ends.
func (s *DefaultBookingService) WatchSlots(ctx context.Context, doctorID, day string, every time.Duration) (<-chan []models.SlotRecord, error) {
	initial, err := s.ListSlots(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	if every < minWatchInterval {
		every = minWatchInterval
	}

	out := make(chan []models.SlotRecord, 1)
	out <- initial

	go func() {
		defer close(out)
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		last := initial
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			current, err := s.ListSlots(ctx, doctorID, day)
			if err != nil {
				if ctx.Err() == nil {
					s.Logger.Warn("slot watch poll failed", zap.String("doctorId", doctorID), zap.Error(err))
				}
				continue
			}
			if slices.Equal(current, last) {
				continue
			}
			select {
			case out <- current:
				last = current
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
