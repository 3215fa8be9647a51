package slotRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"carelink/models"
)

// ListingCache stores serialized slot listings, one hash per doctor and
// generation keyed by day, plus a generation counter per doctor.
type ListingCache interface {
	// Generation returns the counter stored at key, or 0 when it is unset.
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) error
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key, field, value string, ttl time.Duration) error
}

// errCacheMiss is returned by ListingCache implementations on a missing entry.
var errCacheMiss = errors.New("cache miss")

type redisListingCache struct {
	client *redis.Client
}

// NewRedisListingCache adapts a go-redis client to ListingCache.
func NewRedisListingCache(client *redis.Client) ListingCache {
	return &redisListingCache{client: client}
}

func (c *redisListingCache) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := c.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *redisListingCache) Bump(ctx context.Context, key string) error {
	return c.client.Incr(ctx, key).Err()
}

func (c *redisListingCache) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := c.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", errCacheMiss
	}
	return val, err
}

func (c *redisListingCache) HSet(ctx context.Context, key, field, value string, ttl time.Duration) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// cachedStore serves ListSlots from the cache. Every change to a doctor's
// slots bumps that doctor's generation, so listings filled from a read that
// started before the change land under a generation nobody reads any more.
// Claims always go to the underlying store; listings are allowed to be
// briefly stale.
type cachedStore struct {
	SlotStore
	cache  ListingCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStore wraps store with a listing cache.
func NewCachedStore(store SlotStore, cache ListingCache, ttl time.Duration, logger *zap.Logger) SlotStore {
	return &cachedStore{
		SlotStore: store,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

func generationKey(doctorID string) string {
	return fmt.Sprintf("slots:%s:gen", doctorID)
}

func listingKey(doctorID string, gen int64) string {
	return fmt.Sprintf("slots:%s:%d", doctorID, gen)
}

func (s *cachedStore) ClaimSlot(ctx context.Context, doctorID, slotID string) (*models.SlotRecord, ClaimResult, error) {
	slot, result, err := s.SlotStore.ClaimSlot(ctx, doctorID, slotID)
	if result == Claimed {
		s.invalidate(ctx, doctorID)
	}
	return slot, result, err
}

func (s *cachedStore) ListSlots(ctx context.Context, doctorID, day string) ([]models.SlotRecord, error) {
	gen, err := s.cache.Generation(ctx, generationKey(doctorID))
	if err != nil {
		s.logger.Warn("slot listing cache unavailable", zap.String("doctorId", doctorID), zap.Error(err))
		return s.SlotStore.ListSlots(ctx, doctorID, day)
	}

	key := listingKey(doctorID, gen)
	raw, err := s.cache.HGet(ctx, key, day)
	if err == nil {
		var slots []models.SlotRecord
		if jsonErr := json.Unmarshal([]byte(raw), &slots); jsonErr == nil {
			return slots, nil
		}
		s.logger.Warn("discarding undecodable slot listing", zap.String("doctorId", doctorID), zap.String("day", day))
	} else if !errors.Is(err, errCacheMiss) {
		s.logger.Warn("slot listing cache read failed", zap.String("doctorId", doctorID), zap.Error(err))
	}

	slots, err := s.SlotStore.ListSlots(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	if data, jsonErr := json.Marshal(slots); jsonErr == nil {
		if cacheErr := s.cache.HSet(ctx, key, day, string(data), s.ttl); cacheErr != nil {
			s.logger.Warn("slot listing cache write failed", zap.String("doctorId", doctorID), zap.Error(cacheErr))
		}
	}
	return slots, nil
}

func (s *cachedStore) Set(ctx context.Context, slot models.SlotRecord) error {
	if err := s.SlotStore.Set(ctx, slot); err != nil {
		return err
	}
	s.invalidate(ctx, slot.DoctorID)
	return nil
}

func (s *cachedStore) Remove(ctx context.Context, doctorID, slotID string) error {
	if err := s.SlotStore.Remove(ctx, doctorID, slotID); err != nil {
		return err
	}
	s.invalidate(ctx, doctorID)
	return nil
}

func (s *cachedStore) invalidate(ctx context.Context, doctorID string) {
	if err := s.cache.Bump(ctx, generationKey(doctorID)); err != nil {
		s.logger.Warn("slot listing cache invalidation failed", zap.String("doctorId", doctorID), zap.Error(err))
	}
}
