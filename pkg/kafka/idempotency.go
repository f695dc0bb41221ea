package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers which event ids were processed.
type IdempotencyStore interface {
	Contains(ctx context.Context, eventID string) (bool, error)
	Add(ctx context.Context, eventID string) error
}

// MemoryIdempotencyStore keeps processed ids in process memory with a TTL.
// It only deduplicates within one instance.
type MemoryIdempotencyStore struct {
	cache *gocache.Cache
}

// NewMemoryIdempotencyStore returns a store whose entries expire after ttl.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{cache: gocache.New(ttl, 2*ttl)}
}

// Contains reports whether eventID was added and has not expired.
func (s *MemoryIdempotencyStore) Contains(_ context.Context, eventID string) (bool, error) {
	_, ok := s.cache.Get(eventID)
	return ok, nil
}

// Add records eventID.
func (s *MemoryIdempotencyStore) Add(_ context.Context, eventID string) error {
	s.cache.SetDefault(eventID, struct{}{})
	return nil
}

// Len returns the number of unexpired ids.
func (s *MemoryIdempotencyStore) Len() int {
	return s.cache.ItemCount()
}

// RedisIdempotencyStore shares processed ids across instances.
type RedisIdempotencyStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisIdempotencyStore stores ids under prefix with the given TTL.
func NewRedisIdempotencyStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisIdempotencyStore) key(eventID string) string {
	return s.prefix + ":" + eventID
}

// Contains reports whether the id key exists.
func (s *RedisIdempotencyStore) Contains(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", eventID, err)
	}
	return n > 0, nil
}

// Add sets the id key with the store TTL.
func (s *RedisIdempotencyStore) Add(ctx context.Context, eventID string) error {
	if err := s.client.Set(ctx, s.key(eventID), 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", eventID, err)
	}
	return nil
}

// IdempotentHandler skips events whose id is already in store and records the
// id after inner succeeds. A store failure never blocks processing.
func IdempotentHandler(store IdempotencyStore, inner Handler, logger *slog.Logger) Handler {
	return func(ctx context.Context, event *Event) error {
		if event.EventID == "" {
			return inner(ctx, event)
		}

		seen, err := store.Contains(ctx, event.EventID)
		if err != nil {
			logger.WarnContext(ctx, "idempotency lookup failed, processing anyway",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
		}
		if seen {
			consumerMessagesDuplicate.Inc()
			logger.DebugContext(ctx, "duplicate event skipped",
				slog.String("event_id", event.EventID),
				slog.String("event_type", event.EventType),
			)
			return nil
		}

		if err := inner(ctx, event); err != nil {
			return err
		}

		if err := store.Add(ctx, event.EventID); err != nil {
			logger.WarnContext(ctx, "could not record processed event",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
}
