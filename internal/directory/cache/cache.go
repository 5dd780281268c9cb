// Package cache is the TTL read cache in front of the directory stores.
//
// Keys are "<kind>:<id>" for single records and "<kind>:all" for the default
// listing. Every write path (update, soft delete, restore) must remove both
// keys before returning, so the very next read cannot observe stale data.
// Expiry is otherwise left to Redis TTL; there is no background eviction here.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RecordCache caches one record kind. A nil *RecordCache is a no-op, so
// services run unchanged when Redis is not configured.
type RecordCache[T any] struct {
	rdb  *redis.Client
	kind string
	ttl  time.Duration
}

// New returns a cache for the given record kind.
func New[T any](rdb *redis.Client, kind string, ttl time.Duration) *RecordCache[T] {
	return &RecordCache[T]{rdb: rdb, kind: kind, ttl: ttl}
}

func (c *RecordCache[T]) idKey(id uuid.UUID) string {
	return c.kind + ":" + id.String()
}

func (c *RecordCache[T]) allKey() string {
	return c.kind + ":all"
}

// Get returns the cached record or nil on miss.
func (c *RecordCache[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	if c == nil {
		return nil, nil
	}
	b, err := c.rdb.Get(ctx, c.idKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", c.idKey(id), err)
	}
	var rec T
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", c.idKey(id), err)
	}
	return &rec, nil
}

// Set stores a record under its id key.
func (c *RecordCache[T]) Set(ctx context.Context, id uuid.UUID, rec *T) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", c.idKey(id), err)
	}
	return c.rdb.Set(ctx, c.idKey(id), b, c.ttl).Err()
}

// GetAll returns the cached default listing or nil on miss.
func (c *RecordCache[T]) GetAll(ctx context.Context) ([]*T, error) {
	if c == nil {
		return nil, nil
	}
	b, err := c.rdb.Get(ctx, c.allKey()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", c.allKey(), err)
	}
	var recs []*T
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", c.allKey(), err)
	}
	return recs, nil
}

// SetAll stores the default listing.
func (c *RecordCache[T]) SetAll(ctx context.Context, recs []*T) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", c.allKey(), err)
	}
	return c.rdb.Set(ctx, c.allKey(), b, c.ttl).Err()
}

// Invalidate removes the record's id key and the aggregate listing key.
// Called synchronously on every mutation before it reports success.
func (c *RecordCache[T]) Invalidate(ctx context.Context, id uuid.UUID) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.idKey(id), c.allKey()).Err()
}
