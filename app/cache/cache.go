package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Producer builds a fresh value for the stream, usually by fetching and
// normalizing an upstream source.
type Producer[T any] func(ctx context.Context) (T, error)

// Cache is a single-value TTL cache with a last-good-value fallback. Get
// serves the cached value while it is younger than the TTL, re-invokes the
// producer once it expires, and keeps serving the stale value when a refresh
// fails. Concurrent callers during an in-flight refresh are serialized, not
// deduplicated; consumers here are low-frequency cooperative pollers, so
// strict single-flight behavior is a non-goal.
type Cache[T any] struct {
	name    string
	ttl     time.Duration
	produce Producer[T]

	mu        sync.Mutex
	value     T
	hasValue  bool
	fetchedAt time.Time
}

func New[T any](name string, ttl time.Duration, produce Producer[T]) *Cache[T] {
	return &Cache[T]{
		name:    name,
		ttl:     ttl,
		produce: produce,
	}
}

// Get returns the cached value if fresh, otherwise refreshes. On refresh
// failure the previous value is returned unchanged with a nil error; the
// error propagates only when there is no previous value to fall back on.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasValue && time.Since(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	value, err := c.produce(ctx)
	if err != nil {
		if c.hasValue {
			slog.Warn("Refresh failed, serving stale value", "cache", c.name, "age", time.Since(c.fetchedAt), "error", err)
			return c.value, nil
		}
		var zero T
		return zero, err
	}

	c.value = value
	c.hasValue = true
	c.fetchedAt = time.Now()

	return value, nil
}

// Refresh forces a producer run regardless of freshness, keeping the old
// value on failure. Used by the background scheduler to pre-warm streams.
func (c *Cache[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, err := c.produce(ctx)
	if err != nil {
		return err
	}

	c.value = value
	c.hasValue = true
	c.fetchedAt = time.Now()

	return nil
}

// Invalidate drops the cached value so the next Get refreshes.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasValue = false
}
