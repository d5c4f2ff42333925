// Package cache provides a single-value cache that reloads itself after a TTL
package cache

import (
	"context"
	"sync"
	"time"
)

// Loader produces a fresh value for the cache
type Loader[T any] func(ctx context.Context) (T, error)

type Option[T any] func(*Cache[T])

// WithClock replaces time.Now, for tests
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) {
		c.now = now
	}
}

// Cache holds one value produced by a loader. A value older than the TTL is
// reloaded on the next Get. Loader errors are returned and never cached.
type Cache[T any] struct {
	ttl  time.Duration
	load Loader[T]
	now  func() time.Time

	// mu serializes loads so concurrent callers share a single reload
	mu    sync.Mutex
	val   T
	at    time.Time
	valid bool
}

func New[T any](ttl time.Duration, load Loader[T], opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		ttl:  ttl,
		load: load,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value, reloading it when missing or expired
func (c *Cache[T]) Get(ctx context.Context) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.at) < c.ttl {
		return c.val, true, nil
	}

	val, err := c.reload(ctx)
	return val, false, err
}

// Refresh reloads the value regardless of its age
func (c *Cache[T]) Refresh(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reload(ctx)
}

// Invalidate drops the cached value so the next Get reloads it
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.val = zero
	c.valid = false
}

// reload must be called with mu held
func (c *Cache[T]) reload(ctx context.Context) (T, error) {
	val, err := c.load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.val = val
	c.at = c.now()
	c.valid = true
	return val, nil
}
