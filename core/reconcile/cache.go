package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// entry is one cached value with its build time.
type entry[T any] struct {
	value T
	built time.Time
}

// Cache holds join results keyed by their inputs, with TTL expiry and
// stampede protection.
type Cache[T any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*entry[T]
	sf      singleflight.Group
	now     func() time.Time
}

// NewCache creates a cache whose entries live for ttl.
// A zero ttl disables caching; concurrent builds are still deduplicated.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]*entry[T]),
		now:     time.Now,
	}
}

// TTL returns the configured time-to-live.
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

func (c *Cache[T]) fresh(key string) (*entry[T], bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.ttl <= 0 || c.now().Sub(e.built) > c.ttl {
		return nil, false
	}
	return e, true
}

// GetOrBuild returns the cached value for key, or builds and stores a new
// one if it doesn't exist or has expired.
func (c *Cache[T]) GetOrBuild(ctx context.Context, key string, build func(context.Context) (T, error)) (T, error) {
	// Fast path
	if e, ok := c.fresh(key); ok {
		return e.value, nil
	}

	result, err, _ := c.sf.Do(key, func() (any, error) {
		// Double-check after acquiring singleflight lock
		if e, ok := c.fresh(key); ok {
			return e.value, nil
		}

		value, err := build(ctx)
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.store(key, value)
		}

		return value, nil
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// store adds value under key and drops every expired entry, so keys that
// are never asked for again do not accumulate.
func (c *Cache[T]) store(key string, value T) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.Sub(e.built) > c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = &entry[T]{value: value, built: now}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate removes the entry for key, forcing the next call to rebuild.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
