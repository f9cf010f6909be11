// Package querycache is a process-wide read cache keyed by resource name.
// Reads within the stale interval are served from memory, concurrent reads of
// one key share a single in-flight fetch, and mutations invalidate the key so
// the next read goes back to the network.
package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fetcher produces the value for a cache key.
type Fetcher func(ctx context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
	gen       uint64
	stale     bool
}

// Cache caches fetch results per key. The zero value is not usable; use New.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	gens    map[string]uint64
	group   singleflight.Group

	now func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

// Read returns the cached value for key if it is present, not invalidated and
// younger than staleTime. Otherwise it runs fetcher, stores the result and
// returns it. Concurrent reads for the same key join the in-flight fetch
// instead of issuing their own.
//
// A staleTime of zero means a cached value is never considered fresh; such
// reads still dedupe against in-flight fetches.
func (c *Cache) Read(ctx context.Context, key string, staleTime time.Duration, fetcher Fetcher) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.stale && c.now().Sub(e.fetchedAt) < staleTime {
		c.mu.Unlock()
		return e.value, nil
	}
	startGen := c.gens[key]
	c.mu.Unlock()

	value, err, _ := c.group.Do(key, func() (any, error) {
		v, err := fetcher(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, v, startGen)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// store records a fetched value. A fetch that began before the latest
// invalidation lands stale, so the next read refetches; a fetch from an
// older generation never clobbers a newer entry.
func (c *Cache) store(key string, value any, startGen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.gen > startGen {
		return
	}
	c.entries[key] = &entry{
		value:     value,
		fetchedAt: c.now(),
		gen:       startGen,
		stale:     c.gens[key] != startGen,
	}
}

// Invalidate marks key stale so the next Read refetches. Invalidating twice
// in a row is the same as invalidating once. Keys with no cached entry are
// fine to invalidate.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	c.gens[key]++
	if e, ok := c.entries[key]; ok {
		e.stale = true
	}
	c.mu.Unlock()

	// A new read after this point should start its own fetch rather than
	// join a flight that predates the invalidation.
	c.group.Forget(key)
}

// Get is a typed Read: same semantics, no type assertions at the call site.
func Get[T any](ctx context.Context, c *Cache, key string, staleTime time.Duration, fetcher func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Read(ctx, key, staleTime, func(ctx context.Context) (any, error) {
		return fetcher(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache key %q holds %T", key, v)
	}
	return typed, nil
}

// WithRetry wraps fetcher so a failed fetch is attempted again, up to
// attempts total tries. Reads get this; mutations never do.
func WithRetry[T any](attempts int, fetcher func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	if attempts < 1 {
		attempts = 1
	}
	return func(ctx context.Context) (T, error) {
		var lastErr error
		for i := 0; i < attempts; i++ {
			if err := ctx.Err(); err != nil {
				var zero T
				return zero, err
			}
			v, err := fetcher(ctx)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		var zero T
		return zero, lastErr
	}
}
