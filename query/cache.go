// Package query implements the generic data-access layer of the CMS
// dashboard: key-addressed cached reads with in-flight de-duplication, the
// invalidation protocol that keeps lists consistent after writes, and the
// one-shot mutation wrapper with form-error binding.
package query

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// entry is one cache slot: the last successful payload, the last error, the
// staleness state, and the invalidation subscribers for the key. gen counts
// invalidations; a request dispatched under an older generation may never
// mark the entry fresh or overwrite a newer payload.
type entry struct {
	data   any
	err    error
	loaded bool
	stale  bool
	gen    uint64
	subs   map[int]func()
}

// flight is the upstream request shared by every caller of one generation of
// one key. It owns its context: the request is aborted only when the last
// joined caller has gone away, never because a single caller did.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Cache is the process-wide query cache. Reads with structurally equal keys
// share one entry and one in-flight request. Entries are retained until
// invalidated and refetched or the cache is cleared; there is no timed
// eviction.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	flights map[string]*flight
	group   singleflight.Group
	nextSub int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		flights: make(map[string]*flight),
	}
}

func (c *Cache) entryLocked(canonical string) *entry {
	e, ok := c.entries[canonical]
	if !ok {
		e = &entry{subs: make(map[int]func())}
		c.entries[canonical] = e
	}
	return e
}

// fetch resolves key through the cache. A fresh entry is returned as-is;
// otherwise fn runs once per key and generation regardless of how many
// callers arrive while it is in flight, and all of them receive its result.
// An invalidation bumps the generation, so a request dispatched before a
// mutation settled can never satisfy the post-mutation read: callers that
// receive a pre-invalidation payload go around again.
func (c *Cache) fetch(ctx context.Context, key Key, fn func(ctx context.Context) (any, error)) (any, error) {
	canonical := key.canonical()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.mu.Lock()
		e := c.entryLocked(canonical)
		if e.loaded && !e.stale {
			data := e.data
			c.mu.Unlock()
			return data, nil
		}
		gen := e.gen
		c.mu.Unlock()

		flightKey := fmt.Sprintf("%s\x00%d", canonical, gen)
		fl, leave := c.joinFlight(flightKey, ctx)
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				leave()
			case <-done:
			}
		}()

		data, err, _ := c.group.Do(flightKey, func() (any, error) {
			data, err := fn(fl.ctx)

			c.mu.Lock()
			defer c.mu.Unlock()
			e := c.entryLocked(canonical)
			if e.gen != gen {
				// Invalidated while in flight; the result predates the write
				// and must not touch the entry.
				return data, err
			}
			if err != nil {
				// Failed reads keep the last-known payload; only the error
				// slot changes.
				e.err = err
				return nil, err
			}
			e.data = data
			e.err = nil
			e.loaded = true
			e.stale = false
			return data, nil
		})
		close(done)
		leave()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		fresh := c.entryLocked(canonical).gen == gen
		c.mu.Unlock()
		if fresh {
			return data, nil
		}
	}
}

// joinFlight registers a caller with the shared request for flightKey,
// creating it on first join. The returned leave function is idempotent and
// cancels the flight only when the last caller has left.
func (c *Cache) joinFlight(flightKey string, ctx context.Context) (*flight, func()) {
	c.mu.Lock()
	fl, ok := c.flights[flightKey]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		fl = &flight{ctx: fctx, cancel: cancel}
		c.flights[flightKey] = fl
	}
	fl.waiters++
	c.mu.Unlock()

	var once sync.Once
	leave := func() {
		once.Do(func() {
			c.mu.Lock()
			fl.waiters--
			last := fl.waiters == 0
			if last && c.flights[flightKey] == fl {
				delete(c.flights, flightKey)
			}
			c.mu.Unlock()
			if last {
				fl.cancel()
				c.group.Forget(flightKey)
			}
		})
	}
	return fl, leave
}

// Lookup returns the cached payload for key and whether a fresh one exists.
func (c *Cache) Lookup(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.canonical()]
	if !ok || !e.loaded || e.stale {
		return nil, false
	}
	return e.data, true
}

// Invalidate marks every entry matching any of keys (by prefix) stale,
// advances its generation so in-flight reads cannot mask the write, and
// notifies its subscribers so active queries refetch. Safe to call from
// mutation success handlers concurrently.
func (c *Cache) Invalidate(keys ...Key) {
	var notify []func()

	c.mu.Lock()
	for canonical, e := range c.entries {
		entryKey := keyFromCanonical(canonical)
		for _, key := range keys {
			if !entryKey.HasPrefix(key) {
				continue
			}
			e.stale = true
			e.gen++
			for _, sub := range e.subs {
				notify = append(notify, sub)
			}
			break
		}
	}
	c.mu.Unlock()

	// Subscribers run outside the lock; they re-enter the cache to refetch.
	for _, sub := range notify {
		sub()
	}
}

// markStale marks a single key stale without notifying subscribers. Used by
// explicit refetches, which bypass freshness for their own key only.
func (c *Cache) markStale(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key.canonical()]; ok {
		e.stale = true
		e.gen++
	}
}

// subscribe registers fn to run when key is invalidated. The returned
// function removes the subscription.
func (c *Cache) subscribe(key Key, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key.canonical())
	id := c.nextSub
	c.nextSub++
	e.subs[id] = fn

	canonical := key.canonical()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if e, ok := c.entries[canonical]; ok {
			delete(e.subs, id)
		}
	}
}

// Clear drops every entry and subscription. Used on logout so the next
// session never sees the previous session's data.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}
