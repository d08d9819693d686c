package session

import (
	"context"
	"sync"
	"sync/atomic"
)

// Gate is the silent refresh gate. On Start it exchanges the http-only
// refresh cookie for a fresh access token, exactly once, and becomes ready
// when the exchange settles, success or failure. Protected UI waits on the
// gate before mounting, so no authenticated request ever races the refresh:
// either it fires with the refreshed token, or the session is empty and the
// route guard redirects to login.
//
// A failed refresh never blocks the application; it only leaves the store's
// token empty.
type Gate struct {
	store *Store

	once    sync.Once
	ready   chan struct{}
	settled atomic.Bool
}

// NewGate creates a gate writing into store.
func NewGate(store *Store) *Gate {
	return &Gate{
		store: store,
		ready: make(chan struct{}),
	}
}

// Start launches the refresh exchange in the background. Subsequent calls
// are no-ops.
func (g *Gate) Start(ctx context.Context) {
	g.once.Do(func() {
		go g.refresh(ctx)
	})
}

func (g *Gate) refresh(ctx context.Context) {
	defer func() {
		g.settled.Store(true)
		close(g.ready)
	}()

	// Credentialed POST with no body; the cookie jar carries the refresh
	// cookie. Failure is deliberate silence: the guard handles the redirect.
	var resp tokenResponse
	if err := g.store.client.Post(ctx, "/auth/refresh", nil, &resp); err != nil {
		return
	}
	if resp.AccessToken != "" {
		// Written before ready closes, so waiters always observe the
		// post-refresh session state.
		g.store.SetAccessToken(resp.AccessToken)
	}
}

// Ready is closed once the refresh exchange has settled.
func (g *Gate) Ready() <-chan struct{} {
	return g.ready
}

// Settled reports whether the exchange has completed.
func (g *Gate) Settled() bool {
	return g.settled.Load()
}

// Wait blocks until the gate is ready or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
