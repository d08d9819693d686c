package query

import (
	"context"
	"sync"

	"github.com/samir7888/hospital-cms-client/api"
)

// Result is a point-in-time snapshot of a query's state, mirroring what a
// list or detail screen binds to. Data holds the freshest payload available,
// including the previous key's payload while a key change resolves, so
// pagination never flashes back to a loading state.
type Result[T any] struct {
	Data      *T
	IsLoading bool // no payload yet for the bound key and a fetch is running
	IsPending bool // any fetch for this query is in flight
	Err       error
}

// Query is a live, cache-backed read bound to a key and URL. Queries with
// structurally equal keys share one cache entry and one in-flight request.
// A Query subscribes to invalidation of its key and refetches automatically
// while open; Close cancels in-flight work and drops the subscription.
//
// A key must always address one response type: rebinding is for parameter
// changes (page, search), not for pointing at a different resource shape.
type Query[T any] struct {
	client *api.Client
	cache  *Cache

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	key     Key
	url     string
	params  any
	enabled bool
	data    *T
	prev    *T
	err     error
	pending int
	loaded  bool
	unsub   func()
}

// QueryOption configures a Query at construction.
type QueryOption[T any] func(*Query[T])

// WithParams sets the query-string parameters, encoded via url struct tags.
func WithParams[T any](params any) QueryOption[T] {
	return func(q *Query[T]) {
		q.params = params
	}
}

// WithEnabled controls automatic fetching. A disabled query never touches
// the network. Used by "create new" forms reusing an edit screen with no
// record id.
func WithEnabled[T any](enabled bool) QueryOption[T] {
	return func(q *Query[T]) {
		q.enabled = enabled
	}
}

// NewQuery creates a query over cache for key, reading from url.
func NewQuery[T any](client *api.Client, cache *Cache, key Key, url string, options ...QueryOption[T]) *Query[T] {
	ctx, cancel := context.WithCancel(context.Background())
	q := &Query[T]{
		client:  client,
		cache:   cache,
		ctx:     ctx,
		cancel:  cancel,
		key:     key,
		url:     url,
		enabled: true,
	}
	for _, opt := range options {
		opt(q)
	}

	q.unsub = cache.subscribe(key, q.onInvalidate)
	return q
}

// Fetch resolves the query's current key, returning the cached payload when
// fresh and hitting the network otherwise. Errors populate the error slot
// and leave the last-known data in place. The request is cancelled when ctx
// is done or the query is closed, whichever comes first.
func (q *Query[T]) Fetch(ctx context.Context) (*T, error) {
	q.mu.Lock()
	if !q.enabled || q.url == "" {
		data := q.currentLocked()
		q.mu.Unlock()
		return data, nil
	}
	key, url, params := q.key, q.url, q.params
	q.pending++
	q.mu.Unlock()

	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-q.ctx.Done():
			cancel()
		case <-done:
		}
	}()

	value, err := q.cache.fetch(fctx, key, func(fetchCtx context.Context) (any, error) {
		out := new(T)
		if getErr := q.client.Get(fetchCtx, url, params, out); getErr != nil {
			return nil, getErr
		}
		return out, nil
	})

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--

	if !key.Equal(q.key) {
		// The query was rebound while this fetch was in flight; the result
		// belongs to an abandoned key and must not clobber current state.
		if err != nil {
			return nil, err
		}
		return value.(*T), nil
	}

	if err != nil {
		q.err = err
		return q.currentLocked(), err
	}

	data := value.(*T)
	q.data = data
	q.prev = nil
	q.loaded = true
	q.err = nil
	return data, nil
}

// Refetch bypasses freshness for this query's key and reloads it.
func (q *Query[T]) Refetch(ctx context.Context) (*T, error) {
	q.mu.Lock()
	key := q.key
	q.mu.Unlock()

	q.cache.markStale(key)
	return q.Fetch(ctx)
}

// Bind switches the query to a new key/URL/params tuple (pagination, search
// changes). The resolved payload of the old key stays visible through
// Result until the new key resolves.
func (q *Query[T]) Bind(key Key, url string, params any) {
	q.mu.Lock()
	if key.Equal(q.key) {
		q.url = url
		q.params = params
		q.mu.Unlock()
		return
	}

	if current := q.currentLocked(); current != nil {
		q.prev = current
	}
	q.key = key
	q.url = url
	q.params = params
	q.data = nil
	q.loaded = false
	q.err = nil
	oldUnsub := q.unsub
	q.unsub = q.cache.subscribe(key, q.onInvalidate)
	q.mu.Unlock()

	if oldUnsub != nil {
		oldUnsub()
	}
}

// SetEnabled toggles automatic fetching at runtime.
func (q *Query[T]) SetEnabled(enabled bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enabled = enabled
}

// Result returns the current snapshot.
func (q *Query[T]) Result() Result[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	data := q.currentLocked()
	return Result[T]{
		Data:      data,
		IsLoading: data == nil && q.pending > 0,
		IsPending: q.pending > 0,
		Err:       q.err,
	}
}

// Close cancels in-flight work and unsubscribes from invalidation. The
// query must not be used afterwards.
func (q *Query[T]) Close() {
	q.cancel()
	q.mu.Lock()
	unsub := q.unsub
	q.unsub = nil
	q.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (q *Query[T]) currentLocked() *T {
	if q.data != nil {
		return q.data
	}
	return q.prev
}

// onInvalidate refetches in the background when the bound key is
// invalidated. Errors surface through the query's error slot.
func (q *Query[T]) onInvalidate() {
	go func() {
		_, _ = q.Fetch(q.ctx)
	}()
}
