package query

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/samir7888/hospital-cms-client/api"
)

// ErrMutationPending is returned when Do is called while a previous
// invocation of the same mutation is still in flight. The guard lives here,
// centrally, instead of relying on every call site to disable its submit
// control.
var ErrMutationPending = errors.New("mutation already in flight")

// Method is the HTTP verb a mutation issues.
type Method string

const (
	MethodPost   Method = http.MethodPost
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// Mutation is a one-shot write against a resource path. Exactly one request
// per invocation: no retries, no idempotency key. A mid-flight network
// failure is reported failed even if the server may have applied it.
//
// The target URL always takes the form path or path/{id}; record ids are
// never smuggled through the request body.
type Mutation[In any, Out any] struct {
	client *api.Client
	cache  *Cache

	method      Method
	path        string
	invalidates []Key
	onSuccess   func(*Out)
	onError     func(error)
	form        *FormErrors

	pending atomic.Bool
}

// MutationOption configures a Mutation at construction.
type MutationOption[In any, Out any] func(*Mutation[In, Out])

// WithInvalidates sets the cache keys invalidated after a successful
// mutation so dependent queries refetch.
func WithInvalidates[In any, Out any](keys ...Key) MutationOption[In, Out] {
	return func(m *Mutation[In, Out]) {
		m.invalidates = keys
	}
}

// WithOnSuccess sets the success side effect, invoked with the decoded
// response before invalidation runs.
func WithOnSuccess[In any, Out any](fn func(*Out)) MutationOption[In, Out] {
	return func(m *Mutation[In, Out]) {
		m.onSuccess = fn
	}
}

// WithOnError sets the failure side effect.
func WithOnError[In any, Out any](fn func(error)) MutationOption[In, Out] {
	return func(m *Mutation[In, Out]) {
		m.onError = fn
	}
}

// WithForm binds server validation messages to form for inline display.
func WithForm[In any, Out any](form *FormErrors) MutationOption[In, Out] {
	return func(m *Mutation[In, Out]) {
		m.form = form
	}
}

// NewMutation creates a mutation issuing method requests to path.
func NewMutation[In any, Out any](client *api.Client, cache *Cache, method Method, path string, options ...MutationOption[In, Out]) (*Mutation[In, Out], error) {
	switch method {
	case MethodPost, MethodPatch, MethodDelete:
	default:
		return nil, errors.Errorf("[NewMutation] unsupported method %q", string(method))
	}
	if client == nil {
		return nil, errors.New("[NewMutation] api client is required")
	}
	if cache == nil {
		return nil, errors.New("[NewMutation] cache is required")
	}

	m := &Mutation[In, Out]{
		client: client,
		cache:  cache,
		method: method,
		path:   path,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// IsPending reports whether an invocation is in flight.
func (m *Mutation[In, Out]) IsPending() bool {
	return m.pending.Load()
}

// Do issues the mutation. id, when non-empty, is appended to the path as
// its final segment. body may be nil for verbs without a payload. A second
// Do while one is pending returns ErrMutationPending without a request.
//
// On success: onSuccess runs, then the configured keys are invalidated. On
// failure: field validation messages bind to the form when one was
// supplied, onError runs, and the cache is left untouched.
func (m *Mutation[In, Out]) Do(ctx context.Context, id string, body *In) (*Out, error) {
	if !m.pending.CompareAndSwap(false, true) {
		return nil, ErrMutationPending
	}
	defer m.pending.Store(false)

	if m.form != nil {
		m.form.Clear()
	}

	target := m.path
	if id != "" {
		target = strings.TrimSuffix(m.path, "/") + "/" + url.PathEscape(id)
	}

	out := new(Out)
	var err error
	switch m.method {
	case MethodPost:
		err = m.client.Post(ctx, target, bodyOrNil(body), out)
	case MethodPatch:
		err = m.client.Patch(ctx, target, bodyOrNil(body), out)
	case MethodDelete:
		err = m.client.Delete(ctx, target, out)
	}

	if err != nil {
		m.bindFormErrors(err)
		if m.onError != nil {
			m.onError(err)
		}
		return nil, errors.Wrapf(err, "[Mutation.Do] %s %s", string(m.method), target)
	}

	if m.onSuccess != nil {
		m.onSuccess(out)
	}
	if len(m.invalidates) > 0 {
		m.cache.Invalidate(m.invalidates...)
	}
	return out, nil
}

func (m *Mutation[In, Out]) bindFormErrors(err error) {
	if m.form == nil {
		return
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return
	}
	for field, message := range apiErr.Fields {
		m.form.Set(field, message)
	}
}

// bodyOrNil keeps a nil *In from marshalling as the JSON literal null.
func bodyOrNil[In any](body *In) any {
	if body == nil {
		return nil
	}
	return body
}
