package cms

import (
	"context"

	"github.com/pkg/errors"

	"github.com/samir7888/hospital-cms-client/api"
	"github.com/samir7888/hospital-cms-client/query"
)

// Singleton is a typed client for a one-per-site record (company info,
// page hero content): no list, no delete, edited in place.
type Singleton[T any] struct {
	name   string
	client *api.Client
	cache  *query.Cache
}

// NewSingleton creates a singleton client for /name.
func NewSingleton[T any](client *api.Client, cache *query.Cache, name string) *Singleton[T] {
	return &Singleton[T]{name: name, client: client, cache: cache}
}

func (s *Singleton[T]) path() string {
	return "/" + s.name
}

// Query returns a live query over the record. Callers own it and must
// Close it.
func (s *Singleton[T]) Query() *query.Query[T] {
	return query.NewQuery[T](s.client, s.cache, query.NewKey(s.name), s.path())
}

// Get fetches the record.
func (s *Singleton[T]) Get(ctx context.Context) (*T, error) {
	q := s.Query()
	defer q.Close()

	record, err := q.Fetch(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "[Singleton.Get] %s", s.name)
	}
	return record, nil
}

// UpdateMutation builds the PATCH mutation for the record.
func (s *Singleton[T]) UpdateMutation(options ...query.MutationOption[T, T]) (*query.Mutation[T, T], error) {
	options = append([]query.MutationOption[T, T]{
		query.WithInvalidates[T, T](query.NewKey(s.name)),
	}, options...)
	return query.NewMutation[T, T](s.client, s.cache, query.MethodPatch, s.path(), options...)
}

// Update patches the record in place.
func (s *Singleton[T]) Update(ctx context.Context, record T) (*T, error) {
	m, err := s.UpdateMutation()
	if err != nil {
		return nil, err
	}
	updated, err := m.Do(ctx, "", &record)
	if err != nil {
		return nil, errors.Wrapf(err, "[Singleton.Update] %s", s.name)
	}
	return updated, nil
}
