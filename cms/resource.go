// Package cms provides the typed resource clients of the hospital CMS.
// Every resource screen follows the same shape (paginated list, detail
// form, create/update/delete with cache invalidation), so the package is a
// thin typed layer over the generic query and mutation machinery.
package cms

import (
	"context"

	"github.com/pkg/errors"

	"github.com/samir7888/hospital-cms-client/api"
	"github.com/samir7888/hospital-cms-client/query"
)

// Resource is a typed CRUD client for one collection endpoint. name is the
// path segment and the leading cache-key segment, so invalidating
// [name] reaches every list page and detail entry of the resource.
type Resource[T any] struct {
	name   string
	client *api.Client
	cache  *query.Cache
}

// NewResource creates a resource client for /name.
func NewResource[T any](client *api.Client, cache *query.Cache, name string) *Resource[T] {
	return &Resource[T]{name: name, client: client, cache: cache}
}

// Name returns the resource's path segment.
func (r *Resource[T]) Name() string {
	return r.name
}

func (r *Resource[T]) path() string {
	return "/" + r.name
}

// InvalidationKey is the prefix key covering all cached reads of this
// resource.
func (r *Resource[T]) InvalidationKey() query.Key {
	return query.NewKey(r.name)
}

// ListQuery returns a live list query for params. The key embeds the
// encoded query string, so distinct pages and searches never collide and
// structurally identical ones dedupe. Callers own the returned query and
// must Close it.
func (r *Resource[T]) ListQuery(params ListParams) *query.Query[Page[T]] {
	key := query.NewKey(r.name, params.encode())
	return query.NewQuery[Page[T]](r.client, r.cache, key, r.path(), query.WithParams[Page[T]](params))
}

// List fetches one page of the collection.
func (r *Resource[T]) List(ctx context.Context, params ListParams) (*Page[T], error) {
	q := r.ListQuery(params)
	defer q.Close()

	page, err := q.Fetch(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "[Resource.List] %s", r.name)
	}
	return page, nil
}

// DetailQuery returns a live detail query for id. An empty id yields a
// disabled query with an empty URL; the "create new" form reusing the edit
// screen never fetches.
func (r *Resource[T]) DetailQuery(id string) *query.Query[T] {
	if id == "" {
		return query.NewQuery[T](r.client, r.cache, query.NewKey(r.name, "new"), "", query.WithEnabled[T](false))
	}
	key := query.NewKey(r.name, id)
	return query.NewQuery[T](r.client, r.cache, key, r.path()+"/"+id)
}

// Get fetches a single record.
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, errors.Errorf("[Resource.Get] %s: id is required", r.name)
	}
	q := r.DetailQuery(id)
	defer q.Close()

	record, err := q.Fetch(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "[Resource.Get] %s/%s", r.name, id)
	}
	return record, nil
}

// CreateMutation builds a POST mutation that invalidates the resource on
// success. Screens needing form binding or side effects pass options.
func (r *Resource[T]) CreateMutation(options ...query.MutationOption[T, T]) (*query.Mutation[T, T], error) {
	options = append([]query.MutationOption[T, T]{
		query.WithInvalidates[T, T](r.InvalidationKey()),
	}, options...)
	return query.NewMutation[T, T](r.client, r.cache, query.MethodPost, r.path(), options...)
}

// UpdateMutation builds a PATCH mutation targeting /name/{id}.
func (r *Resource[T]) UpdateMutation(options ...query.MutationOption[T, T]) (*query.Mutation[T, T], error) {
	options = append([]query.MutationOption[T, T]{
		query.WithInvalidates[T, T](r.InvalidationKey()),
	}, options...)
	return query.NewMutation[T, T](r.client, r.cache, query.MethodPatch, r.path(), options...)
}

// DeleteMutation builds a DELETE mutation targeting /name/{id}.
func (r *Resource[T]) DeleteMutation(options ...query.MutationOption[struct{}, struct{}]) (*query.Mutation[struct{}, struct{}], error) {
	options = append([]query.MutationOption[struct{}, struct{}]{
		query.WithInvalidates[struct{}, struct{}](r.InvalidationKey()),
	}, options...)
	return query.NewMutation[struct{}, struct{}](r.client, r.cache, query.MethodDelete, r.path(), options...)
}

// Create posts a new record and invalidates cached reads of the resource.
func (r *Resource[T]) Create(ctx context.Context, record T) (*T, error) {
	m, err := r.CreateMutation()
	if err != nil {
		return nil, err
	}
	created, err := m.Do(ctx, "", &record)
	if err != nil {
		return nil, errors.Wrapf(err, "[Resource.Create] %s", r.name)
	}
	return created, nil
}

// Update patches an existing record.
func (r *Resource[T]) Update(ctx context.Context, id string, record T) (*T, error) {
	if id == "" {
		return nil, errors.Errorf("[Resource.Update] %s: id is required", r.name)
	}
	m, err := r.UpdateMutation()
	if err != nil {
		return nil, err
	}
	updated, err := m.Do(ctx, id, &record)
	if err != nil {
		return nil, errors.Wrapf(err, "[Resource.Update] %s/%s", r.name, id)
	}
	return updated, nil
}

// Delete removes a record.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.Errorf("[Resource.Delete] %s: id is required", r.name)
	}
	m, err := r.DeleteMutation()
	if err != nil {
		return err
	}
	if _, err := m.Do(ctx, id, nil); err != nil {
		return errors.Wrapf(err, "[Resource.Delete] %s/%s", r.name, id)
	}
	return nil
}
