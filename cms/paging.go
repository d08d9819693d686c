package cms

import (
	querystring "github.com/google/go-querystring/query"
)

// Meta is the pagination cursor state attached to every list response.
// page is 1-indexed; the hasPreviousPage/hasNextPage flags are computed
// server-side and trusted as-is.
type Meta struct {
	Page            int  `json:"page"`
	Take            int  `json:"take"`
	ItemCount       int  `json:"itemCount"`
	PageCount       int  `json:"pageCount"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// Page is the envelope every list endpoint returns.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// ListParams are the query-string parameters accepted by list endpoints.
type ListParams struct {
	Page   int    `url:"page,omitempty"`
	Take   int    `url:"take,omitempty"`
	Search string `url:"search,omitempty"`
}

// encode renders the params in their canonical query-string form. List
// cache keys embed this, so every parameter that affects the response
// participates in key equality.
func (p ListParams) encode() string {
	values, err := querystring.Values(p)
	if err != nil {
		return ""
	}
	return values.Encode()
}
