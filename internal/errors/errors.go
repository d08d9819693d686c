package errors

import "errors"

// Common error types for the CMS client
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")

	// Request errors
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServerError  = errors.New("server error")
)
