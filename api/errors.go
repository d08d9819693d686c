package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/samir7888/hospital-cms-client/internal/errors"
)

// Error is the decoded failure payload of a non-2xx API response.
// Message carries the human-readable description from the server; Fields
// carries field-level validation messages keyed by form field name when the
// server returned them.
type Error struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// Is maps HTTP status classes onto the shared sentinel errors so callers can
// use errors.Is without inspecting status codes.
func (e *Error) Is(target error) bool {
	switch target {
	case apperrors.ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case apperrors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case apperrors.ErrConflict:
		return e.StatusCode == http.StatusConflict
	case apperrors.ErrServerError:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// wirePayload is the error body shape produced by the CMS API. "message" can
// be a plain string or an array of strings; "errors" is a field -> message
// object present on validation failures.
type wirePayload struct {
	StatusCode int               `json:"statusCode"`
	Message    json.RawMessage   `json:"message"`
	ErrorText  string            `json:"error"`
	Errors     map[string]string `json:"errors"`
}

// decodeError builds an *Error from a non-2xx response body. An undecodable
// body still yields a usable error carrying the status code.
func decodeError(statusCode int, body []byte) *Error {
	apiErr := &Error{StatusCode: statusCode}

	var payload wirePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	apiErr.Message = decodeMessage(payload.Message)
	if apiErr.Message == "" {
		apiErr.Message = payload.ErrorText
	}
	if len(payload.Errors) > 0 {
		apiErr.Fields = payload.Errors
	}
	return apiErr
}

func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, "; ")
	}

	return ""
}
