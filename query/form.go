package query

import "sync"

// FormErrors is the binding target for server-side validation failures:
// field name -> inline message. A form screen supplies one to its mutation
// and renders the messages next to the offending inputs.
type FormErrors struct {
	mu     sync.Mutex
	fields map[string]string
}

// NewFormErrors creates an empty binding.
func NewFormErrors() *FormErrors {
	return &FormErrors{fields: make(map[string]string)}
}

// Set records the message for a field.
func (f *FormErrors) Set(field, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[field] = message
}

// Field returns the message for a field, or "".
func (f *FormErrors) Field(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[field]
}

// All returns a copy of every bound message.
func (f *FormErrors) All() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fields))
	for field, message := range f.fields {
		out[field] = message
	}
	return out
}

// Clear drops every bound message. Called at the start of each submission.
func (f *FormErrors) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = make(map[string]string)
}
