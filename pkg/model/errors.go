package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when an entity lookup by identifier fails.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is matched by every ValidationErrors value.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationErrors maps a payload field name to the problem found with it.
// A nil or empty map means the payload is valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalidInput) match any validation failure.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Field returns the message recorded for field, if any.
func (v ValidationErrors) Field(field string) string {
	return v[field]
}

func (v ValidationErrors) add(field, msg string) {
	if _, exists := v[field]; !exists {
		v[field] = msg
	}
}

// orNil collapses an empty set into a nil error so callers can return it directly.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Ptr returns a pointer to v. Handy for building optional-field inputs.
func Ptr[T any](v T) *T {
	return &v
}
