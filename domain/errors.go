package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("job description not found")

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when a payload or generated content does not
// match the content schema.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type GenerationErrorKind string

const (
	// GenerationTransport covers network, auth, quota and non-2xx failures.
	GenerationTransport GenerationErrorKind = "transport"
	// GenerationParse means the provider answered but the text is not a
	// valid JobDescriptionContent.
	GenerationParse GenerationErrorKind = "parse"
)

type GenerationError struct {
	Kind     GenerationErrorKind
	Provider string
	// Raw holds the offending model output for parse failures.
	Raw string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Retryable() bool { return e.Kind == GenerationTransport }

// StorageError wraps a failed storage operation. Op names the gateway call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
