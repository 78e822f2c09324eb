package types

import (
	"errors"
	"fmt"
)

// Error kinds shared by every stage. Typed errors below unwrap to these so
// callers can test with errors.Is.
var (
	// ErrNotFound indicates the document store holds no document.
	ErrNotFound = errors.New("document not found")

	// ErrValidation indicates a required document field or argument is missing.
	ErrValidation = errors.New("validation failed")

	// ErrCollaborator indicates an external service call failed.
	ErrCollaborator = errors.New("collaborator failed")

	// ErrConversion indicates image tooling failed on malformed or missing media.
	ErrConversion = errors.New("conversion failed")

	// ErrEncoding indicates video assembly failed mid-render.
	ErrEncoding = errors.New("encoding failed")
)

// ValidationError names the field that was absent or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// CollaboratorError wraps a failure of an external service.
type CollaboratorError struct {
	Service string
	Err     error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }

// Collaborator wraps err as a CollaboratorError for service. nil stays nil.
func Collaborator(service string, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Service: service, Err: err}
}

// ConversionError reports an image that could not be normalized.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// EncodingError keeps the encoder's diagnostic output verbatim.
type EncodingError struct {
	Stderr string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("encode: %v", e.Err)
	}
	return fmt.Sprintf("encode: %v\n%s", e.Err, e.Stderr)
}

func (e *EncodingError) Unwrap() error { return e.Err }

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }
