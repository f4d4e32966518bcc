package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions. All search failures are local
// and recoverable; none are fatal to the session.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInputRejected indicates a search invocation with an empty query,
	// no department, and no active filters. No fetch is performed.
	ErrInputRejected = errors.New("input rejected")

	// ErrEmptyResult indicates the pipeline ran successfully but produced
	// zero researchers and zero publications. Not a fault.
	ErrEmptyResult = errors.New("empty result")

	// ErrFetchFailure indicates the bulk data read or identity lookup
	// failed. Previously cached results are left untouched.
	ErrFetchFailure = errors.New("fetch failure")

	// ErrNavigationRejected indicates a profile navigation request without
	// a usable scholar identifier.
	ErrNavigationRejected = errors.New("navigation rejected")
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a not found entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// FetchError provides details about a failed bulk data read.
type FetchError struct {
	Collection string
	Cause      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Collection, e.Cause)
}

// Unwrap returns the sentinel so callers can test errors.Is(err, ErrFetchFailure).
func (e *FetchError) Unwrap() error {
	return ErrFetchFailure
}

// CauseErr returns the underlying storage error.
func (e *FetchError) CauseErr() error {
	return e.Cause
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewFetchError creates a new FetchError for the given collection.
func NewFetchError(collection string, cause error) *FetchError {
	return &FetchError{
		Collection: collection,
		Cause:      cause,
	}
}
