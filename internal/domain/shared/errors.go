// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
// All of them are synchronous, user-facing, and non-retryable: a failed write
// leaves the store untouched and the caller must correct the input.
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFutureDate      = errors.New("date cannot be in the future")
	ErrDateOrder       = errors.New("end date must not precede start date")
	ErrTimeOrder       = errors.New("end time must be after start time")
	ErrInvalidFormat   = errors.New("invalid format")

	// Cross-record errors
	ErrConflict  = errors.New("conflict with an existing record")
	ErrDuplicate = errors.New("duplicate record")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "schedule", "attendance"
	Op      string // Operation that failed, e.g., "Create", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// ConflictError is a specialization of a validation failure raised when a
// proposed timetable slot overlaps an existing active slot. It identifies
// which party - a class or a teacher - owns the conflicting slot.
type ConflictError struct {
	// Party is "class" or "teacher".
	Party string

	// PartyID is the identifier of the conflicting class or teacher.
	PartyID string

	// ConflictingID is the identifier of the schedule entry already
	// occupying the slot.
	ConflictingID string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict detected for %s %s (overlaps schedule %s)", e.Party, e.PartyID, e.ConflictingID)
}

// Is makes ConflictError match both ErrConflict and ErrValidation.
func (e *ConflictError) Is(target error) bool {
	return errors.Is(ErrConflict, target) || errors.Is(ErrValidation, target)
}

// NewClassConflict creates a conflict error for a class slot overlap.
func NewClassConflict(classID, conflictingID string) *ConflictError {
	return &ConflictError{Party: "class", PartyID: classID, ConflictingID: conflictingID}
}

// NewTeacherConflict creates a conflict error for a teacher slot overlap.
func NewTeacherConflict(teacherID, conflictingID string) *ConflictError {
	return &ConflictError{Party: "teacher", PartyID: teacherID, ConflictingID: conflictingID}
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsConflict checks if the error is a schedule conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if the error is any kind of validation failure.
// Conflicts and duplicates count: they reject a write the same way.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrFutureDate) ||
		errors.Is(err, ErrDateOrder) ||
		errors.Is(err, ErrTimeOrder) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrDuplicate)
}
