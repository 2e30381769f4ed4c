package domain

import "fmt"

// ValidationError indicates malformed or semantically invalid input.
// It is always surfaced to the caller and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ConflictError indicates that the requested change collides with existing
// state, such as an overlapping booking for the same vehicle.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a ConflictError with the given message.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// NotFoundError indicates that a referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource and identifier.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError indicates a role or ownership violation.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NewForbiddenError creates a ForbiddenError with the given message.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// UnauthorizedError indicates a missing or invalid credential.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// NewUnauthorizedError creates an UnauthorizedError with the given message.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// InvalidStateError indicates an illegal lifecycle transition.
type InvalidStateError struct {
	From string
	To   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// NewInvalidStateError creates an InvalidStateError for the attempted transition.
func NewInvalidStateError(from, to string) *InvalidStateError {
	return &InvalidStateError{From: from, To: to}
}
