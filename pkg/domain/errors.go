package domain

import "fmt"

// NotFoundError is returned when a referenced entity does not exist or must not be
// visible to the caller.
type NotFoundError struct {
	Entity  string
	ID      string
	Message string
}

// NewNotFoundError creates a NotFoundError for the given entity and identifier.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity:  entity,
		ID:      id,
		Message: fmt.Sprintf("%s with id %s not found", entity, id),
	}
}

// NewNotFoundErrorf creates a NotFoundError carrying a custom message.
func NewNotFoundErrorf(entity, format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError is returned when input or the current state violates a business rule.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

// UnsupportedStateError is returned for an unknown booking state filter.
type UnsupportedStateError struct {
	State string
}

// NewUnsupportedStateError creates an UnsupportedStateError for the given raw value.
func NewUnsupportedStateError(state string) *UnsupportedStateError {
	return &UnsupportedStateError{State: state}
}

// Error keeps the message clients have always received for this case.
func (e *UnsupportedStateError) Error() string { return "Unknown state: UNSUPPORTED_STATUS" }

// ConflictError is returned when a concurrent modification is detected.
type ConflictError struct {
	Message string
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string { return e.Message }

// ForbiddenError is returned when the caller is known but not allowed to act.
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func (e *ForbiddenError) Error() string { return e.Message }

// InvalidStateError is returned for a transition the state machine does not allow.
type InvalidStateError struct {
	From string
	To   string
}

// NewInvalidStateError creates an InvalidStateError.
func NewInvalidStateError(from, to string) *InvalidStateError {
	return &InvalidStateError{From: from, To: to}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}
