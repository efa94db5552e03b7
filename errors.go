package modelkit

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("modelkit: entity not found")

	// ErrUnknownAssociation is returned when an association name does not
	// resolve on an entity type.
	ErrUnknownAssociation = errors.New("modelkit: unknown association")

	// ErrNoAutoIncrement is returned when a table exposes no auto-increment
	// metadata to read the next id from.
	ErrNoAutoIncrement = errors.New("modelkit: no auto-increment metadata")
)

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	label string
	id    any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("modelkit: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("modelkit: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the ID that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given entity type.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the ID that was searched for.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// UnknownAssociationError is returned by stores when the association
// name does not exist on the source entity type.
type UnknownAssociationError struct {
	Type string // Source entity type.
	Name string // Requested association.
}

// Error returns the error string.
func (e *UnknownAssociationError) Error() string {
	return fmt.Sprintf("modelkit: %s has no association %q", e.Type, e.Name)
}

// Is reports whether the target error matches UnknownAssociationError.
func (e *UnknownAssociationError) Is(err error) bool {
	return err == ErrUnknownAssociation
}

// NewUnknownAssociationError returns a new UnknownAssociationError.
func NewUnknownAssociationError(typ, name string) *UnknownAssociationError {
	return &UnknownAssociationError{Type: typ, Name: name}
}

// IsUnknownAssociation returns true if the error is an UnknownAssociationError.
func IsUnknownAssociation(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownAssociationError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownAssociation)
}

// NoAutoIncrementError is returned when the next auto-increment id of a
// table cannot be read.
type NoAutoIncrementError struct {
	Table string
}

// Error returns the error string.
func (e *NoAutoIncrementError) Error() string {
	return fmt.Sprintf("modelkit: unable to retrieve next auto-increment id for table %q", e.Table)
}

// Is reports whether the target error matches NoAutoIncrementError.
func (e *NoAutoIncrementError) Is(err error) bool {
	return err == ErrNoAutoIncrement
}

// IsNoAutoIncrement returns true if the error is a NoAutoIncrementError.
func IsNoAutoIncrement(err error) bool {
	if err == nil {
		return false
	}
	var e *NoAutoIncrementError
	return errors.As(err, &e) || errors.Is(err, ErrNoAutoIncrement)
}

// QueryError wraps a query error with additional context.
type QueryError struct {
	Entity string // Entity type or table being queried
	Op     string // Operation (e.g., "find", "columns", "next-id")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("modelkit: querying %s (%s): %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("modelkit: querying %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(entity, op string, err error) *QueryError {
	return &QueryError{Entity: entity, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}
