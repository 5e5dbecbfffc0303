package db

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrConstraint matches every *ConstraintError.
	ErrConstraint = errors.New("constraint violation")

	// ErrValidation is reserved for callers rejecting input before it
	// reaches a repository. Repositories never return it.
	ErrValidation = errors.New("validation failed")
)

// StorageError is a connectivity or driver failure. Err carries the
// original driver error and message.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConstraintError is a referential, uniqueness, not-null or check
// violation rejected by the store.
type ConstraintError struct {
	Backend string
	Op      string
	Err     error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s %s: constraint violation: %v", e.Backend, e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrConstraint) match.
func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

// NotFound wraps ErrNotFound with the entity and id that were requested.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// Invalid wraps ErrValidation with a description of the rejected input.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
