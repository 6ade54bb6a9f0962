package types

import (
	"errors"
	"fmt"
)

// ErrEmptyName is returned when an add or rename is attempted with an
// empty or whitespace-only name. The operation is rejected before it
// reaches the store; nothing is persisted.
var ErrEmptyName = errors.New("name is empty or whitespace-only")

// NotFoundError reports that the target of a delete, rename or toggle no
// longer exists. Callers treat it as a benign no-op.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// StorageError wraps an I/O failure from a persistence backend.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se StorageError
	return errors.As(err, &se)
}
