package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNotAuthenticated is returned when a call carries no account ID.
	ErrNotAuthenticated = errors.New("no authenticated account")

	// ErrAlreadyExists is returned when a unique key is already taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// Error wraps a failed storage operation.
type Error struct {
	// Op is the store operation that failed (e.g. "AddInvoice").
	Op string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err and an *Error otherwise.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// RequireAccount fails with ErrNotAuthenticated for an empty account ID.
func RequireAccount(op, accountID string) error {
	if accountID == "" {
		return &Error{Op: op, Err: ErrNotAuthenticated}
	}
	return nil
}

// IsUnavailable reports whether err is an I/O failure of the store, as
// opposed to a missing record or a missing account.
func IsUnavailable(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNotAuthenticated) && !errors.Is(err, ErrAlreadyExists)
}
