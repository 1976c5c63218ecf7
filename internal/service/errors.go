package service

import (
	"errors"
	"fmt"

	"freemusic/internal/repository"
)

var (
	// ErrInvalidCredentials indicates an unknown login or a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateLogin is returned when signing up with a taken login.
	ErrDuplicateLogin = errors.New("login already taken")
	// ErrPermissionDenied is returned when a mutator is called without an
	// admin session.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound is returned when a single-entity lookup has no match.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a rejected input field before any write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// StoreError wraps an unexpected persistence failure, preserving the
// underlying message for diagnostics.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// translateStore maps repository sentinels to façade error kinds and wraps
// everything else as a StoreError.
func translateStore(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return &StoreError{Op: op, Err: err}
	}
}
