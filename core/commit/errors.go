package commit

import (
	"errors"
	"fmt"
)

// Error is returned by every failed commit and names the state it failed in.
type Error struct {
	Stage State
	Err   error
	// Trail lists the states the commit went through, ending in StateFailed.
	Trail []State
}

func (e *Error) Error() string {
	return fmt.Sprintf("commit failed while %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError rejects a request before any side effect.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var (
	// ErrUnauthenticated reports a request without a resolved principal.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden reports a principal acting on a record it does not own.
	ErrForbidden = errors.New("not the owner of this record")
)

// AuthError rejects a request before any side effect. It wraps ErrUnauthenticated or
// ErrForbidden.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "authorization failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// PersistError reports a record store write that failed after the uploads succeeded.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("record %s failed: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
