package db

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// ErrCode classifies processor failures.
type ErrCode uint64

const (
	ErrCConnection ErrCode = iota + 1 // transport or auth failure during Connect
	ErrCQuery                         // failure while executing a Query
	ErrCUpdate                        // failure while executing an Update
)

func (c ErrCode) String() string {
	switch c {
	case ErrCConnection:
		return "ConnectionError"
	case ErrCQuery:
		return "QueryError"
	case ErrCUpdate:
		return "UpdateError"
	default:
		return "Unknown"
	}
}

// Error wraps any transport-level failure with the backend label and the
// original cause. Processors never retry internally; callers decide whether
// an error is fatal.
type Error struct {
	Code    ErrCode // the failure class
	Backend string  // backend label, e.g. "SQLite"
	Err     error   // the original cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Code, e.Backend, e.Err)
}

// Unwrap exposes the original cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewConnectionError wraps a connect failure.
func NewConnectionError(backend string, err error) *Error {
	return &Error{Code: ErrCConnection, Backend: backend, Err: err}
}

// NewQueryError wraps a query failure.
func NewQueryError(backend string, err error) *Error {
	return &Error{Code: ErrCQuery, Backend: backend, Err: err}
}

// NewUpdateError wraps an update failure.
func NewUpdateError(backend string, err error) *Error {
	return &Error{Code: ErrCUpdate, Backend: backend, Err: err}
}

// IsConnectionError reports whether err wraps a connect-phase failure.
func IsConnectionError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCConnection
}
