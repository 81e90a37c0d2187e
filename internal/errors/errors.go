// Package errors provides error handling for gematria.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping and user hints from a single import, and defines the sentinel
// errors shared across the repository.
//
// Usage:
//
//	if err := repo.Save(c); err != nil {
//	    return errors.Wrap(err, "saving cipher")
//	}
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle missing record
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	WithStack = crdb.WithStack
)

// User-facing messages
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Error inspection
var (
	Is        = crdb.Is
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors. Wrap them to add context while keeping errors.Is working.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = New("not found")

	// ErrInvalidArgument indicates a malformed input, such as an unsupported
	// calculation method.
	ErrInvalidArgument = New("invalid argument")

	// ErrConflict indicates a uniqueness violation (e.g. duplicate tag name).
	ErrConflict = New("conflict")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// InvalidArgumentf wraps ErrInvalidArgument with a formatted message.
func InvalidArgumentf(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidArgument, format, args...)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...interface{}) error {
	return Wrapf(ErrConflict, format, args...)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidArgument reports whether err is or wraps ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return err != nil && Is(err, ErrInvalidArgument)
}

// IsConflict reports whether err is or wraps ErrConflict.
func IsConflict(err error) bool {
	return err != nil && Is(err, ErrConflict)
}
