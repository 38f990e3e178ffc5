// Package errors provides error handling for condkit.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap a sentinel with context
//	return errors.Wrapf(errors.ErrNilArgument, "no attribute type given")
//
//	// Check errors
//	if errors.Is(err, errors.ErrCycleDetected) {
//	    // refuse to traverse
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors shared by the condkit packages.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNilArgument indicates a required argument (name, type, next node) was missing
	ErrNilArgument = New("required argument missing")

	// ErrArityMismatch indicates an operator does not fit the shape of a condition
	ErrArityMismatch = New("operator arity mismatch")

	// ErrTypeMismatch indicates a value is not an instance of the declared attribute type
	ErrTypeMismatch = New("value type mismatch")

	// ErrCycleDetected indicates a tree contains a back-reference
	ErrCycleDetected = New("cycle detected")

	// ErrValidation indicates a tree failed semantic validation
	ErrValidation = New("validation failed")

	// ErrMissingParameter indicates a mandatory query parameter was not supplied
	ErrMissingParameter = New("missing mandatory parameter")

	// ErrInvalidDocument indicates a filter document could not be decoded
	ErrInvalidDocument = New("invalid filter document")
)

// IsConstructionError reports whether err stems from building an invalid node.
func IsConstructionError(err error) bool {
	return err != nil && IsAny(err, ErrNilArgument, ErrArityMismatch, ErrTypeMismatch)
}
