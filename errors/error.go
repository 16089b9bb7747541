package errors

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Adapted from bfix-gospel/errors (AGPL-3.0-or-later), Copyright (C)
// 2011-2023 Bernd Fix.
//----------------------------------------------------------------------

import "fmt"

// Sentinel base error kinds. Callers compare with errors.Is, never by string.
var (
	// ErrCryptography flags a malformed or invalid key/signature.
	ErrCryptography = fmt.Errorf("cryptography error")
	// ErrValidation flags a failed envelope check.
	ErrValidation = fmt.Errorf("validation error")
	// ErrAsJSON flags a missing field, bad type, bad base64, or version mismatch.
	ErrAsJSON = fmt.Errorf("malformed json body")
	// ErrIO flags a filesystem failure.
	ErrIO = fmt.Errorf("io error")
	// ErrSerialize flags a JSON marshal/unmarshal failure.
	ErrSerialize = fmt.Errorf("serialize error")
	// ErrMiddleware flags a transport-level failure.
	ErrMiddleware = fmt.Errorf("middleware error")
	// ErrServer flags a driver-level failure surfaced as a verb's ServerError status.
	ErrServer = fmt.Errorf("server error")
	// ErrInvalidSeed flags a proof_seed that does not decode as a uint64.
	ErrInvalidSeed = fmt.Errorf("invalid proof seed")
	// ErrInvalidStandard flags an on-disk blob with an unsupported version byte.
	ErrInvalidStandard = fmt.Errorf("invalid standard version")
	// ErrNotFound flags a traversal that exhausted its hop budget or hint graph.
	ErrNotFound = fmt.Errorf("not found")
)

// Error wraps a base error (for errors.Is/errors.As) together with a
// free-form context string describing where it occurred.
type Error struct {
	Err error  // base error kind
	Ctx string // error context
}

// Unwrap returns the base error kind.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error returns a human-readable error description.
func (e *Error) Error() string {
	return e.Err.Error() + " [" + e.Ctx + "]"
}

// New creates a new Error wrapping a base kind with formatted context.
func New(err error, format string, args ...interface{}) *Error {
	return &Error{
		Err: err,
		Ctx: fmt.Sprintf(format, args...),
	}
}
