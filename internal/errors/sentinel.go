package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrMalformedFragment indicates a fragment with a missing or wrong-typed field.
	ErrMalformedFragment = errors.New("malformed fragment")

	// ErrConflictingScalar indicates two fragments set a scalar to different values
	// while strict mode is enabled.
	ErrConflictingScalar = errors.New("conflicting scalar")

	// ErrValidation indicates an invalid tailcfg settings file.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a fragment, settings file, or output file was not found.
	ErrNotFound = errors.New("not found")

	// ErrDrift indicates a generated configuration differs from the current resolution.
	ErrDrift = errors.New("configuration drift")
)
