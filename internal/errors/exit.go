package errors

import "errors"

// Exit codes returned by the tailcfg binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitMalformedFragment indicates a fragment or settings file failed validation.
	ExitMalformedFragment = 2

	// ExitConflictingScalar indicates a strict-mode scalar conflict.
	ExitConflictingScalar = 3

	// ExitNotFound indicates a fragment or file was not found.
	ExitNotFound = 5

	// ExitDrift indicates the generated configuration is out of date.
	ExitDrift = 7
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed reports whether the command already reported the error to the user.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ExitCodeName(e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrMalformedFragment), errors.Is(err, ErrValidation):
		return ExitMalformedFragment
	case errors.Is(err, ErrConflictingScalar):
		return ExitConflictingScalar
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrDrift):
		return ExitDrift
	default:
		return ExitGeneralError
	}
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitMalformedFragment:
		return "Malformed Fragment"
	case ExitConflictingScalar:
		return "Conflicting Scalar"
	case ExitNotFound:
		return "Not Found"
	case ExitDrift:
		return "Drift Detected"
	default:
		return "Unknown"
	}
}
