//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	assert.NotEqual(t, ErrMalformedFragment, ErrConflictingScalar)
	assert.NotEqual(t, ErrMalformedFragment, ErrNotFound)
	assert.NotEqual(t, ErrValidation, ErrDrift)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "malformed fragment",
		Message:  "content must be a list of strings",
		Location: "tailwind.print.yaml",
		Field:    "content",
		Context:  map[string]string{"Format": "yaml", "Index": "1"},
		Hint:     "Use a YAML sequence",
	}

	out := detail.Error()

	assert.Contains(t, out, "Error: malformed fragment")
	assert.Contains(t, out, "Location: tailwind.print.yaml")
	assert.Contains(t, out, "Field: content")
	assert.Contains(t, out, "Format: yaml")
	assert.Contains(t, out, "content must be a list of strings")
	assert.Contains(t, out, "Hint: Use a YAML sequence")
	assert.Less(t, strings.Index(out, "Format"), strings.Index(out, "Index"), "context keys are sorted")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{Type: "test", Message: "m", Cause: ErrMalformedFragment}

	assert.True(t, errors.Is(detail, ErrMalformedFragment))
	assert.Equal(t, ErrMalformedFragment, detail.Unwrap())
}

func TestNewMalformedFragmentError(t *testing.T) {
	err := NewMalformedFragmentError("bad glob", "base.yaml", "content[0]", "check brackets")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFragment))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "malformed fragment", detail.Type)
	assert.Equal(t, "content[0]", detail.Field)
	assert.Equal(t, "base.yaml", detail.Location)
}

func TestNewConflictingScalarError(t *testing.T) {
	err := NewConflictingScalarError("mode", map[string]string{"a.yaml": "jit", "b.yaml": "all"})

	assert.True(t, errors.Is(err, ErrConflictingScalar))
	assert.Contains(t, err.Error(), "mode")
	assert.Contains(t, err.Error(), "a.yaml: jit")
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "fragment missing")

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Contains(t, wrapped.Error(), "fragment missing")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"malformed", fmt.Errorf("loading: %w", ErrMalformedFragment), ExitMalformedFragment},
		{"settings validation", ErrValidation, ExitMalformedFragment},
		{"conflict", NewConflictingScalarError("mode", nil), ExitConflictingScalar},
		{"not found", NewNotFoundError("missing", "x.yaml", ""), ExitNotFound},
		{"drift", ErrDrift, ExitDrift},
		{"explicit exit error", NewExitError(ErrMalformedFragment, ExitGeneralError), ExitGeneralError},
		{"unknown", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Success", ExitCodeName(ExitSuccess))
	assert.Equal(t, "Malformed Fragment", ExitCodeName(ExitMalformedFragment))
	assert.Equal(t, "Drift Detected", ExitCodeName(ExitDrift))
	assert.Equal(t, "Unknown", ExitCodeName(42))
}
