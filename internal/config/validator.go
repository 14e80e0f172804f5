package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	oerrors "github.com/tailcfg/cli/internal/errors"
)

// ValidationError is one invalid settings field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		fmt.Fprintf(&sb, "  %s: %s\n", err.Field, err.Message)
	}
	return sb.String()
}

// Unwrap lets errors.Is match ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validator checks Settings against their struct tags and the filesystem.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a validator that reports fields by their YAML path.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Validate checks s. Relative fragment paths are checked for existence
// against baseDir.
func (val *Validator) Validate(s *Settings, baseDir string) error {
	var errs ValidationErrors

	if err := val.v.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating settings: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{Field: fieldPath(fe), Message: message(fe)})
		}
	}

	for i, p := range s.FragmentPaths(baseDir) {
		if strings.TrimSpace(s.Fragments[i]) == "" {
			continue
		}
		ok, err := FileExists(p)
		if err != nil {
			return fmt.Errorf("checking fragment %s: %w", p, err)
		}
		if !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("fragments[%d]", i),
				Message: fmt.Sprintf("file %s does not exist", p),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateFile loads the settings file at path and validates its content
// without environment or flag overrides.
func (val *Validator) ValidateFile(path string) error {
	src, err := NewLoader().Load(path)
	if err != nil {
		return err
	}
	s, err := src.FileSettings()
	if err != nil {
		return err
	}
	return val.Validate(s, src.Dir())
}

// fieldPath turns "Settings.output.format" into "output.format".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "excludesall":
		return fmt.Sprintf("must not contain any of %q", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
