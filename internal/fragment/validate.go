package fragment

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	oerrors "github.com/tailcfg/cli/internal/errors"
)

// Label returns the fragment name, or a positional label when it has none.
func (f Fragment) Label(index int) string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("fragment[%d]", index)
}

// Validate checks the fragment against the schema constraints that Go types
// cannot express. It returns a MalformedFragment error for the first violation.
func (f Fragment) Validate() error {
	loc := f.Name

	if f.Mode != "" && !slices.Contains(Modes(), f.Mode) {
		return oerrors.NewMalformedFragmentError(
			fmt.Sprintf("unknown mode %q", f.Mode), loc, "mode",
			"Use one of: "+strings.Join(Modes(), ", "))
	}

	if f.DarkMode != "" && !slices.Contains(DarkModes(), f.DarkMode) {
		return oerrors.NewMalformedFragmentError(
			fmt.Sprintf("unknown darkMode %q", f.DarkMode), loc, "darkMode",
			"Use one of: "+strings.Join(DarkModes(), ", "))
	}

	for i, glob := range f.Content {
		if err := ValidateGlob(glob); err != nil {
			return oerrors.NewMalformedFragmentError(err.Error(), loc, fmt.Sprintf("content[%d]", i),
				"Content entries are doublestar globs such as ./src/**/*.{rs,html}")
		}
	}

	for i, class := range f.Safelist {
		if strings.TrimSpace(class) == "" || strings.ContainsAny(class, " \t\n") {
			return oerrors.NewMalformedFragmentError(
				fmt.Sprintf("safelist entry %q is not a single class name", class), loc,
				fmt.Sprintf("safelist[%d]", i), "")
		}
	}

	for i, plugin := range f.Plugins {
		if strings.TrimSpace(plugin) == "" {
			return oerrors.NewMalformedFragmentError("plugin identifier is empty", loc,
				fmt.Sprintf("plugins[%d]", i), "")
		}
	}

	if err := validateCategories(f.Theme.Categories, "theme", loc); err != nil {
		return err
	}
	return validateCategories(f.Theme.Extend, "theme."+ExtendKey, loc)
}

func validateCategories(categories map[string]map[string]any, prefix, loc string) error {
	for _, name := range SortedKeys(categories) {
		field := prefix + "." + name
		if name == "" {
			return oerrors.NewMalformedFragmentError("theme category name is empty", loc, prefix, "")
		}
		if name == ExtendKey {
			return oerrors.NewMalformedFragmentError("extend is not a theme category", loc, field,
				"Put extensions under theme.extend, one level deep")
		}
		tokens := categories[name]
		if tokens == nil {
			return oerrors.NewMalformedFragmentError("theme category must be a mapping", loc, field, "")
		}
		if err := validateTokens(tokens, field); err != nil {
			return oerrors.NewMalformedFragmentError(err.Error(), loc, field, "")
		}
	}
	return nil
}

func validateTokens(tokens map[string]any, path string) error {
	for _, key := range SortedKeys(tokens) {
		if err := validateTokenValue(tokens[key], path+"."+key); err != nil {
			return err
		}
	}
	return nil
}

func validateTokenValue(v any, path string) error {
	switch val := v.(type) {
	case string, bool, float64, float32, int, int64, json.Number:
		return nil
	case []string:
		return nil
	case []any:
		for i, item := range val {
			if err := validateTokenValue(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		return validateTokens(val, path)
	case nil:
		return fmt.Errorf("token %s has no value", path)
	default:
		return fmt.Errorf("token %s has unsupported type %T", path, v)
	}
}

// ValidateGlob checks a content pattern. A leading "!" marks an exclusion and a
// leading "./" is ignored.
func ValidateGlob(glob string) error {
	pattern := NormalizeGlob(glob)
	if pattern == "" {
		return fmt.Errorf("content glob %q is empty", glob)
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("content glob %q is not a valid pattern", glob)
	}
	return nil
}

// NormalizeGlob strips the exclusion marker and a leading "./" from a glob.
func NormalizeGlob(glob string) string {
	pattern := strings.TrimSpace(glob)
	pattern = strings.TrimPrefix(pattern, "!")
	return strings.TrimPrefix(pattern, "./")
}

// IsExclusion reports whether the glob removes matches instead of adding them.
func IsExclusion(glob string) bool {
	return strings.HasPrefix(strings.TrimSpace(glob), "!")
}
