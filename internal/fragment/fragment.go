// Package fragment defines the configuration fragment model, its schema, and
// loaders for fragment documents.
package fragment

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"
)

// Scan modes accepted in the mode field.
const (
	ModeJIT          = "jit"
	ModeAOT          = "aot"
	ModeAll          = "all"
	ModeLayers       = "layers"
	ModeConservative = "conservative"
)

// Dark mode strategies accepted in the darkMode field.
const (
	DarkModeMedia = "media"
	DarkModeClass = "class"
)

// ExtendKey is the theme key whose categories are merged instead of replaced.
const ExtendKey = "extend"

// Modes returns the accepted scan modes.
func Modes() []string {
	return []string{ModeJIT, ModeAOT, ModeAll, ModeLayers, ModeConservative}
}

// DarkModes returns the accepted dark mode strategies.
func DarkModes() []string {
	return []string{DarkModeMedia, DarkModeClass}
}

// Fragment is one configuration document contributing partial settings to the
// resolved configuration. The resolved configuration uses the same shape.
type Fragment struct {
	// Name labels the fragment in provenance and errors, usually its file path.
	Name string `json:"-" yaml:"-"`

	// Mode is the scan mode, e.g. "all".
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Prefix is prepended to every generated utility class.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Separator splits variants from utility names, ":" by default.
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`

	// DarkMode selects the dark variant strategy.
	DarkMode string `json:"darkMode,omitempty" yaml:"darkMode,omitempty"`

	// Important marks generated utilities !important when set.
	Important *bool `json:"important,omitempty" yaml:"important,omitempty"`

	// Content lists the glob patterns scanned for class usage.
	Content []string `json:"content" yaml:"content"`

	// Theme holds design-token categories and their extensions.
	Theme Theme `json:"theme" yaml:"theme"`

	// Plugins lists plugin identifiers in load order.
	Plugins []string `json:"plugins" yaml:"plugins"`

	// Safelist lists class names kept regardless of detected usage.
	Safelist []string `json:"safelist" yaml:"safelist"`
}

// Theme maps design-token categories to token definitions. Categories set
// directly replace the framework defaults; categories under Extend add to them.
type Theme struct {
	Categories map[string]map[string]any
	Extend     map[string]map[string]any
}

// IsEmpty reports whether the theme declares no categories at all.
func (t Theme) IsEmpty() bool {
	return len(t.Categories) == 0 && len(t.Extend) == 0
}

// MarshalJSON encodes the theme as a single object with an optional "extend" key.
func (t Theme) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.asMap())
}

// MarshalYAML encodes the theme like MarshalJSON.
func (t Theme) MarshalYAML() (any, error) {
	return t.asMap(), nil
}

func (t Theme) asMap() map[string]any {
	out := make(map[string]any, len(t.Categories)+1)
	for name, tokens := range t.Categories {
		out[name] = tokens
	}
	if len(t.Extend) > 0 {
		out[ExtendKey] = t.Extend
	}
	return out
}

// UnmarshalJSON splits the theme object into replaced and extended categories.
func (t *Theme) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("theme must be a mapping: %w", err)
	}

	t.Categories = nil
	t.Extend = nil

	for key, value := range raw {
		if key == ExtendKey {
			var ext map[string]json.RawMessage
			if err := json.Unmarshal(value, &ext); err != nil {
				return fmt.Errorf("theme.extend must be a mapping: %w", err)
			}
			for name, tokens := range ext {
				decoded, err := decodeCategory(tokens)
				if err != nil {
					return fmt.Errorf("theme.extend.%s: %w", name, err)
				}
				if t.Extend == nil {
					t.Extend = make(map[string]map[string]any)
				}
				t.Extend[name] = decoded
			}
			continue
		}

		decoded, err := decodeCategory(value)
		if err != nil {
			return fmt.Errorf("theme.%s: %w", key, err)
		}
		if t.Categories == nil {
			t.Categories = make(map[string]map[string]any)
		}
		t.Categories[key] = decoded
	}

	return nil
}

func decodeCategory(data json.RawMessage) (map[string]any, error) {
	var tokens map[string]any
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("category must be a mapping of token names to values")
	}
	if tokens == nil {
		return nil, fmt.Errorf("category must be a mapping, got null")
	}
	return tokens, nil
}

// Clone returns a deep copy of the fragment.
func (f Fragment) Clone() Fragment {
	out := f
	out.Content = slices.Clone(f.Content)
	out.Plugins = slices.Clone(f.Plugins)
	out.Safelist = slices.Clone(f.Safelist)
	if f.Important != nil {
		v := *f.Important
		out.Important = &v
	}
	out.Theme = f.Theme.Clone()
	return out
}

// Clone returns a deep copy of the theme.
func (t Theme) Clone() Theme {
	return Theme{
		Categories: cloneCategories(t.Categories),
		Extend:     cloneCategories(t.Extend),
	}
}

func cloneCategories(in map[string]map[string]any) map[string]map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]map[string]any, len(in))
	for name, tokens := range in {
		out[name] = CloneTokens(tokens)
	}
	return out
}

// CloneTokens deep-copies a token mapping.
func CloneTokens(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies a token value. Mappings and lists are copied,
// scalars are returned as-is.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneTokens(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	default:
		return v
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := slices.Collect(maps.Keys(m))
	sort.Strings(keys)
	return keys
}
