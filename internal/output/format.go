package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format specifies the encoding of a resolved configuration.
type Format string

const (
	// FormatJS writes a CommonJS module loadable as tailwind.config.js.
	FormatJS Format = "js"

	// FormatJSON writes indented JSON.
	FormatJSON Format = "json"

	// FormatYAML writes YAML.
	FormatYAML Format = "yaml"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid checks if the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatJS, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseFormat parses a format name. The empty string means FormatJS.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "js", "javascript", "cjs":
		return FormatJS, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: %s)", s, strings.Join(ValidFormats(), ", "))
	}
}

// FormatForPath infers the format from a file extension, falling back to def.
func FormatForPath(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".cjs":
		return FormatJS
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return def
	}
}

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{"js", "json", "yaml"}
}
