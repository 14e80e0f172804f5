package fragment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"gopkg.in/yaml.v3"

	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/output"
)

// ErrUnsupportedFormat is returned when a fragment file has an unsupported extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format is the document format of a fragment.
type Format string

const (
	// FormatYAML is a YAML document (.yaml, .yml).
	FormatYAML Format = "yaml"

	// FormatJSON is a JSON document (.json).
	FormatJSON Format = "json"

	// FormatCUE is a CUE document (.cue).
	FormatCUE Format = "cue"
)

// FormatFromPath infers the fragment format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Loader reads fragment documents and validates them against the schema.
// A Loader is not safe for concurrent use because CUE contexts are not.
type Loader struct {
	schema *Schema
}

// NewLoader creates a Loader with a fresh CUE context.
func NewLoader() (*Loader, error) {
	schema, err := NewSchema(nil)
	if err != nil {
		return nil, err
	}
	return &Loader{schema: schema}, nil
}

// LoadFile reads and validates one fragment file.
func (l *Loader) LoadFile(ctx context.Context, path string) (Fragment, error) {
	if err := ctx.Err(); err != nil {
		return Fragment{}, err
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return Fragment{}, &oerrors.DetailError{
			Type:     "malformed fragment",
			Message:  err.Error(),
			Location: path,
			Hint:     "Fragments must be .yaml, .yml, .json or .cue files",
			Cause:    errors.Join(oerrors.ErrMalformedFragment, err),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Fragment{}, oerrors.NewNotFoundError("fragment file does not exist", path,
				"Check the path or the fragments list in tailcfg.yaml")
		}
		return Fragment{}, fmt.Errorf("reading fragment %s: %w", path, err)
	}

	return l.LoadBytes(path, data, format)
}

// LoadFiles loads fragments in the given order and stops at the first failure.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) ([]Fragment, error) {
	fragments := make([]Fragment, 0, len(paths))
	for _, path := range paths {
		f, err := l.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

// LoadBytes validates a fragment document held in memory. name labels the
// fragment in errors and provenance.
func (l *Loader) LoadBytes(name string, data []byte, format Format) (Fragment, error) {
	value, err := l.compile(name, data, format)
	if err != nil {
		return Fragment{}, err
	}

	checked, err := l.schema.Check(name, value)
	if err != nil {
		return Fragment{}, err
	}

	exported, err := checked.MarshalJSON()
	if err != nil {
		return Fragment{}, fmt.Errorf("exporting fragment %s: %w", name, err)
	}

	var f Fragment
	if err := json.Unmarshal(exported, &f); err != nil {
		return Fragment{}, oerrors.NewMalformedFragmentError(err.Error(), name, "", "")
	}
	f.Name = name

	if err := f.Validate(); err != nil {
		return Fragment{}, err
	}

	output.Debug("fragment loaded",
		"fragment", name,
		"format", string(format),
		"content", len(f.Content),
		"safelist", len(f.Safelist),
	)

	return f, nil
}

// compile turns a document into a CUE value. YAML is decoded with YAML 1.2
// rules and converted to JSON first, so bare words like y and off stay
// strings. JSON is valid CUE and compiles directly.
func (l *Loader) compile(name string, data []byte, format Format) (cue.Value, error) {
	ctx := l.schema.Context()

	switch format {
	case FormatCUE:
		value := ctx.CompileBytes(data, cue.Filename(name))
		if value.Err() != nil {
			return cue.Value{}, malformedFromCUE(name, value.Err())
		}
		return value, nil

	case FormatYAML:
		var parsed any
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return cue.Value{}, oerrors.NewMalformedFragmentError(
				fmt.Sprintf("parsing YAML: %v", err), name, "", "")
		}
		jsonData, err := json.Marshal(normalizeYAML(parsed))
		if err != nil {
			return cue.Value{}, oerrors.NewMalformedFragmentError(
				fmt.Sprintf("converting YAML to JSON: %v", err), name, "", "")
		}
		return l.compileJSON(name, jsonData)

	case FormatJSON:
		if !json.Valid(bytes.TrimSpace(data)) && len(bytes.TrimSpace(data)) > 0 {
			return cue.Value{}, oerrors.NewMalformedFragmentError("parsing JSON: invalid document", name, "", "")
		}
		return l.compileJSON(name, data)

	default:
		return cue.Value{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (l *Loader) compileJSON(name string, data []byte) (cue.Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	value := l.schema.Context().CompileBytes(trimmed, cue.Filename(name))
	if value.Err() != nil {
		return cue.Value{}, malformedFromCUE(name, value.Err())
	}
	return value, nil
}

// normalizeYAML converts decoded YAML into JSON-compatible values. Mapping
// keys that are not strings (e.g. the 500 in a color scale) become strings.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = normalizeYAML(v)
		}
		return result
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[fmt.Sprintf("%v", k)] = normalizeYAML(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = normalizeYAML(v)
		}
		return result
	default:
		return v
	}
}
