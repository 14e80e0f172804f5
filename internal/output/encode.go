package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// JSHeader is the type annotation line written before a js module.
const JSHeader = "/** @type {import('tailwindcss').Config} */"

const jsExports = "module.exports = "

// Encode writes v to w in the given format. Map keys are sorted by both
// encoders so that repeated runs produce identical bytes.
func Encode(w io.Writer, v any, format Format) error {
	data, err := Marshal(v, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal encodes v in the given format, terminated by a newline.
func Marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil

	case FormatJS:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding js: %w", err)
		}
		var buf bytes.Buffer
		buf.WriteString(JSHeader + "\n")
		buf.WriteString(jsExports)
		buf.Write(data)
		buf.WriteString(";\n")
		return buf.Bytes(), nil

	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Document extracts the data document from a previously generated file.
// A js module is unwrapped to its exported JSON literal; JSON and YAML are
// returned unchanged since both are valid YAML input.
func Document(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	trimmed = bytes.TrimSpace(bytes.TrimPrefix(trimmed, []byte(JSHeader)))

	if !bytes.HasPrefix(trimmed, []byte(jsExports)) {
		return data, nil
	}

	body := bytes.TrimPrefix(trimmed, []byte(jsExports))
	body = bytes.TrimSuffix(bytes.TrimSpace(body), []byte(";"))
	if !json.Valid(body) {
		return nil, fmt.Errorf("js module does not export a JSON literal")
	}
	return body, nil
}
