package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// DiffResult is the outcome of comparing two configuration documents.
type DiffResult struct {
	// Changes is the number of differing paths.
	Changes int

	// Report is the rendered human-readable report, empty without changes.
	Report string
}

// HasDrift reports whether the documents differ.
func (r DiffResult) HasDrift() bool {
	return r.Changes > 0
}

// DiffDocuments compares two YAML or JSON documents with dyff.
func DiffDocuments(fromName string, from []byte, toName string, to []byte, useColor bool) (DiffResult, error) {
	fromInput, err := parseInput(fromName, from)
	if err != nil {
		return DiffResult{}, fmt.Errorf("parsing %s: %w", fromName, err)
	}
	toInput, err := parseInput(toName, to)
	if err != nil {
		return DiffResult{}, fmt.Errorf("parsing %s: %w", toName, err)
	}

	report, err := dyff.CompareInputFiles(fromInput, toInput)
	if err != nil {
		return DiffResult{}, fmt.Errorf("comparing documents: %w", err)
	}
	if len(report.Diffs) == 0 {
		return DiffResult{}, nil
	}

	rendered, err := renderReport(report, useColor)
	if err != nil {
		return DiffResult{}, err
	}
	return DiffResult{Changes: len(report.Diffs), Report: rendered}, nil
}

func parseInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

func renderReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := writer.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
