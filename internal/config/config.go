// Package config loads and resolves tailcfg's own settings: which fragments to
// resolve, how strictly, and where to write the result.
package config

import (
	"path/filepath"
)

// DefaultFile is the settings file looked up in the working directory.
const DefaultFile = "tailcfg.yaml"

// Settings is the content of tailcfg.yaml after precedence resolution.
type Settings struct {
	// Fragments lists fragment files in merge order. Relative paths are
	// relative to the settings file.
	// Env: TAILCFG_FRAGMENTS (comma-separated)
	Fragments []string `mapstructure:"fragments" yaml:"fragments" validate:"dive,required"`

	// Strict fails resolution when two fragments set a scalar differently.
	// Env: TAILCFG_STRICT, Default: false
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// ExpandPalette replaces {colors.<hue>.<shade>} references in the theme.
	// Env: TAILCFG_EXPANDPALETTE, Default: true
	ExpandPalette bool `mapstructure:"expandPalette" yaml:"expandPalette"`

	// ContentRoot is the directory content globs are matched against.
	// Env: TAILCFG_CONTENTROOT, Default: "."
	ContentRoot string `mapstructure:"contentRoot" yaml:"contentRoot" validate:"required"`

	// Output controls how the resolved configuration is written.
	Output OutputSettings `mapstructure:"output" yaml:"output"`

	// Log contains logging-related settings.
	Log LogSettings `mapstructure:"log" yaml:"log"`
}

// OutputSettings controls the encoder and destination.
type OutputSettings struct {
	// Format is one of js, json, yaml.
	// Env: TAILCFG_OUTPUT or TAILCFG_OUTPUT_FORMAT, Default: js
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=js json yaml"`

	// Path is the file written by resolve and watch; empty means stdout.
	// Env: TAILCFG_OUTPUT_PATH
	Path string `mapstructure:"path" yaml:"path,omitempty" validate:"omitempty,excludesall=*?"`
}

// LogSettings contains logging-related settings.
type LogSettings struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Env: TAILCFG_LOG_TIMESTAMPS, Default: true
	Timestamps bool `mapstructure:"timestamps" yaml:"timestamps"`
}

// DefaultSettings returns Settings with every default populated.
// Used by `tailcfg config init` to generate the initial file.
func DefaultSettings() *Settings {
	return &Settings{
		Fragments:     []string{},
		ExpandPalette: true,
		ContentRoot:   ".",
		Output: OutputSettings{
			Format: "js",
		},
		Log: LogSettings{
			Timestamps: true,
		},
	}
}

// FragmentPaths returns the fragment paths with relative entries anchored at
// baseDir, normally the directory of the settings file.
func (s *Settings) FragmentPaths(baseDir string) []string {
	out := make([]string, len(s.Fragments))
	for i, p := range s.Fragments {
		out[i] = anchor(baseDir, p)
	}
	return out
}

// ContentRootPath returns ContentRoot anchored at baseDir.
func (s *Settings) ContentRootPath(baseDir string) string {
	return anchor(baseDir, s.ContentRoot)
}

func anchor(baseDir, p string) string {
	expanded, err := ExpandPath(p)
	if err == nil {
		p = expanded
	}
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
