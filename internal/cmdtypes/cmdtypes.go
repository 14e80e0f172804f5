// Package cmdtypes provides shared types for the cmd package and its
// sub-packages. It is separate from internal/cmd to avoid import cycles
// between internal/cmd and internal/cmd/config.
package cmdtypes

import (
	"github.com/tailcfg/cli/internal/config"
)

// GlobalConfig holds CLI-wide configuration resolved during
// PersistentPreRunE. It is populated once at startup and passed explicitly
// into every sub-command constructor.
type GlobalConfig struct {
	// ConfigPath is the resolved settings file path.
	ConfigPath config.ResolvedValue

	// Sources holds the settings layers; nil if loading failed.
	Sources *config.Sources

	// Settings is the outcome of flag > env > file > default resolution.
	Settings *config.Settings

	// Values records how every settings key was resolved.
	Values []config.ResolvedValue

	// LoadErr is the error from reading the settings file, reported only by
	// commands that need settings.
	LoadErr error

	Verbose bool
}

// Path returns the resolved settings file path.
func (g *GlobalConfig) Path() string {
	if g.Sources != nil {
		return g.Sources.Path
	}
	s, _ := g.ConfigPath.Value.(string)
	return s
}

// BaseDir returns the directory relative settings paths are anchored at.
func (g *GlobalConfig) BaseDir() string {
	if g.Sources == nil {
		return ""
	}
	return g.Sources.Dir()
}

// Require returns the settings, or the load error if they are unavailable.
func (g *GlobalConfig) Require() (*config.Settings, error) {
	if g.LoadErr != nil {
		return nil, g.LoadErr
	}
	if g.Settings == nil {
		return config.DefaultSettings(), nil
	}
	return g.Settings, nil
}
