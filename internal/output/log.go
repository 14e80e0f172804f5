// Package output provides terminal output utilities for tailcfg: logging,
// styles, configuration encoders, and diff rendering.
package output

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// logger is the global logger instance.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	ReportCaller:    false,
})

// LogConfig controls logger setup.
type LogConfig struct {
	// Verbose enables debug level, timestamps, and caller reporting.
	Verbose bool

	// Timestamps overrides timestamp reporting when not verbose.
	// nil means the default (on).
	Timestamps *bool

	// Writer receives log output; nil means stderr.
	Writer io.Writer
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// timestamps reports whether log lines carry a timestamp.
// Verbose forces them on; otherwise Timestamps decides, defaulting to true.
func (c LogConfig) timestamps() bool {
	if c.Verbose {
		return true
	}
	if c.Timestamps != nil {
		return *c.Timestamps
	}
	return true
}

// SetupLogging replaces the global logger according to cfg.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: cfg.timestamps(),
		ReportCaller:    cfg.Verbose,
		TimeFormat:      time.TimeOnly,
	})
}

// Logger returns the global logger.
func Logger() *log.Logger {
	return logger
}

// FragmentLogger returns a child logger prefixed with a fragment name.
func FragmentLogger(name string) *log.Logger {
	return logger.WithPrefix(StyleNoun.Render("f:" + name))
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...any) {
	logger.Helper()
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...any) {
	logger.Helper()
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...any) {
	logger.Helper()
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...any) {
	logger.Helper()
	logger.Error(msg, keyvals...)
}
