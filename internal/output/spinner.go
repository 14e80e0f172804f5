package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title string
	quiet bool
}

// interactive reports whether the spinner should be drawn.
func (c *spinnerConfig) interactive() bool {
	return !c.quiet && IsTTY()
}

// WithQuiet suppresses the spinner and runs the action directly.
func WithQuiet(quiet bool) SpinnerOption {
	return func(c *spinnerConfig) {
		c.quiet = quiet
	}
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// RunWithSpinner executes an action while a spinner runs.
// Without a terminal the action runs directly. Returns the action's error.
func RunWithSpinner(ctx context.Context, action func() error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{title: "Working..."}

	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.interactive() {
		return action()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- action()
	}()

	var result error
	spinnerErr := spinner.New().
		Title(cfg.title).
		Action(func() {
			select {
			case <-ctx.Done():
				result = ctx.Err()
			case result = <-errCh:
			}
		}).
		Run()

	if spinnerErr != nil {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}

	return result
}
