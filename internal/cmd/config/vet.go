package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/config"
	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the settings file",
		Long: `Validate tailcfg.yaml against the settings schema.

Checks value constraints and that every listed fragment file exists.
Environment variables and flags are not applied.

The settings file at ./tailcfg.yaml is validated by default. Use the
--config flag to specify a different location.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVet(c, gc)
		},
	}
}

func runVet(c *cobra.Command, gc *cmdtypes.GlobalConfig) error {
	path, err := config.ExpandPath(gc.Path())
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	exists, err := config.FileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if !exists {
		return oerrors.NewExitError(
			oerrors.NewNotFoundError("settings file not found", path, "Create one with 'tailcfg config init'."),
			oerrors.ExitNotFound,
		)
	}

	if err := config.NewValidator().ValidateFile(path); err != nil {
		var validationErrs config.ValidationErrors
		if errors.As(err, &validationErrs) {
			stderr := c.ErrOrStderr()
			fmt.Fprintln(stderr, "Error: config validation failed")
			fmt.Fprintf(stderr, "  File: %s\n\n", path)
			for _, e := range validationErrs {
				fmt.Fprintf(stderr, "  %s: %s\n", e.Field, e.Message)
			}
			return &oerrors.ExitError{Err: err, Code: oerrors.ExitMalformedFragment, Printed: true}
		}
		return fmt.Errorf("validating config: %w", err)
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Settings file is valid: "+path))
	return nil
}
