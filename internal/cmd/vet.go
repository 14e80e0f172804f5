package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/cmdutil"
	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/fragment"
	"github.com/tailcfg/cli/internal/output"
)

// NewVetCmd creates the vet command.
func NewVetCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet [fragment...]",
		Short: "Validate fragments without merging them",
		Long: `Load and validate configuration fragments without merging them.

Every fragment is checked against the fragment schema. All fragments are
checked even when an earlier one fails.

Examples:
  # Validate the fragments listed in tailcfg.yaml
  tailcfg vet

  # Validate specific files
  tailcfg vet base.yaml brand.cue`,
		RunE: func(c *cobra.Command, args []string) error {
			return runVet(c, args, gc)
		},
	}
}

func runVet(c *cobra.Command, args []string, gc *cmdtypes.GlobalConfig) error {
	paths, err := cmdutil.FragmentPaths(args, gc)
	if err != nil {
		return err
	}

	loader, err := fragment.NewLoader()
	if err != nil {
		return err
	}

	var first error
	failed := 0
	for _, path := range paths {
		if _, err := loader.LoadFile(c.Context(), path); err != nil {
			failed++
			if first == nil {
				first = err
			}
			fmt.Fprintln(c.ErrOrStderr(), err)
			continue
		}
		fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark(path))
	}

	if first != nil {
		return &oerrors.ExitError{
			Err:     fmt.Errorf("%d of %d fragments failed validation: %w", failed, len(paths), first),
			Code:    oerrors.ExitCodeFromError(first),
			Printed: true,
		}
	}

	output.Debug("fragments valid", "count", len(paths))
	return nil
}
