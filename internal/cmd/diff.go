package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/cmdutil"
	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/output"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var exitCode bool

	c := &cobra.Command{
		Use:   "diff FILE [fragment...]",
		Short: "Compare a generated configuration with a fresh resolution",
		Long: `Compare a previously generated configuration file against the result of
resolving the fragments now.

FILE may be a js module written by tailcfg, or a JSON or YAML document.
Differences are reported per path.

Examples:
  # Show what changed since tailwind.config.js was generated
  tailcfg diff tailwind.config.js

  # Fail a CI job when the committed file is stale
  tailcfg diff tailwind.config.js --exit-code`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDiff(c, args[0], args[1:], gc, exitCode)
		},
	}

	c.Flags().BoolVar(&exitCode, "exit-code", false,
		"Exit with code 7 when the file differs from the fresh resolution")
	return c
}

func runDiff(c *cobra.Command, file string, fragments []string, gc *cmdtypes.GlobalConfig, exitCode bool) error {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return oerrors.NewNotFoundError("generated configuration not found", file,
				"Generate it first with 'tailcfg resolve --out "+file+"'.")
		}
		return fmt.Errorf("reading %s: %w", file, err)
	}

	doc, err := output.Document(data)
	if err != nil {
		return fmt.Errorf("reading generated configuration %s: %w", file, err)
	}

	res, err := cmdutil.Resolve(c.Context(), fragments, gc)
	if err != nil {
		return err
	}

	fresh, err := output.Marshal(res.Config, output.FormatYAML)
	if err != nil {
		return err
	}

	result, err := output.DiffDocuments(file, doc, "resolved", fresh, output.IsTTY())
	if err != nil {
		return err
	}

	w := c.OutOrStdout()
	if !result.HasDrift() {
		fmt.Fprintln(w, output.FormatCheckmark(file+" is up to date"))
		return nil
	}

	fmt.Fprintln(w, result.Report)
	fmt.Fprintln(w, output.StyleSummary.Render(fmt.Sprintf("%d difference(s) in %s", result.Changes, file)))

	if exitCode {
		return &oerrors.ExitError{
			Err:     fmt.Errorf("%w: %s", oerrors.ErrDrift, file),
			Code:    oerrors.ExitDrift,
			Printed: true,
		}
	}
	return nil
}
