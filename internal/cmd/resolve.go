package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/cmdutil"
	"github.com/tailcfg/cli/internal/output"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var of cmdutil.OutFlags

	c := &cobra.Command{
		Use:   "resolve [fragment...]",
		Short: "Merge fragments into one configuration",
		Long: `Merge configuration fragments in order and print the result.

Fragments are merged in the order given. Without arguments the fragments
listed in the settings file are used.

Examples:
  # Resolve the fragments listed in tailcfg.yaml
  tailcfg resolve

  # Resolve explicit fragments as JSON
  tailcfg resolve base.yaml brand.cue -o json

  # Write the result to a file
  tailcfg resolve --out tailwind.config.js`,
		RunE: func(c *cobra.Command, args []string) error {
			return runResolve(c, args, gc, &of)
		},
	}

	of.AddTo(c)
	return c
}

func runResolve(c *cobra.Command, args []string, gc *cmdtypes.GlobalConfig, of *cmdutil.OutFlags) error {
	res, err := cmdutil.Resolve(c.Context(), args, gc)
	if err != nil {
		return err
	}

	settings, err := gc.Require()
	if err != nil {
		return err
	}
	dest := of.Path(settings.Output.Path)
	format, err := cmdutil.OutputFormat(gc, dest)
	if err != nil {
		return err
	}

	if err := cmdutil.WriteConfig(c.OutOrStdout(), dest, res.Config, format); err != nil {
		return err
	}

	if dest != "" {
		output.Info("resolved "+output.StyleNoun.Render(dest), "fragments", len(res.Paths), "format", format)
	}
	return nil
}
