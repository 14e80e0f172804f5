// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	configcmd "github.com/tailcfg/cli/internal/cmd/config"
	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/config"
	"github.com/tailcfg/cli/internal/output"
)

// rootFlags holds the persistent flag values.
type rootFlags struct {
	config        string
	verbose       bool
	timestamps    bool
	strict        bool
	expandPalette bool
	format        string
}

// NewRootCmd creates the root command for the tailcfg CLI.
func NewRootCmd() *cobra.Command {
	var rf rootFlags
	gc := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "tailcfg",
		Short: "Resolve utility-CSS configuration fragments",
		Long: `tailcfg merges ordered configuration fragments into one utility-CSS
framework configuration.

Theme extensions are deep-merged, theme categories are replaced, content
globs, safelist entries, and plugins are unioned in order, and the last
fragment to set a scalar wins.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, &rf, gc)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rf.config, "config", "", "Path to the settings file (env: TAILCFG_CONFIG)")
	pf.BoolVarP(&rf.verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVar(&rf.timestamps, "timestamps", true, "Show timestamps in log output")
	pf.BoolVar(&rf.strict, "strict", false, "Fail when fragments set a scalar to different values (env: TAILCFG_STRICT)")
	pf.BoolVar(&rf.expandPalette, "expand-palette", true, "Expand {colors.hue.shade} references in theme values")
	pf.StringVarP(&rf.format, "output", "o", "", "Output format: js, json, yaml (env: TAILCFG_OUTPUT)")

	rootCmd.AddCommand(
		NewResolveCmd(gc),
		NewExplainCmd(gc),
		NewDiffCmd(gc),
		NewVetCmd(gc),
		NewFilesCmd(gc),
		NewWatchCmd(gc),
		configcmd.NewConfigCmd(gc),
		NewVersionCmd(gc),
	)

	return rootCmd
}

// initializeGlobals loads settings, resolves them against the flags, and
// sets up logging.
func initializeGlobals(c *cobra.Command, rf *rootFlags, gc *cmdtypes.GlobalConfig) error {
	gc.Verbose = rf.verbose
	gc.ConfigPath = config.ResolveConfigPath(rf.config)
	path, _ := gc.ConfigPath.Value.(string)

	flags := config.Flags{Format: rf.format}
	if c.Flags().Changed("strict") {
		flags.Strict = output.BoolPtr(rf.strict)
	}
	if c.Flags().Changed("expand-palette") {
		flags.ExpandPalette = output.BoolPtr(rf.expandPalette)
	}
	if c.Flags().Changed("timestamps") {
		flags.Timestamps = output.BoolPtr(rf.timestamps)
	}

	sources, err := config.NewLoader().Load(path)
	if err != nil {
		// Commands that do not need settings (version, config init) still run.
		gc.LoadErr = err
		output.SetupLogging(output.LogConfig{Verbose: rf.verbose, Timestamps: flags.Timestamps})
		output.Debug("settings load error", "error", err)
		return nil
	}

	gc.Sources = sources
	gc.Settings, gc.Values = config.Resolve(sources, flags)

	output.SetupLogging(output.LogConfig{
		Verbose:    rf.verbose,
		Timestamps: output.BoolPtr(gc.Settings.Log.Timestamps),
	})

	if rf.verbose {
		output.Debug("initializing CLI",
			"config", sources.Path,
			"found", sources.Found,
			"source", gc.ConfigPath.Source,
		)
		config.LogResolvedValues(gc.Values)
	}

	return nil
}
