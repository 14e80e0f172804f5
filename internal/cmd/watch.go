package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/cmdutil"
	"github.com/tailcfg/cli/internal/output"
	"github.com/tailcfg/cli/internal/watch"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		of       cmdutil.OutFlags
		debounce time.Duration
	)

	c := &cobra.Command{
		Use:   "watch [fragment...]",
		Short: "Re-resolve whenever a fragment changes",
		Long: `Resolve fragments, write the result, and keep rewriting it whenever a
fragment file changes. Stop with Ctrl-C.

A failed resolution is logged and the previous output is left in place.

Examples:
  # Keep tailwind.config.js up to date
  tailcfg watch --out tailwind.config.js`,
		RunE: func(c *cobra.Command, args []string) error {
			return runWatch(c, args, gc, &of, debounce)
		},
	}

	of.AddTo(c)
	c.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long after the last change before resolving")
	return c
}

func runWatch(c *cobra.Command, args []string, gc *cmdtypes.GlobalConfig, of *cmdutil.OutFlags, debounce time.Duration) error {
	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := cmdutil.FragmentPaths(args, gc)
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

	write := func(ctx context.Context) error {
		res, err := cmdutil.Resolve(ctx, paths, gc)
		if err != nil {
			return err
		}
		return cmdutil.WriteConfig(c.OutOrStdout(), dest, res.Config, format)
	}

	if err := write(ctx); err != nil {
		return err
	}
	output.Info("watching fragments", "count", len(paths), "out", destName(dest))

	w, err := watch.New(paths, watch.WithDebounce(debounce))
	if err != nil {
		return err
	}
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		if err := write(ctx); err != nil {
			return err
		}
		output.Info("re-resolved", "changed", changed, "out", destName(dest))
		return nil
	})
}

func destName(dest string) string {
	if dest == "" {
		return "stdout"
	}
	return dest
}
