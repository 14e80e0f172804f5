package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/cmdutil"
	"github.com/tailcfg/cli/internal/output"
	"github.com/tailcfg/cli/internal/resolver"
	"github.com/tailcfg/cli/internal/scan"
)

// NewFilesCmd creates the files command.
func NewFilesCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		rootFlag string
		treeFlag bool
	)

	c := &cobra.Command{
		Use:   "files [fragment...]",
		Short: "List the files matched by the resolved content globs",
		Long: `Resolve fragments and list the files their content globs select.

Globs are matched relative to the content root: --root, else contentRoot
from the settings file, else the current directory. Globs prefixed with
"!" remove matches.

Examples:
  # List the files the build will scan
  tailcfg files

  # Show them as a tree with the glob that matched each file
  tailcfg files --root ./site --tree`,
		RunE: func(c *cobra.Command, args []string) error {
			return runFiles(c, args, gc, rootFlag, treeFlag)
		},
	}

	c.Flags().StringVar(&rootFlag, "root", "", "Directory content globs are relative to (default: settings contentRoot)")
	c.Flags().BoolVar(&treeFlag, "tree", false, "Render the files as a tree annotated with the matching glob")
	return c
}

func runFiles(c *cobra.Command, args []string, gc *cmdtypes.GlobalConfig, root string, tree bool) error {
	res, err := cmdutil.Resolve(c.Context(), args, gc)
	if err != nil {
		return err
	}

	if root == "" {
		settings, err := gc.Require()
		if err != nil {
			return err
		}
		root = settings.ContentRootPath(gc.BaseDir())
	}

	var matches []scan.Match
	err = output.RunWithSpinner(c.Context(), func() error {
		var scanErr error
		matches, scanErr = scan.Files(c.Context(), root, res.Config.Content)
		return scanErr
	}, output.WithTitle("Scanning "+root), output.WithQuiet(gc.Verbose))
	if err != nil {
		return err
	}

	output.Debug("content files matched", "root", root, "globs", scan.Summary(matches))

	w := c.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(w, "No files match the content globs under "+root)
		return nil
	}

	if tree {
		annotated := make(map[string]string, len(matches))
		for _, m := range matches {
			note := m.Glob
			if src, ok := res.Provenance.Introduced(resolver.KindContent, m.Glob); ok {
				note += " (" + filepath.Base(src) + ")"
			}
			annotated[m.Path] = note
		}
		fmt.Fprint(w, output.RenderTree(root, annotated))
	} else {
		for _, p := range scan.Paths(matches) {
			fmt.Fprintln(w, p)
		}
	}

	fmt.Fprintln(c.ErrOrStderr(), output.StyleSummary.Render(fmt.Sprintf("%d file(s) matched", len(matches))))
	return nil
}
