package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/cmdutil"
	"github.com/tailcfg/cli/internal/output"
	"github.com/tailcfg/cli/internal/resolver"
)

// explainReport is the --json form of explain.
type explainReport struct {
	Fragments []string            `json:"fragments"`
	Entries   []resolver.Entry    `json:"entries"`
	Conflicts []resolver.Conflict `json:"conflicts"`
}

// NewExplainCmd creates the explain command.
func NewExplainCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		jsonFlag bool
		pathFlag string
	)

	c := &cobra.Command{
		Use:   "explain [fragment...]",
		Short: "Show which fragment supplied each value",
		Long: `Resolve fragments and show the provenance of every resolved value.

Each row names a resolved path, its value, the fragment that supplied it,
and the values it overwrote. Color values show a swatch on a terminal.

Examples:
  # Explain the fragments listed in tailcfg.yaml
  tailcfg explain

  # Only show the extended color tokens
  tailcfg explain --path theme.extend.colors

  # Machine-readable provenance
  tailcfg explain base.yaml brand.yaml --json`,
		RunE: func(c *cobra.Command, args []string) error {
			return runExplain(c, args, gc, pathFlag, jsonFlag)
		},
	}

	c.Flags().BoolVar(&jsonFlag, "json", false, "Print provenance as JSON")
	c.Flags().StringVar(&pathFlag, "path", "", "Only show entries at or under this path")
	return c
}

func runExplain(c *cobra.Command, args []string, gc *cmdtypes.GlobalConfig, prefix string, asJSON bool) error {
	res, err := cmdutil.Resolve(c.Context(), args, gc)
	if err != nil {
		return err
	}

	entries := filterEntries(res.Provenance.Entries(), prefix)

	if asJSON {
		return output.Encode(c.OutOrStdout(), explainReport{
			Fragments: res.Paths,
			Entries:   entries,
			Conflicts: res.Conflicts,
		}, output.FormatJSON)
	}

	tty := output.IsTTY()
	tbl := output.NewTable("PATH", "VALUE", "SOURCE", "SHADOWED")
	if !tty {
		tbl.SetStyle(output.PlainTableStyle())
	}
	for _, e := range entries {
		tbl.Row(e.Path, explainValue(e.Value, tty), e.Source, explainShadowed(e.Shadowed, tty))
	}

	w := c.OutOrStdout()
	if tbl.Len() == 0 {
		fmt.Fprintln(w, "No resolved values"+pathSuffix(prefix))
	} else {
		fmt.Fprintln(w, tbl.String())
	}

	if len(res.Conflicts) > 0 {
		fmt.Fprintln(w)
		cmdutil.WriteConflicts(w, res.Conflicts)
	}
	return nil
}

// filterEntries keeps entries at prefix or below it. List members match
// their list name, so "content" selects every content[i].
func filterEntries(entries []resolver.Entry, prefix string) []resolver.Entry {
	if prefix == "" {
		return entries
	}
	out := make([]resolver.Entry, 0)
	for _, e := range entries {
		if e.Path == prefix ||
			strings.HasPrefix(e.Path, prefix+".") ||
			strings.HasPrefix(e.Path, prefix+"[") {
			out = append(out, e)
		}
	}
	return out
}

func explainValue(v any, tty bool) string {
	s := cmdutil.FormatValue(v)
	if tty {
		if swatch := output.Swatch(s); swatch != "" {
			return swatch + " " + s
		}
	}
	return s
}

func explainShadowed(values []resolver.SourcedValue, tty bool) string {
	if len(values) == 0 {
		return ""
	}
	s := cmdutil.FormatShadowed(values)
	if tty {
		return output.StyleShadowed.Render(s)
	}
	return s
}

func pathSuffix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return " under " + prefix
}
