// Package cmdutil provides shared command utilities: flag groups, the
// load-and-resolve preamble, and output writing.
package cmdutil

import (
	"github.com/spf13/cobra"
)

// OutFlags holds the destination flag of commands that write a resolved
// configuration (resolve, watch).
type OutFlags struct {
	Out string
}

// AddTo registers the output flags on the given cobra command.
func (f *OutFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Out, "out", "",
		"Write the resolved configuration to this file (default: settings output.path, else stdout)")
}

// Path returns the flag value, falling back to the settings path.
func (f *OutFlags) Path(settingsPath string) string {
	if f.Out != "" {
		return f.Out
	}
	return settingsPath
}
