package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/config"
	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/output"
)

const settingsHeader = `# tailcfg settings.
# Fragments are merged in the order listed; relative paths are relative to
# this file. Every key can be overridden with a TAILCFG_* environment variable.
`

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a default settings file",
		Long: `Create tailcfg.yaml with every setting at its default.

The file is written to the path given by --config or TAILCFG_CONFIG, else
to tailcfg.yaml in the current directory.

Examples:
  # Create ./tailcfg.yaml
  tailcfg config init

  # Overwrite an existing file
  tailcfg config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runInit(c, gc, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing settings file")
	return c
}

func runInit(c *cobra.Command, gc *cmdtypes.GlobalConfig, force bool) error {
	path, err := config.ExpandPath(gc.Path())
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	exists, err := config.FileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !force {
		return oerrors.NewValidationError("settings file already exists", path, "",
			"Use --force to overwrite the existing settings file.")
	}

	data, err := renderDefaults()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	w := c.OutOrStdout()
	fmt.Fprintln(w, output.FormatCheckmark("Settings written to "+path))
	fmt.Fprintln(w, "Add fragment files under fragments, then run 'tailcfg config vet'.")
	return nil
}

func renderDefaults() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(settingsHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config.DefaultSettings()); err != nil {
		return nil, fmt.Errorf("encoding default settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
