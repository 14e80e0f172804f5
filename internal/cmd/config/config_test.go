package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/config"
	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/testutil"
)

func globalConfig(path string) *cmdtypes.GlobalConfig {
	return &cmdtypes.GlobalConfig{ConfigPath: config.ResolvedValue{Key: "config", Value: path}}
}

func run(t *testing.T, c *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SetArgs(args)
	err = c.Execute()
	return out.String(), errOut.String(), err
}

func TestNewConfigCmd(t *testing.T) {
	c := NewConfigCmd(globalConfig(config.DefaultFile))

	assert.Equal(t, "config", c.Use)
	var names []string
	for _, sub := range c.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"init", "vet"}, names)
	assert.NotNil(t, NewConfigInitCmd(nil).Flags().Lookup("force"))
}

func TestConfigInit_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.DefaultFile)

	stdout, _, err := run(t, NewConfigInitCmd(globalConfig(path)))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Settings written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# tailcfg settings.")
	assert.Contains(t, string(data), "format: js")

	src, err := config.NewLoader().Load(path)
	require.NoError(t, err)
	s, err := src.FileSettings()
	require.NoError(t, err)
	defaults := config.DefaultSettings()
	assert.Empty(t, s.Fragments)
	assert.Equal(t, defaults.ExpandPalette, s.ExpandPalette)
	assert.Equal(t, defaults.ContentRoot, s.ContentRoot)
	assert.Equal(t, defaults.Output, s.Output)
	assert.Equal(t, defaults.Log, s.Log)

	require.NoError(t, config.NewValidator().ValidateFile(path), "generated file validates")
}

func TestConfigInit_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, config.DefaultFile, "strict: true\n")

	_, _, err := run(t, NewConfigInitCmd(globalConfig(path)))
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrValidation)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "strict: true\n", string(data), "file left untouched")

	_, _, err = run(t, NewConfigInitCmd(globalConfig(path)), "--force")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "strict: false")
}

func TestConfigVet_Valid(t *testing.T) {
	path := testutil.FixturePath(t, "site", "tailcfg.yaml")

	stdout, _, err := run(t, NewConfigVetCmd(globalConfig(path)))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Settings file is valid")
}

func TestConfigVet_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFile)

	_, _, err := run(t, NewConfigVetCmd(globalConfig(path)))
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestConfigVet_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, config.DefaultFile, `fragments:
  - missing.yaml
output:
  format: xml
`)

	_, stderr, err := run(t, NewConfigVetCmd(globalConfig(path)))
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, oerrors.ExitMalformedFragment, exitErr.Code)
	assert.True(t, exitErr.Printed)

	assert.Contains(t, stderr, "config validation failed")
	assert.Contains(t, stderr, "output.format: must be one of: js, json, yaml")
	assert.Contains(t, stderr, "fragments[0]:")
}
