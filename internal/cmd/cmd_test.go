package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/tailcfg/cli/internal/testutil"
)

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// siteConfig returns the settings file of the fixture site.
func siteConfig(t *testing.T) string {
	t.Helper()
	return testutil.FixturePath(t, "site", "tailcfg.yaml")
}

func siteFragment(t *testing.T, name string) string {
	t.Helper()
	return testutil.FixturePath(t, "site", "fragments", name)
}

// noSettings returns a settings path that does not exist.
func noSettings(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tailcfg.yaml")
}
