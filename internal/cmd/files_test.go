package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailcfg/cli/internal/testutil"
)

func TestFiles_List(t *testing.T) {
	stdout, stderr, err := execute(t, "--config", siteConfig(t), "files")
	require.NoError(t, err)

	assert.Equal(t, "src/components/card.html\nsrc/main.rs\n", stdout)
	assert.Contains(t, stderr, "2 file(s) matched")
}

func TestFiles_Tree(t *testing.T) {
	stdout, _, err := execute(t, "--config", siteConfig(t), "files", "--tree")
	require.NoError(t, err)

	assert.Contains(t, stdout, "src/")
	assert.Contains(t, stdout, "card.html")
	assert.Contains(t, stdout, "./src/**/*.html (brand.json)")
	assert.NotContains(t, stdout, "legacy")
}

func TestFiles_RootFlag(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"src/app.rs":      "",
		"src/legacy/x.rs": "",
		"src/index.html":  "",
		"target/out.rs":   "",
	})

	stdout, _, err := execute(t, "--config", siteConfig(t), "files", "--root", root)
	require.NoError(t, err)
	assert.Equal(t, "src/app.rs\nsrc/index.html\n", stdout)
}

func TestFiles_NoMatches(t *testing.T) {
	root := t.TempDir()
	stdout, _, err := execute(t, "--config", siteConfig(t), "files", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No files match")
}
