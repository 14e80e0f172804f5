package cmdutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/config"
	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/fragment"
	"github.com/tailcfg/cli/internal/output"
	"github.com/tailcfg/cli/internal/resolver"
)

func globalConfig(t *testing.T, settings *config.Settings, values ...config.ResolvedValue) *cmdtypes.GlobalConfig {
	t.Helper()
	src, err := config.NewLoader().Load(filepath.Join(t.TempDir(), config.DefaultFile))
	require.NoError(t, err)
	return &cmdtypes.GlobalConfig{Sources: src, Settings: settings, Values: values}
}

func TestOutFlags_Path(t *testing.T) {
	assert.Equal(t, "out.js", (&OutFlags{Out: "out.js"}).Path("settings.js"))
	assert.Equal(t, "settings.js", (&OutFlags{}).Path("settings.js"))
	assert.Empty(t, (&OutFlags{}).Path(""))
}

func TestFragmentPaths(t *testing.T) {
	t.Run("arguments win", func(t *testing.T) {
		gc := globalConfig(t, &config.Settings{Fragments: []string{"a.yaml"}})
		paths, err := FragmentPaths([]string{"b.yaml"}, gc)
		require.NoError(t, err)
		assert.Equal(t, []string{"b.yaml"}, paths)
	})

	t.Run("settings anchored at the settings file", func(t *testing.T) {
		gc := globalConfig(t, &config.Settings{Fragments: []string{"a.yaml"}})
		paths, err := FragmentPaths(nil, gc)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(gc.BaseDir(), "a.yaml")}, paths)
	})

	t.Run("nothing to resolve", func(t *testing.T) {
		gc := globalConfig(t, config.DefaultSettings())
		_, err := FragmentPaths(nil, gc)
		assert.ErrorIs(t, err, oerrors.ErrMalformedFragment)
	})

	t.Run("settings load error", func(t *testing.T) {
		gc := &cmdtypes.GlobalConfig{LoadErr: assert.AnError}
		_, err := FragmentPaths(nil, gc)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestOutputFormat(t *testing.T) {
	defaultFormat := config.ResolvedValue{Key: "output.format", Value: "js", Source: config.SourceDefault}
	flagFormat := config.ResolvedValue{Key: "output.format", Value: "json", Source: config.SourceFlag}

	tests := []struct {
		name   string
		format string
		value  config.ResolvedValue
		path   string
		want   output.Format
	}{
		{"stdout uses the default", "js", defaultFormat, "", output.FormatJS},
		{"extension decides over the default", "js", defaultFormat, "out/config.yaml", output.FormatYAML},
		{"unknown extension keeps the default", "js", defaultFormat, "out/config.txt", output.FormatJS},
		{"explicit format wins over the extension", "json", flagFormat, "tailwind.config.js", output.FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			s.Output.Format = tt.format
			got, err := OutputFormat(globalConfig(t, s, tt.value), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputFormat_Invalid(t *testing.T) {
	s := config.DefaultSettings()
	s.Output.Format = "toml"
	_, err := OutputFormat(globalConfig(t, s), "")
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestResolve_FromArguments(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(a, []byte("mode: jit\nsafelist: [x]\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("mode: all\nsafelist: [x, y]\n"), 0o644))

	res, err := Resolve(t.Context(), []string{a, b}, globalConfig(t, config.DefaultSettings()))
	require.NoError(t, err)

	assert.Equal(t, []string{a, b}, res.Paths)
	assert.Equal(t, "all", res.Config.Mode)
	assert.Equal(t, []string{"x", "y"}, res.Config.Safelist)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "mode", res.Conflicts[0].Field)
}

func TestResolve_StrictFromSettings(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(a, []byte("mode: jit\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("mode: all\n"), 0o644))

	s := config.DefaultSettings()
	s.Strict = true
	_, err := Resolve(t.Context(), []string{a, b}, globalConfig(t, s))
	assert.ErrorIs(t, err, oerrors.ErrConflictingScalar)
}

func TestWriteConfig(t *testing.T) {
	cfg := fragment.Fragment{Mode: "jit", Content: []string{"./src/**/*.rs"}, Plugins: []string{}, Safelist: []string{}}

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteConfig(&buf, "", cfg, output.FormatJSON))
		assert.Contains(t, buf.String(), `"mode": "jit"`)
	})

	t.Run("file in a new directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "build", "tailwind.config.js")
		var buf bytes.Buffer
		require.NoError(t, WriteConfig(&buf, path, cfg, output.FormatJS))
		assert.Empty(t, buf.String())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte(output.JSHeader)))
	})
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "#fff", FormatValue("#fff"))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "null", FormatValue(nil))
	assert.Equal(t, "[a, 1]", FormatValue([]any{"a", 1}))
}

func TestFormatShadowed(t *testing.T) {
	got := FormatShadowed([]resolver.SourcedValue{
		{Source: "base.yaml", Value: "jit"},
		{Source: "brand.yaml", Value: "aot"},
	})
	assert.Equal(t, "jit (base.yaml), aot (brand.yaml)", got)
}

func TestWriteConflicts(t *testing.T) {
	var buf bytes.Buffer
	WriteConflicts(&buf, []resolver.Conflict{{
		Field:  "mode",
		Values: []resolver.SourcedValue{{Source: "a", Value: "jit"}, {Source: "b", Value: "all"}},
	}})
	assert.Contains(t, buf.String(), "conflict: mode set by jit (a), all (b), last value wins")
}
