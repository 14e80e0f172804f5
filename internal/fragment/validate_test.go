package fragment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/tailcfg/cli/internal/errors"
)

func TestValidate_Valid(t *testing.T) {
	f := Fragment{
		Name:     "base",
		Mode:     ModeAll,
		Content:  []string{"./src/**/*.{rs,html,css}", "!./src/vendor/**"},
		Plugins:  []string{"@tailwindcss/forms"},
		Safelist: []string{"bg-red-200", "print:bg-white"},
		Theme: Theme{
			Extend: map[string]map[string]any{
				"screens":    {"print": map[string]any{"raw": "print"}},
				"fontFamily": {"sans": []any{"Inter", "sans-serif"}},
				"zIndex":     {"60": 60.0},
			},
		},
	}

	assert.NoError(t, f.Validate())
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name  string
		frag  Fragment
		field string
	}{
		{"unknown mode", Fragment{Mode: "turbo"}, "mode"},
		{"unknown dark mode", Fragment{DarkMode: "auto"}, "darkMode"},
		{"empty glob", Fragment{Content: []string{"./src/**", "  "}}, "content[1]"},
		{"bare exclusion", Fragment{Content: []string{"!"}}, "content[0]"},
		{"invalid glob", Fragment{Content: []string{"src/[a-"}}, "content[0]"},
		{"empty safelist entry", Fragment{Safelist: []string{""}}, "safelist[0]"},
		{"safelist entry with space", Fragment{Safelist: []string{"bg-red-200 text-white"}}, "safelist[0]"},
		{"empty plugin", Fragment{Plugins: []string{" "}}, "plugins[0]"},
		{
			"nil extension category",
			Fragment{Theme: Theme{Extend: map[string]map[string]any{"colors": nil}}},
			"theme.extend.colors",
		},
		{
			"nested extend",
			Fragment{Theme: Theme{Extend: map[string]map[string]any{"extend": {}}}},
			"theme.extend.extend",
		},
		{
			"extend as category",
			Fragment{Theme: Theme{Categories: map[string]map[string]any{"extend": {}}}},
			"theme.extend",
		},
		{
			"null token",
			Fragment{Theme: Theme{Extend: map[string]map[string]any{"colors": {"brand": nil}}}},
			"theme.extend.colors",
		},
		{
			"unsupported token type",
			Fragment{Theme: Theme{Categories: map[string]map[string]any{"colors": {"brand": struct{}{}}}}},
			"theme.colors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frag.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrMalformedFragment))

			var detail *oerrors.DetailError
			require.True(t, errors.As(err, &detail))
			assert.Equal(t, tt.field, detail.Field)
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "print.yaml", Fragment{Name: "print.yaml"}.Label(3))
	assert.Equal(t, "fragment[3]", Fragment{}.Label(3))
}

func TestNormalizeGlob(t *testing.T) {
	assert.Equal(t, "src/**/*.rs", NormalizeGlob("./src/**/*.rs"))
	assert.Equal(t, "src/vendor/**", NormalizeGlob("!./src/vendor/**"))
	assert.True(t, IsExclusion("!dist/**"))
	assert.False(t, IsExclusion("dist/**"))
}
