package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailcfg/cli/internal/fragment"
)

func TestProvenance_ShadowedLeafHistory(t *testing.T) {
	ext := func(v string) map[string]map[string]any {
		return map[string]map[string]any{"colors": {"brand": v}}
	}
	res := resolve(t, Options{},
		fragment.Fragment{Name: "a", Theme: fragment.Theme{Extend: ext("#111111")}},
		fragment.Fragment{Name: "b", Theme: fragment.Theme{Extend: ext("#222222")}},
		fragment.Fragment{Name: "c", Theme: fragment.Theme{Extend: ext("#333333")}},
	)

	e, ok := res.Provenance.Lookup("theme.extend.colors.brand")
	require.True(t, ok)
	assert.Equal(t, "#333333", e.Value)
	assert.Equal(t, "c", e.Source)
	assert.Equal(t, []SourcedValue{
		{Source: "a", Value: "#111111"},
		{Source: "b", Value: "#222222"},
	}, e.Shadowed)
}

func TestProvenance_LeafReplacingMapping(t *testing.T) {
	res := resolve(t, Options{},
		fragment.Fragment{Name: "a", Theme: fragment.Theme{Extend: map[string]map[string]any{
			"colors": {"brand": map[string]any{"500": "#111111"}},
		}}},
		fragment.Fragment{Name: "b", Theme: fragment.Theme{Extend: map[string]map[string]any{
			"colors": {"brand": "#222222"},
		}}},
	)

	_, ok := res.Provenance.Lookup("theme.extend.colors.brand.500")
	assert.False(t, ok)

	e, ok := res.Provenance.Lookup("theme.extend.colors.brand")
	require.True(t, ok)
	assert.Equal(t, []SourcedValue{{Source: "a", Value: map[string]any{"500": "#111111"}}}, e.Shadowed)
}

func TestProvenance_LeafBackOverMappingKeepsEarlierLeaf(t *testing.T) {
	leaf := fragment.Theme{Extend: map[string]map[string]any{"colors": {"x": "leaf"}}}
	mapping := fragment.Theme{Extend: map[string]map[string]any{"colors": {"x": map[string]any{"n": "v"}}}}

	res := resolve(t, Options{},
		fragment.Fragment{Name: "a", Theme: leaf},
		fragment.Fragment{Name: "b", Theme: mapping},
		fragment.Fragment{Name: "c", Theme: leaf},
	)

	e, ok := res.Provenance.Lookup("theme.extend.colors.x")
	require.True(t, ok)
	assert.Equal(t, "leaf", e.Value)
	assert.Equal(t, "c", e.Source)
	assert.Equal(t, []SourcedValue{
		{Source: "a", Value: "leaf"},
		{Source: "b", Value: map[string]any{"n": "v"}},
	}, e.Shadowed)

	_, ok = res.Provenance.Lookup("theme.extend.colors.x.n")
	assert.False(t, ok)
}

func TestProvenance_CategoryReplacementKeepsMatchingHistory(t *testing.T) {
	res := resolve(t, Options{},
		fragment.Fragment{Name: "a", Theme: fragment.Theme{Categories: map[string]map[string]any{
			"screens": {"sm": "640px", "md": "768px"},
		}}},
		fragment.Fragment{Name: "b", Theme: fragment.Theme{Categories: map[string]map[string]any{
			"screens": {"sm": "600px"},
		}}},
	)

	e, ok := res.Provenance.Lookup("theme.screens.sm")
	require.True(t, ok)
	assert.Equal(t, "b", e.Source)
	assert.Equal(t, []SourcedValue{{Source: "a", Value: "640px"}}, e.Shadowed)

	_, ok = res.Provenance.Lookup("theme.screens.md")
	assert.False(t, ok)
}

func TestProvenance_ScalarsAndLists(t *testing.T) {
	res := resolve(t, Options{},
		fragment.Fragment{Name: "a", Mode: fragment.ModeJIT, Content: []string{"./a/**"}, Safelist: []string{"p-4"}},
		fragment.Fragment{Name: "b", Mode: fragment.ModeAll, Content: []string{"./a/**", "./b/**"}, Plugins: []string{"forms"}},
	)

	mode, ok := res.Provenance.Lookup("mode")
	require.True(t, ok)
	assert.Equal(t, KindScalar, mode.Kind)
	assert.Equal(t, "b", mode.Source)
	assert.Equal(t, []SourcedValue{{Source: "a", Value: "jit"}}, mode.Shadowed)

	src, ok := res.Provenance.Introduced(KindContent, "./a/**")
	require.True(t, ok)
	assert.Equal(t, "a", src)

	src, ok = res.Provenance.Introduced(KindContent, "./b/**")
	require.True(t, ok)
	assert.Equal(t, "b", src)

	_, ok = res.Provenance.Introduced(KindSafelist, "m-2")
	assert.False(t, ok)

	paths := make([]string, 0)
	for _, e := range res.Provenance.Entries() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"mode", "content[0]", "content[1]", "plugins[0]", "safelist[0]"}, paths)
}

func TestProvenance_ImportantIsBool(t *testing.T) {
	important := true
	res := resolve(t, Options{}, fragment.Fragment{Name: "a", Important: &important})

	e, ok := res.Provenance.Lookup("important")
	require.True(t, ok)
	assert.Equal(t, true, e.Value)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "theme", JoinPath("", "theme"))
	assert.Equal(t, "theme.spacing", JoinPath("theme", "spacing"))
	assert.Equal(t, `theme.spacing."0.5"`, JoinPath("theme.spacing", "0.5"))
}

func TestListIndex(t *testing.T) {
	assert.Equal(t, 3, listIndex("content[3]"))
	assert.Equal(t, 12, listIndex("safelist[12]"))
	assert.Equal(t, -1, listIndex("mode"))
	assert.Equal(t, -1, listIndex("content[x]"))
}
