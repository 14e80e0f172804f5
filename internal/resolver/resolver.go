// Package resolver merges an ordered sequence of configuration fragments into
// one resolved configuration.
//
// Resolution is a pure fold over the fragments:
//
//   - theme.extend categories are deep-merged, later leaves overwriting earlier ones
//   - other theme categories replace the accumulated category wholesale
//   - content, safelist, and plugins are unions in first-seen order
//   - scalar settings take the latest non-empty value
//
// Every input fragment is validated before anything is merged, and inputs are
// never mutated.
package resolver

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/fragment"
	"github.com/tailcfg/cli/internal/output"
	"github.com/tailcfg/cli/internal/palette"
)

// Options controls resolution.
type Options struct {
	// Strict rejects a scalar set to different values by two fragments.
	Strict bool

	// ExpandPalette replaces {colors.<hue>.<shade>} references in theme
	// values with default palette colors.
	ExpandPalette bool
}

// Conflict is a scalar field set to different values by more than one
// fragment. Values lists every setting in application order; the last wins.
type Conflict struct {
	Field  string         `json:"field"`
	Values []SourcedValue `json:"values"`
}

// Result is the outcome of a resolution.
type Result struct {
	// Config is the merged configuration. Its list fields are never nil.
	Config fragment.Fragment

	// Conflicts lists scalar conflicts that were settled by the last value.
	// Always empty in strict mode, which fails instead.
	Conflicts []Conflict

	// Provenance records where every resolved value came from.
	Provenance *Provenance
}

// Resolve merges fragments in order. The first fragment is the base layer and
// each following fragment is applied on top of the accumulated result.
func Resolve(fragments []fragment.Fragment, opts Options) (*Result, error) {
	if len(fragments) == 0 {
		return nil, oerrors.NewMalformedFragmentError(
			"no configuration fragments to resolve", "", "",
			"Pass fragment files as arguments or list them under fragments in tailcfg.yaml")
	}

	prepared, err := prepare(fragments, opts)
	if err != nil {
		return nil, err
	}

	r := newRun(opts)
	for i, f := range prepared {
		output.Debug("applying fragment", "fragment", f.Name, "position", i)
		if err := r.apply(i, f); err != nil {
			return nil, err
		}
	}
	return r.result(), nil
}

// prepare copies, labels, validates, and optionally palette-expands every
// fragment before any merging happens.
func prepare(fragments []fragment.Fragment, opts Options) ([]fragment.Fragment, error) {
	out := make([]fragment.Fragment, len(fragments))
	for i, f := range fragments {
		c := f.Clone()
		c.Name = f.Label(i)
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if opts.ExpandPalette {
			if err := expandPalette(&c); err != nil {
				return nil, err
			}
		}
		out[i] = c
	}
	return out, nil
}

func expandPalette(f *fragment.Fragment) error {
	expand := func(categories map[string]map[string]any, prefix string) error {
		for _, name := range fragment.SortedKeys(categories) {
			tokens, err := palette.ExpandTokens(categories[name])
			if err != nil {
				field := JoinPath(prefix, name)
				var unknown *palette.UnknownReferenceError
				if errors.As(err, &unknown) && unknown.Path != "" {
					field = field + "." + unknown.Path
				}
				return oerrors.NewMalformedFragmentError(err.Error(), f.Name, field,
					"Palette references look like {colors.red.500}; known hues: "+strings.Join(palette.Hues(), ", "))
			}
			categories[name] = tokens
		}
		return nil
	}

	if err := expand(f.Theme.Categories, "theme"); err != nil {
		return err
	}
	return expand(f.Theme.Extend, JoinPath("theme", fragment.ExtendKey))
}

// run holds the accumulator of one resolution.
type run struct {
	opts  Options
	prov  *Provenance
	theme *themeMerger

	scalars scalars
	history map[string][]SourcedValue

	content  orderedSet
	safelist orderedSet
	plugins  orderedSet
}

func newRun(opts Options) *run {
	prov := newProvenance()
	return &run{
		opts:    opts,
		prov:    prov,
		theme:   newThemeMerger(prov),
		history: make(map[string][]SourcedValue),
	}
}

func (r *run) apply(seq int, f fragment.Fragment) error {
	if err := r.applyScalars(seq, f); err != nil {
		return err
	}

	r.theme.extendCategories(f.Theme.Extend, f.Name, seq)
	r.theme.replaceCategories(f.Theme.Categories, f.Name, seq)

	r.addAll(&r.content, KindContent, "content", f.Content, f.Name, seq)
	r.addAll(&r.safelist, KindSafelist, "safelist", f.Safelist, f.Name, seq)
	r.addAll(&r.plugins, KindPlugin, "plugins", f.Plugins, f.Name, seq)
	return nil
}

func (r *run) applyScalars(seq int, f fragment.Fragment) error {
	next := scalarsOf(f)
	current := r.scalars.fields()

	for i, field := range next.fields() {
		if field.value == "" {
			continue
		}
		prev := current[i].value
		if prev != "" && prev != field.value {
			if r.opts.Strict {
				last := r.history[field.name][len(r.history[field.name])-1]
				return oerrors.NewConflictingScalarError(field.name, map[string]string{
					"previous": fmt.Sprintf("%v (%s)", last.Value, last.Source),
					"value":    fmt.Sprintf("%s (%s)", field.value, f.Name),
				})
			}
			output.Warn("conflicting scalar, last value wins",
				"field", field.name, "previous", prev, "value", field.value, "fragment", f.Name)
		}

		sv := SourcedValue{Source: f.Name, Value: scalarValue(field.name, field.value)}
		e := &Entry{Path: field.name, Kind: KindScalar, Value: sv.Value, Source: f.Name, seq: seq}
		if prevEntry, ok := r.prov.entries[field.name]; ok {
			e.Shadowed = prevEntry.history()
		}
		r.prov.set(e)
		r.history[field.name] = append(r.history[field.name], sv)
	}

	return overlay(&r.scalars, next)
}

func (r *run) addAll(set *orderedSet, kind Kind, field string, values []string, source string, seq int) {
	for _, v := range values {
		if !set.add(v) {
			continue
		}
		r.prov.set(&Entry{
			Path:   fmt.Sprintf("%s[%d]", field, set.len()-1),
			Kind:   kind,
			Value:  v,
			Source: source,
			seq:    seq,
		})
	}
}

func (r *run) result() *Result {
	cfg := fragment.Fragment{
		Content:  r.content.values(),
		Plugins:  r.plugins.values(),
		Safelist: r.safelist.values(),
		Theme:    r.theme.theme,
	}
	r.scalars.apply(&cfg)

	conflicts := make([]Conflict, 0)
	for _, field := range r.scalars.fields() {
		values := r.history[field.name]
		if distinct(values) > 1 {
			conflicts = append(conflicts, Conflict{Field: field.name, Values: slices.Clone(values)})
		}
	}

	output.Debug("resolved configuration",
		"content", len(cfg.Content),
		"safelist", len(cfg.Safelist),
		"plugins", len(cfg.Plugins),
		"categories", len(cfg.Theme.Categories),
		"extended", slices.Sorted(maps.Keys(cfg.Theme.Extend)),
		"conflicts", len(conflicts))

	return &Result{Config: cfg, Conflicts: conflicts, Provenance: r.prov}
}

func distinct(values []SourcedValue) int {
	seen := make(map[any]struct{}, len(values))
	for _, v := range values {
		seen[v.Value] = struct{}{}
	}
	return len(seen)
}
