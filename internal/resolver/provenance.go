package resolver

import (
	"slices"
	"strconv"
	"strings"
)

// Kind classifies a provenance entry.
type Kind string

const (
	KindScalar   Kind = "scalar"
	KindTheme    Kind = "theme"
	KindContent  Kind = "content"
	KindSafelist Kind = "safelist"
	KindPlugin   Kind = "plugin"
)

// SourcedValue is a value together with the fragment that supplied it.
type SourcedValue struct {
	Source string `json:"source"`
	Value  any    `json:"value"`
}

// Entry records where one resolved value came from.
type Entry struct {
	// Path addresses the value, e.g. "mode", "theme.extend.colors.brand.500",
	// or "content[0]" for list members.
	Path string `json:"path"`

	Kind   Kind   `json:"kind"`
	Value  any    `json:"value"`
	Source string `json:"source"`

	// Shadowed holds earlier values of the same path, oldest first.
	Shadowed []SourcedValue `json:"shadowed,omitempty"`

	// seq is the index of the fragment that set the value.
	seq int
}

// Provenance maps every resolved scalar, theme leaf, and list member to the
// fragment that supplied it.
type Provenance struct {
	entries map[string]*Entry
}

func newProvenance() *Provenance {
	return &Provenance{entries: make(map[string]*Entry)}
}

// Len returns the number of entries.
func (p *Provenance) Len() int {
	return len(p.entries)
}

// Lookup returns the entry for path.
func (p *Provenance) Lookup(path string) (Entry, bool) {
	e, ok := p.entries[path]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Entries returns all entries grouped by kind, then sorted by path.
// List members keep their position order.
func (p *Provenance) Entries() []Entry {
	out := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if a.Kind != b.Kind {
			return kindOrder(a.Kind) - kindOrder(b.Kind)
		}
		if ia, ib := listIndex(a.Path), listIndex(b.Path); ia >= 0 && ib >= 0 {
			return ia - ib
		}
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

// Introduced returns the fragment that first contributed value to a list
// field (content, safelist, or plugins).
func (p *Provenance) Introduced(kind Kind, value string) (string, bool) {
	for _, e := range p.entries {
		if e.Kind == kind && e.Value == value {
			return e.Source, true
		}
	}
	return "", false
}

func (p *Provenance) set(e *Entry) {
	p.entries[e.Path] = e
}

// removeTree deletes path and everything below it, returning what was removed.
func (p *Provenance) removeTree(path string) map[string]*Entry {
	removed := make(map[string]*Entry)
	for k, e := range p.entries {
		if k == path || strings.HasPrefix(k, path+".") {
			removed[k] = e
			delete(p.entries, k)
		}
	}
	return removed
}

// history returns the shadowed chain an entry contributes when overwritten.
func (e *Entry) history() []SourcedValue {
	out := slices.Clone(e.Shadowed)
	return append(out, SourcedValue{Source: e.Source, Value: e.Value})
}

func kindOrder(k Kind) int {
	switch k {
	case KindScalar:
		return 0
	case KindContent:
		return 1
	case KindTheme:
		return 2
	case KindPlugin:
		return 3
	default:
		return 4
	}
}

// listIndex parses the index of "field[i]" paths, or -1.
func listIndex(path string) int {
	open := strings.IndexByte(path, '[')
	if open < 0 || !strings.HasSuffix(path, "]") {
		return -1
	}
	n, err := strconv.Atoi(path[open+1 : len(path)-1])
	if err != nil {
		return -1
	}
	return n
}
