package resolver

import (
	"strconv"
	"strings"

	"github.com/tailcfg/cli/internal/fragment"
)

// themeMerger folds theme sections into an accumulated theme and keeps the
// provenance of every leaf current.
type themeMerger struct {
	theme fragment.Theme
	prov  *Provenance

	// displaced holds the history of leaves that a mapping replaced, keyed
	// by path, until a leaf takes the path back.
	displaced map[string][]SourcedValue
}

func newThemeMerger(prov *Provenance) *themeMerger {
	return &themeMerger{
		theme: fragment.Theme{
			Categories: make(map[string]map[string]any),
			Extend:     make(map[string]map[string]any),
		},
		prov:      prov,
		displaced: make(map[string][]SourcedValue),
	}
}

// replaceCategories sets each category of src wholesale, dropping whatever
// an earlier fragment put there.
func (m *themeMerger) replaceCategories(src map[string]map[string]any, source string, seq int) {
	for _, name := range fragment.SortedKeys(src) {
		path := JoinPath("theme", name)
		removed := m.prov.removeTree(path)

		tokens := fragment.CloneTokens(src[name])
		if tokens == nil {
			tokens = map[string]any{}
		}
		var old any
		if prev, ok := m.theme.Categories[name]; ok {
			old = prev
		}
		m.theme.Categories[name] = tokens
		m.recordTree(path, tokens, old, source, seq, removed)
	}
}

// extendCategories deep-merges each category of src into the accumulated
// extension.
func (m *themeMerger) extendCategories(src map[string]map[string]any, source string, seq int) {
	for _, name := range fragment.SortedKeys(src) {
		path := JoinPath(JoinPath("theme", fragment.ExtendKey), name)
		dst, ok := m.theme.Extend[name]
		if !ok {
			dst = make(map[string]any, len(src[name]))
			m.theme.Extend[name] = dst
		}
		m.mergeTokens(dst, src[name], path, source, seq)
	}
}

// mergeTokens merges src into dst recursively. Mappings on both sides merge;
// any other pairing is an overwrite by src.
func (m *themeMerger) mergeTokens(dst, src map[string]any, path, source string, seq int) {
	for _, key := range fragment.SortedKeys(src) {
		sv := src[key]
		p := JoinPath(path, key)

		dv, exists := dst[key]
		dm, dstIsMap := dv.(map[string]any)
		sm, srcIsMap := sv.(map[string]any)
		if exists && dstIsMap && srcIsMap {
			if len(dm) == 0 && len(sm) > 0 {
				m.displace(p, m.prov.removeTree(p))
			}
			m.mergeTokens(dm, sm, p, source, seq)
			continue
		}

		removed := m.prov.removeTree(p)
		value := fragment.CloneValue(sv)
		dst[key] = value
		m.recordTree(p, value, dv, source, seq, removed)
	}
}

// recordTree adds provenance for every leaf under path. old is the value
// previously stored at path, walked in parallel. A leaf that replaces an
// earlier leaf inherits its history; a leaf that replaces a whole mapping
// shadows that mapping as one value, after whatever the mapping displaced.
func (m *themeMerger) recordTree(path string, v, old any, source string, seq int, removed map[string]*Entry) {
	if tokens, ok := v.(map[string]any); ok && len(tokens) > 0 {
		m.displace(path, removed)
		oldTokens, _ := old.(map[string]any)
		for _, key := range fragment.SortedKeys(tokens) {
			m.recordTree(JoinPath(path, key), tokens[key], oldTokens[key], source, seq, removed)
		}
		return
	}

	e := &Entry{Path: path, Kind: KindTheme, Value: v, Source: source, seq: seq}
	if prev, ok := removed[path]; ok {
		e.Shadowed = prev.history()
	} else if oldTokens, ok := old.(map[string]any); ok && len(oldTokens) > 0 {
		e.Shadowed = append(m.displaced[path], SourcedValue{
			Source: latestSource(path, removed),
			Value:  fragment.CloneValue(oldTokens),
		})
	}
	delete(m.displaced, path)
	m.prov.set(e)
}

// displace keeps the history of a leaf at path that a mapping is about to
// replace.
func (m *themeMerger) displace(path string, removed map[string]*Entry) {
	if prev, ok := removed[path]; ok {
		m.displaced[path] = prev.history()
	}
}

// latestSource returns the source of the most recent fragment that wrote
// below path.
func latestSource(path string, removed map[string]*Entry) string {
	var latest *Entry
	for k, e := range removed {
		if !strings.HasPrefix(k, path+".") {
			continue
		}
		if latest == nil || e.seq > latest.seq {
			latest = e
		}
	}
	if latest == nil {
		return ""
	}
	return latest.Source
}

// JoinPath appends a key to a dotted provenance path. Keys that contain a dot
// themselves, such as spacing "0.5", are quoted.
func JoinPath(path, key string) string {
	if strings.Contains(key, ".") {
		key = strconv.Quote(key)
	}
	if path == "" {
		return key
	}
	return path + "." + key
}
