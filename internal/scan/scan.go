// Package scan expands content globs against a directory tree.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/fragment"
	"github.com/tailcfg/cli/internal/output"
)

// Match is a file selected by a content glob.
type Match struct {
	// Path is slash-separated and relative to the scan root.
	Path string

	// Glob is the first include pattern that selected the file, as written.
	Glob string
}

type pattern struct {
	raw  string
	glob string
}

// Files walks root and returns every file matched by an include glob and no
// exclusion glob. Patterns prefixed with "!" exclude; a leading "./" is
// ignored. The result is sorted by path and free of duplicates.
func Files(ctx context.Context, root string, globs []string) ([]Match, error) {
	includes, excludes, err := compile(globs)
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	var matches []Match
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			output.Debug("skipping unreadable path", "path", path, "err", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, p := range excludes {
			if ok, _ := doublestar.Match(p.glob, rel); ok {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}

		for _, p := range includes {
			if ok, _ := doublestar.Match(p.glob, rel); ok {
				matches = append(matches, Match{Path: rel, Glob: p.raw})
				break
			}
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, oerrors.NewNotFoundError(fmt.Sprintf("cannot scan %s: %v", root, err), root,
			"Point --root at the project directory the content globs are relative to")
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Path < matches[j].Path })
	output.Debug("content scan finished", "root", absRoot, "files", len(matches))
	return matches, nil
}

// Paths returns the paths of matches.
func Paths(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Path
	}
	return out
}

func compile(globs []string) (includes, excludes []pattern, err error) {
	seen := make(map[string]bool, len(globs))
	for i, raw := range globs {
		if err := fragment.ValidateGlob(raw); err != nil {
			return nil, nil, oerrors.NewMalformedFragmentError(err.Error(), "", fmt.Sprintf("content[%d]", i), "")
		}
		p := pattern{raw: raw, glob: fragment.NormalizeGlob(raw)}
		key := p.glob
		if fragment.IsExclusion(raw) {
			key = "!" + key
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		if fragment.IsExclusion(raw) {
			excludes = append(excludes, p)
		} else {
			includes = append(includes, p)
		}
	}
	return includes, excludes, nil
}

// Summary describes matches per glob, for logging.
func Summary(matches []Match) string {
	counts := map[string]int{}
	for _, m := range matches {
		counts[m.Glob]++
	}
	parts := make([]string, 0, len(counts))
	for _, g := range fragment.SortedKeys(counts) {
		parts = append(parts, fmt.Sprintf("%s=%d", g, counts[g]))
	}
	return strings.Join(parts, " ")
}
