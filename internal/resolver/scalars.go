package resolver

import (
	"fmt"
	"strconv"

	"dario.cat/mergo"

	"github.com/tailcfg/cli/internal/fragment"
)

// scalars is the block of single-valued settings. Every field is a string so
// that mergo's override treats "unset" uniformly as the zero value, including
// important=false, which is held as "false".
type scalars struct {
	Mode      string
	Prefix    string
	Separator string
	DarkMode  string
	Important string
}

func scalarsOf(f fragment.Fragment) scalars {
	s := scalars{
		Mode:      f.Mode,
		Prefix:    f.Prefix,
		Separator: f.Separator,
		DarkMode:  f.DarkMode,
	}
	if f.Important != nil {
		s.Important = strconv.FormatBool(*f.Important)
	}
	return s
}

// fields lists the block in output order, keyed by schema name.
func (s scalars) fields() []scalarField {
	return []scalarField{
		{"mode", s.Mode},
		{"prefix", s.Prefix},
		{"separator", s.Separator},
		{"darkMode", s.DarkMode},
		{"important", s.Important},
	}
}

type scalarField struct {
	name  string
	value string
}

// apply writes the block into cfg.
func (s scalars) apply(cfg *fragment.Fragment) {
	cfg.Mode = s.Mode
	cfg.Prefix = s.Prefix
	cfg.Separator = s.Separator
	cfg.DarkMode = s.DarkMode
	cfg.Important = nil
	if s.Important != "" {
		b := s.Important == "true"
		cfg.Important = &b
	}
}

// overlay merges next over acc: every non-empty field of next wins.
func overlay(acc *scalars, next scalars) error {
	if err := mergo.Merge(acc, next, mergo.WithOverride); err != nil {
		return fmt.Errorf("merging scalar settings: %w", err)
	}
	return nil
}

// scalarValue converts a stored scalar back to its typed form for provenance.
func scalarValue(name, v string) any {
	if name == "important" {
		return v == "true"
	}
	return v
}
