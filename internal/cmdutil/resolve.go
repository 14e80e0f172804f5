package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailcfg/cli/internal/cmdtypes"
	"github.com/tailcfg/cli/internal/config"
	oerrors "github.com/tailcfg/cli/internal/errors"
	"github.com/tailcfg/cli/internal/fragment"
	"github.com/tailcfg/cli/internal/output"
	"github.com/tailcfg/cli/internal/resolver"
)

// FragmentPaths returns the fragment files a command operates on: its
// arguments when given, else the settings list anchored at the settings
// file's directory. The order is the merge order.
func FragmentPaths(args []string, gc *cmdtypes.GlobalConfig) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	settings, err := gc.Require()
	if err != nil {
		return nil, err
	}
	paths := settings.FragmentPaths(gc.BaseDir())
	if len(paths) == 0 {
		return nil, oerrors.NewMalformedFragmentError(
			"no configuration fragments to resolve", gc.Path(), "fragments",
			"Pass fragment files as arguments or list them under fragments in tailcfg.yaml")
	}
	return paths, nil
}

// LoadFragments loads and validates fragment files in order.
func LoadFragments(ctx context.Context, paths []string) ([]fragment.Fragment, error) {
	loader, err := fragment.NewLoader()
	if err != nil {
		return nil, err
	}
	fragments, err := loader.LoadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	for i, f := range fragments {
		output.FragmentLogger(f.Label(i)).Debug("loaded",
			"content", len(f.Content), "plugins", len(f.Plugins), "safelist", len(f.Safelist))
	}
	return fragments, nil
}

// ResolveResult is the outcome of the shared load-and-resolve preamble.
type ResolveResult struct {
	*resolver.Result

	// Paths are the fragment files in merge order.
	Paths []string
}

// Resolve loads the fragments named by args (or the settings) and resolves
// them with the settings' strictness and palette options.
func Resolve(ctx context.Context, args []string, gc *cmdtypes.GlobalConfig) (*ResolveResult, error) {
	settings, err := gc.Require()
	if err != nil {
		return nil, err
	}

	paths, err := FragmentPaths(args, gc)
	if err != nil {
		return nil, err
	}

	fragments, err := LoadFragments(ctx, paths)
	if err != nil {
		return nil, err
	}

	output.Debug("resolving fragments", "count", len(fragments), "strict", settings.Strict, "palette", settings.ExpandPalette)
	res, err := resolver.Resolve(fragments, resolver.Options{
		Strict:        settings.Strict,
		ExpandPalette: settings.ExpandPalette,
	})
	if err != nil {
		return nil, err
	}
	return &ResolveResult{Result: res, Paths: paths}, nil
}

// OutputFormat returns the format to encode with. A format chosen by flag,
// environment, or settings file wins; otherwise a destination file's
// extension decides, falling back to the default format.
func OutputFormat(gc *cmdtypes.GlobalConfig, path string) (output.Format, error) {
	settings, err := gc.Require()
	if err != nil {
		return "", err
	}
	format, err := output.ParseFormat(settings.Output.Format)
	if err != nil {
		return "", oerrors.NewValidationError(err.Error(), gc.Path(), "output.format",
			"Use one of: "+strings.Join(output.ValidFormats(), ", "))
	}
	if path == "" || explicit(gc, "output.format") {
		return format, nil
	}
	return output.FormatForPath(path, format), nil
}

// explicit reports whether a settings key was set by anything but its default.
func explicit(gc *cmdtypes.GlobalConfig, key string) bool {
	for _, v := range gc.Values {
		if v.Key == key {
			return v.Source != config.SourceDefault
		}
	}
	return false
}

// WriteConfig encodes cfg and writes it to path, or to w when path is empty.
func WriteConfig(w io.Writer, path string, cfg fragment.Fragment, format output.Format) error {
	data, err := output.Marshal(cfg, format)
	if err != nil {
		return err
	}

	if path == "" {
		_, err = w.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	output.Debug("configuration written", "path", path, "format", format, "bytes", len(data))
	return nil
}
