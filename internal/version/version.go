// Package version provides version information for tailcfg.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version.
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// cueModule is the module path whose version is reported as the schema engine.
const cueModule = "cuelang.org/go"

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`

	// CUEVersion is the version of the embedded CUE evaluator that checks
	// fragment schemas, or "unknown" outside a module build.
	CUEVersion string `json:"cueVersion"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:    Version,
		GitCommit:  GitCommit,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		CUEVersion: depVersion(cueModule),
	}
}

// depVersion returns the version of a dependency linked into the binary.
func depVersion(path string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range bi.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("tailcfg version %s\n  Commit:  %s\n  Built:   %s\n  Go:      %s\n  CUE:     %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.CUEVersion)
}
