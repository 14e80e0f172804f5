package cmdutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/tailcfg/cli/internal/output"
	"github.com/tailcfg/cli/internal/resolver"
)

// FormatValue renders a resolved value for a table cell. Strings print as
// written; everything else prints in its JSON-like form.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(val)
	}
}

// FormatShadowed renders the values an entry overwrote, oldest first.
func FormatShadowed(values []resolver.SourcedValue) string {
	parts := make([]string, len(values))
	for i, sv := range values {
		parts[i] = fmt.Sprintf("%s (%s)", FormatValue(sv.Value), sv.Source)
	}
	return strings.Join(parts, ", ")
}

// WriteConflicts lists settled scalar conflicts, one line per field.
func WriteConflicts(w io.Writer, conflicts []resolver.Conflict) {
	for _, c := range conflicts {
		line := fmt.Sprintf("conflict: %s set by %s, last value wins", c.Field, FormatShadowed(c.Values))
		fmt.Fprintln(w, output.StyleWarning.Render(line))
	}
}
