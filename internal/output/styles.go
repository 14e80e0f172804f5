package output

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. These are the single source of truth; never use inline
// lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: fragment names, paths, globs.
	ColorCyan = lipgloss.Color("14")

	// ColorYellow is used for shadowed values and conflicts.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for removed entries and failures.
	ColorRed = lipgloss.Color("196")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (fragment names, token paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (separators, empty cells).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleBold styles headings and root nodes.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleShadowed styles values that were overwritten by a later fragment.
	StyleShadowed = lipgloss.NewStyle().Foreground(ColorYellow).Strikethrough(true)

	// StyleWarning styles conflict notices.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a #rgb or #rrggbb color literal.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Swatch renders a two-cell block in the given hex color. Values that are
// not hex colors render as an empty string.
func Swatch(hex string) string {
	if !IsHexColor(hex) {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
