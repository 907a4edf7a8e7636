package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - active tab, fragment
	ColorHighlight = "205" // Magenta - focused group border
	ColorDanger    = "196" // Red - errors in the status line
	ColorMuted     = "241" // Gray - inactive tabs, hints
	ColorText      = "252" // Light gray - body text
)

// Styles contains the shared style definitions.
var Styles = struct {
	Heading lipgloss.Style // group name above its titles

	Tab       lipgloss.Style // inactive title
	ActiveTab lipgloss.Style // active title
	TabGap    lipgloss.Style // separator between titles

	Group        lipgloss.Style // unfocused group box
	FocusedGroup lipgloss.Style // focused group box
	Body         lipgloss.Style

	Fragment lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Hint     lipgloss.Style
}{
	Heading: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	ActiveTab: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)).
		Bold(true).
		Underline(true).
		Padding(0, 1),
	TabGap: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Group: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	FocusedGroup: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	Body: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		PaddingTop(1),
	Fragment: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
}
