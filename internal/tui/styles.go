package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	lineFg    = lipgloss.Color("#3B82F6")
	selectFg  = lipgloss.Color("#F59E0B")
	startFg   = lipgloss.Color("#60A5FA")
	endFg     = lipgloss.Color("#EF4444")
	gpsFg     = lipgloss.Color("#10B981")
	errFg     = lipgloss.Color("#F87171")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errStyle   = lipgloss.NewStyle().Foreground(errFg)
	gpsStyle   = lipgloss.NewStyle().Foreground(gpsFg)
	focusStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
)

// cellKind selects how a map cell is painted.
type cellKind uint8

const (
	kindEmpty cellKind = iota
	kindBasemap
	kindLine
	kindSelected
	kindStart
	kindEnd
	kindPending
	kindPosition
	kindLabel
	kindHover
)

var cellStyles = map[cellKind]lipgloss.Style{
	kindBasemap:  dimStyle,
	kindLine:     lipgloss.NewStyle().Foreground(lineFg),
	kindSelected: lipgloss.NewStyle().Foreground(selectFg).Bold(true),
	kindStart:    lipgloss.NewStyle().Foreground(startFg),
	kindEnd:      lipgloss.NewStyle().Foreground(endFg),
	kindPending:  lipgloss.NewStyle().Foreground(selectFg).Blink(true),
	kindPosition: gpsStyle.Bold(true),
	kindLabel:    lipgloss.NewStyle().Foreground(baseFg).Background(lipgloss.Color("#1E3A8A")),
	kindHover:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
}
