// Package color names the colors keypoint draws with.
package color

import "github.com/charmbracelet/lipgloss"

// The terminal's own sixteen colors, so CLI output follows the user's theme.
const (
	Red      = lipgloss.Color("1")
	Green    = lipgloss.Color("2")
	Yellow   = lipgloss.Color("3")
	Blue     = lipgloss.Color("4")
	Purple   = lipgloss.Color("5")
	Cyan     = lipgloss.Color("6")
	HiRed    = lipgloss.Color("9")
	HiPurple = lipgloss.Color("13")
)

// Fixed colors of the player screens.
const (
	Milk     = lipgloss.Color("#f6f1e7")
	Ink      = lipgloss.Color("#1d1b18")
	Graphite = lipgloss.Color("#5b5750")
	Ash      = lipgloss.Color("#a39e94")
	Amber    = lipgloss.Color("#f2a93b")
	Coral    = lipgloss.Color("#ef6f5e")
	Sage     = lipgloss.Color("#8fb573")
)
