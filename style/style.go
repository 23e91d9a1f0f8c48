// Package style renders text in the keypoint palette.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/keypoint-cli/keypoint/color"
)

// Roles the screens draw with.
var (
	Accent  = color.Amber
	Muted   = color.Ash
	Success = color.Sage
	Warning = color.Yellow
	Danger  = color.Coral
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(color.Ink).Background(color.Amber).Padding(0, 1)
	errorTitleStyle = titleStyle.Background(color.Coral)
)

// New is a blank style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer painting its argument in c.
func Fg(c lipgloss.Color) func(string) string {
	st := lipgloss.NewStyle().Foreground(c)
	return func(s string) string { return st.Render(s) }
}

// Tag returns a renderer drawing its argument as a padded block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	st := lipgloss.NewStyle().Foreground(fg).Background(bg).Padding(0, 1)
	return func(s string) string { return st.Render(s) }
}

func Faint(s string) string { return lipgloss.NewStyle().Faint(true).Render(s) }

func Bold(s string) string { return lipgloss.NewStyle().Bold(true).Render(s) }

// Title renders a screen banner.
func Title(s string) string { return titleStyle.Render(s) }

// ErrorTitle renders the banner of an error screen.
func ErrorTitle(s string) string { return errorTitleStyle.Render(s) }
