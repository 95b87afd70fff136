// Package style holds the rendering helpers shared by the player and the CLI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gurbani-cli/gurbani/color"
)

// New returns an empty lipgloss.Style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored initializes a new style with the specified foreground and background colors.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a rendering function that applies the foreground color.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a header banner.
var Title = func(s string) string {
	return Colored(color.Cream, color.Kesri).Padding(0, 1).Render(s)
}

// ErrorTitle renders a header banner for failures.
var ErrorTitle = func(s string) string {
	return Colored(color.Cream, color.Red).Padding(0, 1).Render(s)
}

// Transport colors a transport label: playing is the accent, buffering is a warning, the rest are faint.
func Transport(label string) string {
	switch label {
	case "playing":
		return Fg(AccentColor)(label)
	case "buffering":
		return Fg(WarningColor)(label)
	default:
		return Faint(label)
	}
}
