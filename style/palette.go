package style

import "github.com/charmbracelet/lipgloss"

var (
	Text = lipgloss.Color("#cdd6f4")

	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")
	Sapphire = lipgloss.Color("#74c7ec")

	AccentColor    = Peach
	SecondaryColor = Sapphire
	WarningColor   = Yellow
	ErrorColor     = Red
)
