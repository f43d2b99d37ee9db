package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, ink and paper tones with a vermilion accent
var (
	Primary   = lipgloss.Color("#E0523E") // Vermilion
	Secondary = lipgloss.Color("#3B82A0") // Indigo blue
	Accent    = lipgloss.Color("#E9B949") // Gold
	Success   = lipgloss.Color("#4CAF7A") // Green
	Error     = lipgloss.Color("#E25C6A") // Rose
	Text      = lipgloss.Color("#F4F1EA") // Paper
	TextDim   = lipgloss.Color("#9AA3AF") // Grey
	BgDark    = lipgloss.Color("#111418") // Ink
	BgCard    = lipgloss.Color("#1C2128") // Slate
	Border    = lipgloss.Color("#343B45") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Saved = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent)
)
