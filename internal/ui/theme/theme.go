package theme

import "github.com/charmbracelet/lipgloss"

// DefaultAccent is the amber brand color used whenever no sport theme
// is active (pre-onboarding, reload failures).
const DefaultAccent = "#FFC107"

var (
	Base     = lipgloss.Color("#000000")
	Mantle   = lipgloss.Color("#111111")
	Surface0 = lipgloss.Color("#1a1a1a")
	Surface1 = lipgloss.Color("#333333")
	Text     = lipgloss.Color("#ffffff")
	Subtext0 = lipgloss.Color("#888888")
	Subtext1 = lipgloss.Color("#666666")
	Red      = lipgloss.Color("#F44336")
	Green    = lipgloss.Color("#4CAF50")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title = lipgloss.NewStyle().Foreground(Text).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Faint = lipgloss.NewStyle().Foreground(Subtext1)
	Bad   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Green).Bold(true)
)

// Accent resolves a sport theme color, falling back to the brand amber
// when the profile carries none.
func Accent(hex string) lipgloss.Color {
	if hex == "" {
		hex = DefaultAccent
	}
	return lipgloss.Color(hex)
}

// AccentTitle is a bold headline tinted with the active sport color.
func AccentTitle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Accent(hex)).Bold(true)
}

// AccentPane is a bordered pane tinted with the active sport color.
func AccentPane(hex string) lipgloss.Style {
	return Pane.BorderForeground(Accent(hex))
}
