package home

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "formai/internal/modules/session/dto"
	"formai/internal/ui/theme"
)

// Model is the dashboard: a read-only projection of the active session
// snapshot. All mutation happens through other screens.
type Model struct {
	snap   sessiondto.SnapshotOutput
	width  int
	height int
}

func New() Model { return Model{} }

// SetSnapshot replaces the rendered context. The app model calls this on
// every session mutation.
func (m *Model) SetSnapshot(snap sessiondto.SnapshotOutput) {
	m.snap = snap
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sz.Width
		m.height = sz.Height
	}
	return m, nil
}

func (m Model) View() string {
	accent := m.snap.Sport.ThemeColor
	var sb strings.Builder

	sb.WriteString(theme.AccentTitle(accent).Render(m.snap.Sport.DisplayName) + "\n")
	sb.WriteString(theme.Muted.Render(m.snap.Sport.SkillLevel) + "\n\n")

	stats := []struct {
		label string
		value string
	}{
		{"Tier", m.snap.Stats.Tier},
		{"Points", fmt.Sprintf("%d", m.snap.Stats.Points)},
		{"Accuracy", fmt.Sprintf("%.1f%%", m.snap.Stats.AccuracyPercent)},
	}
	cells := make([]string, 0, len(stats))
	for _, s := range stats {
		cell := theme.Pane.Render(
			theme.AccentTitle(accent).Render(s.value) + "\n" + theme.Muted.Render(s.label))
		cells = append(cells, cell)
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n\n")

	sb.WriteString(theme.Muted.Render("Welcome back, ") +
		theme.Title.Render(m.snap.Profile.FullName) + "\n\n")
	sb.WriteString(theme.Faint.Render("p: practice  tab: switch screen  q: quit"))

	pane := theme.AccentPane(accent).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}
