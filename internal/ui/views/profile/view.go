package profile

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	capturedto "formai/internal/modules/capture/dto"
	sessiondto "formai/internal/modules/session/dto"
	"formai/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	History(ctx context.Context, limit int) ([]capturedto.HistoryItemOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type HistoryLoadedMsg struct {
	Items []capturedto.HistoryItemOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    HistoryPort
	snap    sessiondto.SnapshotOutput
	history []capturedto.HistoryItemOutput
	histErr string
	width   int
	height  int
}

func New(port HistoryPort) Model {
	return Model{port: port}
}

func (m *Model) SetSnapshot(snap sessiondto.SnapshotOutput) {
	m.snap = snap
}

func (m Model) Init() tea.Cmd {
	return m.loadHistoryCmd()
}

// Refresh re-fetches the recent-analyses list, used after a practice
// session lands a new result.
func (m Model) Refresh() tea.Cmd {
	return m.loadHistoryCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.histErr = msg.Err.Error()
		} else {
			m.histErr = ""
			m.history = msg.Items
		}
	}
	return m, nil
}

func (m Model) View() string {
	accent := m.snap.Sport.ThemeColor
	var sb strings.Builder

	sb.WriteString(theme.AccentTitle(accent).Render(m.snap.Profile.FullName) + "\n")
	sb.WriteString(theme.Muted.Render("@"+m.snap.Profile.Username) + "\n\n")

	sb.WriteString(theme.Title.Render("Stats") + "\n")
	sb.WriteString(theme.Muted.Render("tier:     ") + m.snap.Stats.Tier + "\n")
	sb.WriteString(theme.Muted.Render("points:   ") + fmt.Sprintf("%d", m.snap.Stats.Points) + "\n")
	sb.WriteString(theme.Muted.Render("accuracy: ") + fmt.Sprintf("%.1f%%", m.snap.Stats.AccuracyPercent) + "\n\n")

	sb.WriteString(theme.Title.Render("Recent Analyses") + "\n")
	switch {
	case m.histErr != "":
		sb.WriteString(theme.Bad.Render(m.histErr) + "\n")
	case len(m.history) == 0:
		sb.WriteString(theme.Muted.Render("No analyses yet. Press p to practice.") + "\n")
	default:
		for _, item := range m.history {
			sb.WriteString(fmt.Sprintf("%s  %s  %s\n",
				theme.Faint.Render(item.CreatedAt.Format("2006-01-02 15:04")),
				theme.AccentTitle(accent).Render(item.ScoreDisplay),
				item.Summary))
		}
	}

	pane := theme.AccentPane(accent).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

func (m Model) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.port.History(context.Background(), 5)
		return HistoryLoadedMsg{Items: items, Err: err}
	}
}
