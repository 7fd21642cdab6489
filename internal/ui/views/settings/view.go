package settings

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "formai/internal/modules/session/dto"
	"formai/internal/ui/theme"
	"formai/internal/ui/views/onboarding"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	SwitchSport(ctx context.Context, sportID string) (sessiondto.SnapshotOutput, error)
	Logout(ctx context.Context) (sessiondto.SnapshotOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SwitchDoneMsg struct {
	Snapshot sessiondto.SnapshotOutput
	Err      error
}

type LogoutDoneMsg struct {
	Snapshot sessiondto.SnapshotOutput
	Err      error
}

// ─── model ───────────────────────────────────────────────────────────────────

type sportItem struct{ sport onboarding.Sport }

func (i sportItem) Title() string       { return i.sport.Name }
func (i sportItem) Description() string { return i.sport.ID }
func (i sportItem) FilterValue() string { return i.sport.Name }

type Model struct {
	port    SessionPort
	list    list.Model
	spinner spinner.Model
	snap    sessiondto.SnapshotOutput
	busy    bool
	errText string
	width   int
	height  int
}

func New(port SessionPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.Accent("")).BorderForeground(theme.Accent(""))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.Subtext0).BorderForeground(theme.Accent(""))

	items := make([]list.Item, 0, 2)
	for _, s := range onboarding.Catalog() {
		items = append(items, sportItem{sport: s})
	}
	l := list.New(items, delegate, 0, 0)
	l.Title = "Switch Sport"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent(""))

	return Model{port: port, list: l, spinner: sp}
}

func (m *Model) SetSnapshot(snap sessiondto.SnapshotOutput) {
	m.snap = snap
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-8, msg.Height-10)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SwitchDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.errText = ""
		}
		return m, nil

	case LogoutDoneMsg:
		m.busy = false
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(sportItem); ok {
				// Switching to the current sport is a no-op reload; the
				// backend keeps the skill tier either way.
				m.busy = true
				m.errText = ""
				return m, tea.Batch(m.spinner.Tick, m.switchCmd(item.sport.ID))
			}
		case "x":
			m.busy = true
			return m, tea.Batch(m.spinner.Tick, m.logoutCmd())
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	accent := m.snap.Sport.ThemeColor
	var sb strings.Builder
	if m.busy {
		sb.WriteString(m.spinner.View() + " Working…")
	} else {
		sb.WriteString(m.list.View() + "\n")
		if m.errText != "" {
			sb.WriteString(theme.Bad.Render(m.errText) + "\n")
		}
		sb.WriteString(theme.Faint.Render("enter: switch sport  x: log out"))
	}
	pane := theme.AccentPane(accent).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

func (m Model) switchCmd(sportID string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.port.SwitchSport(context.Background(), sportID)
		return SwitchDoneMsg{Snapshot: snap, Err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.port.Logout(context.Background())
		return LogoutDoneMsg{Snapshot: snap, Err: err}
	}
}
