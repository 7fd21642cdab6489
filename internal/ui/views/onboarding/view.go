package onboarding

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "formai/internal/modules/session/dto"
	"formai/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	Onboard(ctx context.Context, input sessiondto.OnboardInput) (sessiondto.SnapshotOutput, error)
	Reload(ctx context.Context) (sessiondto.SnapshotOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type OnboardDoneMsg struct {
	Snapshot sessiondto.SnapshotOutput
	Err      error
}

type ReloadDoneMsg struct {
	Snapshot sessiondto.SnapshotOutput
	Err      error
}

// ─── sports catalog ──────────────────────────────────────────────────────────

// Sport is one onboarding choice. The catalog mirrors what the backend
// currently serves; sport_id is the wire identifier.
type Sport struct {
	ID    string
	Name  string
	Color string
}

func Catalog() []Sport {
	return []Sport{
		{ID: "table_tennis", Name: "Table Tennis", Color: "#FFC107"},
		{ID: "cricket", Name: "Cricket", Color: "#1976D2"},
	}
}

type sportItem struct{ sport Sport }

func (i sportItem) Title() string       { return i.sport.Name }
func (i sportItem) Description() string { return i.sport.ID }
func (i sportItem) FilterValue() string { return i.sport.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port         SessionPort
	list         list.Model
	spinner      spinner.Model
	busy         bool
	errText      string
	reloadFailed bool
	width        int
	height       int
}

func New(port SessionPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.Accent("")).BorderForeground(theme.Accent(""))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.Subtext0).BorderForeground(theme.Accent(""))

	items := make([]list.Item, 0, 2)
	for _, s := range Catalog() {
		items = append(items, sportItem{sport: s})
	}
	l := list.New(items, delegate, 0, 0)
	l.Title = "Choose Your Sport"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent(""))

	return Model{port: port, list: l, spinner: sp}
}

// SetReloadFailed flips the retry banner shown when the last context
// fetch failed on connectivity rather than confirming an empty profile.
func (m *Model) SetReloadFailed(failed bool) {
	m.reloadFailed = failed
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

	case OnboardDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.errText = ""
		}
		return m, nil

	case ReloadDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.errText = ""
			m.reloadFailed = msg.Snapshot.ReloadFailed
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(sportItem); ok {
				m.busy = true
				m.errText = ""
				return m, tea.Batch(m.spinner.Tick, m.onboardCmd(item.sport.ID))
			}
		case "r":
			if m.reloadFailed {
				m.busy = true
				m.errText = ""
				return m, tea.Batch(m.spinner.Tick, m.reloadCmd())
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var body string
	switch {
	case m.busy:
		body = m.spinner.View() + " Setting up your training…"
	default:
		body = m.list.View()
		if m.reloadFailed {
			body += "\n" + theme.Bad.Render("Couldn't reach AI Labs.") +
				theme.Muted.Render("  r: retry")
		}
		if m.errText != "" {
			body += "\n" + theme.Bad.Render(m.errText)
		}
		body += "\n" + theme.Faint.Render("enter: select  q: quit")
	}
	pane := theme.AccentPane("").Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

func (m Model) onboardCmd(sportID string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.port.Onboard(context.Background(), sessiondto.OnboardInput{
			SportID:    sportID,
			SkillLevel: "Beginner",
		})
		return OnboardDoneMsg{Snapshot: snap, Err: err}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.port.Reload(context.Background())
		return ReloadDoneMsg{Snapshot: snap, Err: err}
	}
}
