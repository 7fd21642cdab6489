package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "formai/internal/modules/session/dto"
	"formai/internal/ui/components"
	"formai/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.SnapshotOutput, error)
	Register(ctx context.Context, input sessiondto.RegisterInput) (sessiondto.SnapshotOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// AuthDoneMsg bubbles up to the app model, which re-derives the visible
// screen from the snapshot.
type AuthDoneMsg struct {
	Snapshot sessiondto.SnapshotOutput
	Err      error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port        SessionPort
	form        components.Form
	spinner     spinner.Model
	registering bool
	busy        bool
	errText     string
	width       int
	height      int
}

func loginFields() []components.Field {
	return []components.Field{
		{Name: "username", Label: "Username", Placeholder: "username"},
		{Name: "password", Label: "Password", Placeholder: "password", Secret: true},
	}
}

func registerFields() []components.Field {
	return []components.Field{
		{Name: "username", Label: "Username", Placeholder: "username"},
		{Name: "password", Label: "Password", Placeholder: "password", Secret: true},
		{Name: "email", Label: "Email", Placeholder: "you@example.com"},
		{Name: "full_name", Label: "Full name", Placeholder: "Jordan Doe"},
		{Name: "sport_id", Label: "Sport", Placeholder: "table_tennis | cricket"},
		{Name: "skill_level", Label: "Skill", Placeholder: "Beginner | Intermediate | Advanced | Pro"},
	}
}

func New(port SessionPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent(""))
	return Model{
		port:    port,
		form:    components.NewForm(loginFields()),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.form.Focus()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case AuthDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.errText = ""
		}
		return m, nil

	case components.FormSubmitMsg:
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.errText = ""
		return m, tea.Batch(m.spinner.Tick, m.submitCmd(msg.Values))

	case components.FormCancelMsg:
		m.errText = ""
		return m, nil

	case tea.KeyMsg:
		// ctrl+r flips between sign-in and account creation.
		if msg.String() == "ctrl+r" && !m.busy {
			m.registering = !m.registering
			if m.registering {
				m.form = components.NewForm(registerFields())
			} else {
				m.form = components.NewForm(loginFields())
			}
			m.errText = ""
			return m, m.form.Focus()
		}
	}

	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := "FormAi — Sign In"
	hint := "enter: sign in  ctrl+r: create account  ctrl+c: quit"
	if m.registering {
		title = "FormAi — Create Account"
		hint = "enter: next/submit  ctrl+r: back to sign in  ctrl+c: quit"
	}

	var sb strings.Builder
	sb.WriteString(theme.AccentTitle("").Render(title) + "\n\n")
	sb.WriteString(m.form.View() + "\n\n")
	if m.busy {
		sb.WriteString(m.spinner.View() + " Contacting AI Labs…\n")
	} else if m.errText != "" {
		sb.WriteString(theme.Bad.Render(m.errText) + "\n")
	}
	sb.WriteString(theme.Faint.Render(hint))

	pane := theme.AccentPane("").Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

func (m Model) submitCmd(values map[string]string) tea.Cmd {
	register := m.registering
	return func() tea.Msg {
		var (
			snap sessiondto.SnapshotOutput
			err  error
		)
		if register {
			snap, err = m.port.Register(context.Background(), sessiondto.RegisterInput{
				Username:   values["username"],
				Password:   values["password"],
				Email:      values["email"],
				FullName:   values["full_name"],
				SportID:    values["sport_id"],
				SkillLevel: values["skill_level"],
			})
		} else {
			snap, err = m.port.Login(context.Background(), sessiondto.LoginInput{
				Username: values["username"],
				Password: values["password"],
			})
		}
		return AuthDoneMsg{Snapshot: snap, Err: err}
	}
}
