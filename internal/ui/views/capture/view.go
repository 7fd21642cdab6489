package capture

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	capturedto "formai/internal/modules/capture/dto"
	"formai/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type CapturePort interface {
	Begin(ctx context.Context, input capturedto.BeginInput) (capturedto.StateOutput, error)
	RetryPermissions(ctx context.Context) (capturedto.StateOutput, error)
	StartRecording(ctx context.Context) (capturedto.StateOutput, error)
	StopRecording(ctx context.Context) (capturedto.StateOutput, error)
	AwaitRecording(ctx context.Context) (capturedto.StateOutput, error)
	RetryUpload(ctx context.Context) (capturedto.StateOutput, error)
	Dismiss(ctx context.Context) (capturedto.StateOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// StateMsg carries the pipeline state after any capture operation.
type StateMsg struct {
	State capturedto.StateOutput
	Err   error
}

// boundaryMsg arrives when the recorder hits the duration limit on its
// own; if the user already stopped, the pipeline made it a no-op.
type boundaryMsg struct {
	State capturedto.StateOutput
	Err   error
}

// ClosedMsg tells the app model the practice screen was dismissed.
type ClosedMsg struct{}

// ResultLandedMsg tells the app model a fresh analysis exists, so the
// profile view can refresh its history list.
type ResultLandedMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    CapturePort
	spinner spinner.Model
	state   capturedto.StateOutput
	accent  string
	userID  string
	sportID string
	errText string
	width   int
	height  int
}

func New(port CapturePort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent(""))
	return Model{port: port, spinner: sp}
}

// Open mounts the pipeline for the given identity and sport and returns
// the command that runs Begin.
func (m *Model) Open(userID, sportID, accent string) tea.Cmd {
	m.userID = userID
	m.sportID = sportID
	m.accent = accent
	m.errText = ""
	m.state = capturedto.StateOutput{}
	return tea.Batch(m.spinner.Tick, m.beginCmd())
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StateMsg:
		return m.applyState(msg.State, msg.Err)

	case boundaryMsg:
		// Identical handling; the separate type exists so a late
		// boundary event cannot be mistaken for a user action result.
		return m.applyState(msg.State, msg.Err)

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			switch m.state.Phase {
			case "ready":
				// After a failed upload this discards the kept clip and
				// records fresh; u resubmits instead.
				return m, m.startCmd()
			case "recording":
				return m, m.stopCmd()
			case "idle":
				// Degraded platform: the toggle only flips feedback.
				return m, m.startCmd()
			}
		case "u":
			if m.state.Phase == "ready" && m.state.HasClip {
				return m, tea.Batch(m.spinner.Tick, m.retryUploadCmd())
			}
		case "r":
			if m.state.Phase == "blocked" {
				return m, tea.Batch(m.spinner.Tick, m.retryPermissionsCmd())
			}
		case "esc":
			return m, m.dismissCmd()
		}
	}
	return m, nil
}

func (m Model) applyState(state capturedto.StateOutput, err error) (Model, tea.Cmd) {
	if err != nil {
		m.errText = err.Error()
		return m, nil
	}
	m.errText = ""
	prevPhase := m.state.Phase
	m.state = state

	var cmds []tea.Cmd
	if state.Phase == "recording" && prevPhase != "recording" {
		// Arm the boundary watcher; it blocks until the duration limit
		// auto-stops the recording.
		cmds = append(cmds, m.awaitCmd())
	}
	if state.Phase == "result_ready" && prevPhase != "result_ready" {
		cmds = append(cmds, func() tea.Msg { return ResultLandedMsg{} })
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.AccentTitle(m.accent).Render("Practice") + "\n\n")

	switch m.state.Phase {
	case "recording":
		sb.WriteString(theme.Bad.Render("● REC") + "  " + m.state.Feedback + "\n\n")
		sb.WriteString(theme.Faint.Render("space: stop & analyze  esc: cancel"))
	case "uploading", "permission_pending":
		sb.WriteString(m.spinner.View() + " " + m.state.Feedback + "\n")
	case "blocked":
		sb.WriteString(theme.Bad.Render(m.state.Feedback) + "\n\n")
		sb.WriteString(theme.Faint.Render("r: retry access  esc: close"))
	case "result_ready":
		sb.WriteString(m.renderResult())
	case "ready":
		sb.WriteString(m.state.Feedback + "\n\n")
		if m.state.HasClip {
			sb.WriteString(theme.Faint.Render("u: retry upload  space: record again  esc: close"))
		} else {
			sb.WriteString(theme.Faint.Render("space: start recording  esc: close"))
		}
	default:
		sb.WriteString(m.state.Feedback + "\n\n")
		sb.WriteString(theme.Faint.Render("esc: close"))
	}

	if m.errText != "" {
		sb.WriteString("\n" + theme.Bad.Render(m.errText))
	}

	pane := theme.AccentPane(m.accent).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

func (m Model) renderResult() string {
	r := m.state.Result
	if r == nil {
		return theme.Muted.Render("No result.")
	}
	var sb strings.Builder
	sb.WriteString(theme.Good.Render(m.state.Feedback) + "\n\n")
	sb.WriteString(theme.AccentTitle(m.accent).Render(r.ScoreDisplay) + "\n\n")
	sb.WriteString(r.Summary + "\n")
	if len(r.DetailedFlaws) > 0 {
		sb.WriteString("\n" + theme.Title.Render("What to fix") + "\n")
		for _, flaw := range r.DetailedFlaws {
			sb.WriteString("  " + theme.Title.Render("·") + " " + flaw + "\n")
		}
	}
	if r.EquipmentAdvice != "" {
		sb.WriteString("\n" + theme.Title.Render("Equipment") + "\n  " + r.EquipmentAdvice + "\n")
	}
	sb.WriteString("\n" + theme.Faint.Render("esc: done"))
	return sb.String()
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) beginCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.port.Begin(context.Background(), capturedto.BeginInput{
			UserID:  m.userID,
			SportID: m.sportID,
		})
		return StateMsg{State: state, Err: err}
	}
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.port.StartRecording(context.Background())
		return StateMsg{State: state, Err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.port.StopRecording(context.Background())
		return StateMsg{State: state, Err: err}
	}
}

func (m Model) awaitCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.port.AwaitRecording(context.Background())
		return boundaryMsg{State: state, Err: err}
	}
}

func (m Model) retryUploadCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.port.RetryUpload(context.Background())
		return StateMsg{State: state, Err: err}
	}
}

func (m Model) retryPermissionsCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.port.RetryPermissions(context.Background())
		return StateMsg{State: state, Err: err}
	}
}

func (m Model) dismissCmd() tea.Cmd {
	return func() tea.Msg {
		_, _ = m.port.Dismiss(context.Background())
		return ClosedMsg{}
	}
}
