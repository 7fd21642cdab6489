package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	capturedto "formai/internal/modules/capture/dto"
	sessiondto "formai/internal/modules/session/dto"
	"formai/internal/ui/theme"
	captureview "formai/internal/ui/views/capture"
	homeview "formai/internal/ui/views/home"
	loginview "formai/internal/ui/views/login"
	onboardingview "formai/internal/ui/views/onboarding"
	profileview "formai/internal/ui/views/profile"
	settingsview "formai/internal/ui/views/settings"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	Resume(ctx context.Context) (sessiondto.SnapshotOutput, error)
	Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.SnapshotOutput, error)
	Register(ctx context.Context, input sessiondto.RegisterInput) (sessiondto.SnapshotOutput, error)
	Logout(ctx context.Context) (sessiondto.SnapshotOutput, error)
	Onboard(ctx context.Context, input sessiondto.OnboardInput) (sessiondto.SnapshotOutput, error)
	SwitchSport(ctx context.Context, sportID string) (sessiondto.SnapshotOutput, error)
	Reload(ctx context.Context) (sessiondto.SnapshotOutput, error)
}

type capturePort interface {
	Begin(ctx context.Context, input capturedto.BeginInput) (capturedto.StateOutput, error)
	RetryPermissions(ctx context.Context) (capturedto.StateOutput, error)
	StartRecording(ctx context.Context) (capturedto.StateOutput, error)
	StopRecording(ctx context.Context) (capturedto.StateOutput, error)
	AwaitRecording(ctx context.Context) (capturedto.StateOutput, error)
	RetryUpload(ctx context.Context) (capturedto.StateOutput, error)
	Dismiss(ctx context.Context) (capturedto.StateOutput, error)
	History(ctx context.Context, limit int) ([]capturedto.HistoryItemOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabHome tabID = iota
	tabProfile
	tabSettings
	tabCount
)

var tabLabels = [tabCount]string{"Home", "Profile", "Settings"}

// ─── messages ────────────────────────────────────────────────────────────────

// SnapshotChangedMsg is pushed from outside the program whenever the
// session store mutates, keeping every screen level-triggered on the
// same snapshot.
type SnapshotChangedMsg struct {
	Snapshot sessiondto.SnapshotOutput
}

type resumeDoneMsg struct {
	snap sessiondto.SnapshotOutput
	err  error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Practice key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		Practice: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "practice")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Practice, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Practice},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It re-derives the visible screen
// from the session snapshot after every mutation: loading, login,
// onboarding, or the active tab set plus the practice overlay. All
// business logic is delegated to port interfaces.
type Model struct {
	session sessionPort

	loginView      loginview.Model
	onboardingView onboardingview.Model
	homeView       homeview.Model
	profileView    profileview.Model
	settingsView   settingsview.Model
	captureView    captureview.Model

	snap      sessiondto.SnapshotOutput
	activeTab tabID
	inCapture bool
	keys      keyMap
	help      help.Model
	showHelp  bool
	spinner   spinner.Model
	status    string
	width     int
	height    int
}

func NewModel(session sessionPort, capture capturePort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent(""))

	return Model{
		session:        session,
		loginView:      loginview.New(session),
		onboardingView: onboardingview.New(session),
		homeView:       homeview.New(),
		profileView:    profileview.New(capture),
		settingsView:   settingsview.New(session),
		captureView:    captureview.New(capture),
		snap:           sessiondto.SnapshotOutput{Loading: true, Nav: "loading"},
		keys:           defaultKeys(),
		help:           help.New(),
		spinner:        sp,
		status:         "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loginView.Init(),
		m.resumeCmd(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m.propagateSize()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds := []tea.Cmd{cmd}
		m = m.forwardToVisible(msg, &cmds)
		return m, tea.Batch(cmds...)

	case resumeDoneMsg:
		if msg.err != nil {
			m.status = "resume: " + msg.err.Error()
		}
		return m.applySnapshot(msg.snap)

	case SnapshotChangedMsg:
		return m.applySnapshot(msg.Snapshot)

	case loginview.AuthDoneMsg:
		var cmds []tea.Cmd
		m = m.forwardToVisible(msg, &cmds)
		if msg.Err == nil {
			model, cmd := m.applySnapshot(msg.Snapshot)
			return model, tea.Batch(append(cmds, cmd)...)
		}
		return m, tea.Batch(cmds...)

	case onboardingview.OnboardDoneMsg:
		var cmds []tea.Cmd
		m = m.forwardToVisible(msg, &cmds)
		if msg.Err == nil {
			model, cmd := m.applySnapshot(msg.Snapshot)
			return model, tea.Batch(append(cmds, cmd)...)
		}
		return m, tea.Batch(cmds...)

	case onboardingview.ReloadDoneMsg:
		var cmds []tea.Cmd
		m = m.forwardToVisible(msg, &cmds)
		if msg.Err == nil {
			model, cmd := m.applySnapshot(msg.Snapshot)
			return model, tea.Batch(append(cmds, cmd)...)
		}
		return m, tea.Batch(cmds...)

	case settingsview.SwitchDoneMsg:
		var cmds []tea.Cmd
		m = m.forwardToVisible(msg, &cmds)
		if msg.Err == nil {
			model, cmd := m.applySnapshot(msg.Snapshot)
			return model, tea.Batch(append(cmds, cmd)...)
		}
		return m, tea.Batch(cmds...)

	case settingsview.LogoutDoneMsg:
		var cmds []tea.Cmd
		m = m.forwardToVisible(msg, &cmds)
		model, cmd := m.applySnapshot(msg.Snapshot)
		return model, tea.Batch(append(cmds, cmd)...)

	case captureview.ClosedMsg:
		m.inCapture = false
		m.status = "ready"
		return m, nil

	case captureview.ResultLandedMsg:
		// A fresh analysis exists; the profile history list is stale.
		return m, m.profileView.Refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmds []tea.Cmd
	m = m.forwardToVisible(msg, &cmds)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	if m.inCapture {
		var cmd tea.Cmd
		m.captureView, cmd = m.captureView.Update(msg)
		return m, cmd
	}

	// Text-entry screens own the keyboard; only the active tab set gets
	// global bindings.
	if m.snap.Nav == "active" || m.snap.Nav == "onboarding" {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	}
	if m.snap.Nav == "active" {
		switch msg.String() {
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "p":
			m.inCapture = true
			m.status = "practice"
			cmd := m.captureView.Open(m.snap.UserID, m.snap.Sport.SportID, m.snap.Sport.ThemeColor)
			return m, cmd
		}
	}

	var cmds []tea.Cmd
	m = m.forwardToVisible(msg, &cmds)
	return m, tea.Batch(cmds...)
}

// applySnapshot is the single place nav state changes. Everything the
// screens render flows from here.
func (m Model) applySnapshot(snap sessiondto.SnapshotOutput) (tea.Model, tea.Cmd) {
	prevNav := m.snap.Nav
	m.snap = snap

	m.homeView.SetSnapshot(snap)
	m.profileView.SetSnapshot(snap)
	m.settingsView.SetSnapshot(snap)
	m.onboardingView.SetReloadFailed(snap.ReloadFailed)

	var cmds []tea.Cmd
	if snap.Nav != "active" {
		m.inCapture = false
	}
	if snap.Nav == "active" && prevNav != "active" {
		m.activeTab = tabHome
		cmds = append(cmds, m.profileView.Init())
	}
	if snap.Nav == "unauthenticated" && prevNav != "unauthenticated" {
		cmds = append(cmds, m.loginView.Init())
	}
	switch snap.Nav {
	case "loading":
		m.status = "loading"
	case "unauthenticated":
		m.status = "signed out"
	case "onboarding":
		m.status = "pick a sport"
	case "active":
		m.status = m.snap.Sport.DisplayName
	}
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	topBar := m.renderTopBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(topBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.inCapture:
		content = m.captureView.View()
	default:
		content = m.navView(contentH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, topBar, content, statusBar)
}

func (m Model) navView(contentH int) string {
	switch m.snap.Nav {
	case "loading":
		return lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Restoring your session…")
	case "unauthenticated":
		return m.loginView.View()
	case "onboarding":
		return m.onboardingView.View()
	default:
		switch m.activeTab {
		case tabHome:
			return m.homeView.View()
		case tabProfile:
			return m.profileView.View()
		case tabSettings:
			return m.settingsView.View()
		}
	}
	return ""
}

func (m Model) renderTopBar() string {
	accent := m.snap.Sport.ThemeColor
	brand := theme.AccentTitle(accent).Render("FormAi")
	if m.snap.Nav != "active" {
		return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).
			Render(" "+brand) + "\n"
	}
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.AccentTitle(accent).Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := " " + brand + "  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.snap.ReloadFailed {
		left = theme.Bad.Render("offline") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  p:practice  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// forwardToVisible routes a message to whichever screen is on display so
// spinners and async results reach the model that issued them.
func (m Model) forwardToVisible(msg tea.Msg, cmds *[]tea.Cmd) Model {
	var cmd tea.Cmd
	if m.inCapture {
		m.captureView, cmd = m.captureView.Update(msg)
		*cmds = append(*cmds, cmd)
		return m
	}
	switch m.snap.Nav {
	case "unauthenticated":
		m.loginView, cmd = m.loginView.Update(msg)
	case "onboarding":
		m.onboardingView, cmd = m.onboardingView.Update(msg)
	case "active":
		switch m.activeTab {
		case tabHome:
			m.homeView, cmd = m.homeView.Update(msg)
		case tabProfile:
			m.profileView, cmd = m.profileView.Update(msg)
		case tabSettings:
			m.settingsView, cmd = m.settingsView.Update(msg)
		}
	}
	*cmds = append(*cmds, cmd)
	return m
}

func (m Model) propagateSize() (tea.Model, tea.Cmd) {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.loginView, _ = m.loginView.Update(sz)
	m.onboardingView, _ = m.onboardingView.Update(sz)
	m.homeView, _ = m.homeView.Update(sz)
	m.profileView, _ = m.profileView.Update(sz)
	m.settingsView, _ = m.settingsView.Update(sz)
	m.captureView, _ = m.captureView.Update(sz)
	return m, nil
}

func (m Model) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.session.Resume(context.Background())
		return resumeDoneMsg{snap: snap, err: err}
	}
}
