package bootstrap

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	captureinadapter "formai/internal/modules/capture/adapter/in"
	captureoutadapter "formai/internal/modules/capture/adapter/out"
	capturein "formai/internal/modules/capture/port/in"
	captureservice "formai/internal/modules/capture/service"
	captureusecase "formai/internal/modules/capture/usecase"
	sessioninadapter "formai/internal/modules/session/adapter/in"
	sessionoutadapter "formai/internal/modules/session/adapter/out"
	sessiondto "formai/internal/modules/session/dto"
	sessionin "formai/internal/modules/session/port/in"
	sessionservice "formai/internal/modules/session/service"
	sessionusecase "formai/internal/modules/session/usecase"
	"formai/internal/platform/clock"
	"formai/internal/platform/config"
	"formai/internal/platform/id"
	uiapp "formai/internal/ui/app"
)

type App struct {
	Session    sessionin.Usecase
	Capture    capturein.Usecase
	SessionCLI sessioninadapter.CLIHandler
	CaptureCLI captureinadapter.CLIHandler
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	if err := os.MkdirAll(cfg.ClipDir, 0o755); err != nil {
		return nil, fmt.Errorf("create clip dir: %w", err)
	}

	gateway := sessionoutadapter.NewHTTPGateway(cfg.APIBaseURL)
	identity := sessionoutadapter.NewFileIdentityStore(cfg.StateDir)
	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(gateway, identity))

	history, err := captureoutadapter.NewSQLiteHistoryStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new history store: %w", err)
	}
	captureUC := captureusecase.NewInteractor(captureservice.NewCaptureService(
		captureoutadapter.NewFFmpegRecorder(clk),
		captureoutadapter.NewHTTPAnalyzer(cfg.APIBaseURL),
		history,
		clk,
		ids,
		cfg.ClipDir,
	))

	return &App{
		Session:    sessionUC,
		Capture:    captureUC,
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		CaptureCLI: captureinadapter.NewCLIHandler(captureUC),
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Session, app.Capture)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Session mutations from any code path fan out to every screen
	// through the observer, so the UI always renders the same snapshot
	// the store holds.
	unsubscribe := app.Session.Subscribe(func(snap sessiondto.SnapshotOutput) {
		program.Send(uiapp.SnapshotChangedMsg{Snapshot: snap})
	})
	defer unsubscribe()

	_, err := program.Run()
	return err
}
