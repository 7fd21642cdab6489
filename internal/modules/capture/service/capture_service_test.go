package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"formai/internal/modules/capture/domain"
	captureout "formai/internal/modules/capture/port/out"
	"formai/internal/modules/capture/service"
	apperrors "formai/internal/platform/errors"
)

type fakeRecording struct {
	mu      sync.Mutex
	clip    domain.Clip
	stopped bool
	// boundary closes when the max-duration boundary fires.
	boundary chan struct{}
}

func (r *fakeRecording) Stop(_ context.Context) (domain.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	return r.clip, nil
}

func (r *fakeRecording) Wait(_ context.Context) (domain.Clip, error) {
	if r.boundary != nil {
		<-r.boundary
	}
	return r.clip, nil
}

type fakeRecorder struct {
	probeErr  error
	accessErr error
	startErr  error
	last      *fakeRecording
	boundary  chan struct{}
	starts    int
}

func (f *fakeRecorder) Probe(context.Context) error         { return f.probeErr }
func (f *fakeRecorder) RequestAccess(context.Context) error { return f.accessErr }

func (f *fakeRecorder) Start(_ context.Context, spec captureout.RecordingSpec) (captureout.Recording, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.starts++
	f.last = &fakeRecording{
		clip:     domain.Clip{ID: fmt.Sprintf("clip-%d", f.starts), Path: spec.Path, Duration: spec.MaxDuration},
		boundary: f.boundary,
	}
	return f.last, nil
}

type fakeAnalyzer struct {
	mu       sync.Mutex
	result   domain.AnalysisResult
	err      error
	calls    int
	lastClip domain.Clip
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _, _ string, clip domain.Clip) (domain.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastClip = clip
	if f.err != nil {
		return domain.AnalysisResult{}, f.err
	}
	return f.result, nil
}

type memoryHistory struct {
	mu      sync.Mutex
	records []domain.HistoryRecord
}

func (m *memoryHistory) Append(_ context.Context, record domain.HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *memoryHistory) Recent(_ context.Context, limit int) ([]domain.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[:limit], nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func newService(rec *fakeRecorder, an *fakeAnalyzer) (*service.CaptureService, *memoryHistory) {
	history := &memoryHistory{}
	clk := fixedClock{at: time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC)}
	svc := service.NewCaptureService(rec, an, history, clk, &seqID{}, "/tmp/clips")
	return svc, history
}

func begin(t *testing.T, svc *service.CaptureService) {
	t.Helper()
	if err := svc.Begin(context.Background(), "u1", "cricket"); err != nil {
		t.Fatalf("begin: %v", err)
	}
}

func TestHappyPathRecordUploadDismiss(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{}
	an := &fakeAnalyzer{result: domain.AnalysisResult{
		TechnicalScore:  8.5,
		Summary:         "Strong base, slow recovery.",
		DetailedFlaws:   []string{"late backswing", "poor footwork"},
		EquipmentAdvice: "Stiffer blade for control.",
	}}
	svc, history := newService(rec, an)
	begin(t, svc)

	if got := svc.State().Phase; got != domain.PhaseReady {
		t.Fatalf("expected ready after permissions, got %s", got)
	}
	if err := svc.StartRecording(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := svc.State(); got.Phase != domain.PhaseRecording || got.LastFeedback != "Watching your form..." {
		t.Fatalf("unexpected recording state %+v", got)
	}
	if err := svc.StopRecording(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	state := svc.State()
	if state.Phase != domain.PhaseResultReady {
		t.Fatalf("expected result ready, got %s", state.Phase)
	}
	if state.Result == nil || state.Result.ScoreDisplay() != "8.5/10" {
		t.Fatalf("score must render verbatim, got %+v", state.Result)
	}
	if len(state.Result.DetailedFlaws) != 2 || state.Result.DetailedFlaws[0] != "late backswing" || state.Result.DetailedFlaws[1] != "poor footwork" {
		t.Fatalf("flaw order must be preserved, got %v", state.Result.DetailedFlaws)
	}
	if len(history.records) != 1 {
		t.Fatalf("expected one history record, got %d", len(history.records))
	}

	svc.Dismiss(context.Background())
	state = svc.State()
	if state.Phase != domain.PhaseIdle || state.Clip != nil || state.Result != nil {
		t.Fatalf("dismiss must fully reset the session, got %+v", state)
	}
}

func TestStartIsOnlyValidFromReady(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{}
	svc, _ := newService(rec, &fakeAnalyzer{})
	begin(t, svc)

	if err := svc.StartRecording(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.StartRecording(context.Background()); err != apperrors.ErrInvalidPhase {
		t.Fatalf("second start must be refused, got %v", err)
	}
}

func TestFailedUploadKeepsClipAndRetrySucceeds(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{}
	an := &fakeAnalyzer{err: fmt.Errorf("%w: dial tcp refused", apperrors.ErrUnavailable)}
	svc, _ := newService(rec, an)
	begin(t, svc)

	if err := svc.StartRecording(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.StopRecording(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	state := svc.State()
	if state.Phase != domain.PhaseReady {
		t.Fatalf("failed upload must return to ready, got %s", state.Phase)
	}
	if state.Clip == nil {
		t.Fatal("clip handle must survive a failed upload")
	}
	if state.LastFeedback != "AI Analysis Failed. Check connection." {
		t.Fatalf("unexpected feedback %q", state.LastFeedback)
	}
	keptClip := state.Clip.ID

	an.mu.Lock()
	an.err = nil
	an.result = domain.AnalysisResult{TechnicalScore: 7}
	an.mu.Unlock()
	if err := svc.RetryUpload(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	state = svc.State()
	if state.Phase != domain.PhaseResultReady {
		t.Fatalf("manual retry must succeed without re-recording, got %s", state.Phase)
	}
	if an.lastClip.ID != keptClip {
		t.Fatalf("retry must reuse the same clip, got %s vs %s", an.lastClip.ID, keptClip)
	}
	if an.calls != 2 {
		t.Fatalf("expected exactly two uploads, got %d", an.calls)
	}
}

func TestBoundaryAutoStopUploadsExactlyOnce(t *testing.T) {
	t.Parallel()
	boundary := make(chan struct{})
	rec := &fakeRecorder{boundary: boundary}
	an := &fakeAnalyzer{result: domain.AnalysisResult{TechnicalScore: 6}}
	svc, _ := newService(rec, an)
	begin(t, svc)

	if err := svc.StartRecording(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- svc.AwaitRecording(context.Background()) }()

	close(boundary)
	if err := <-done; err != nil {
		t.Fatalf("await: %v", err)
	}
	if got := svc.State().Phase; got != domain.PhaseResultReady {
		t.Fatalf("expected result after boundary stop, got %s", got)
	}
	if an.calls != 1 {
		t.Fatalf("boundary stop must upload exactly once, got %d", an.calls)
	}
}

func TestUserStopBeatsBoundaryWithoutDoubleUpload(t *testing.T) {
	t.Parallel()
	boundary := make(chan struct{})
	rec := &fakeRecorder{boundary: boundary}
	an := &fakeAnalyzer{result: domain.AnalysisResult{TechnicalScore: 6}}
	svc, _ := newService(rec, an)
	begin(t, svc)

	if err := svc.StartRecording(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	awaited := make(chan error, 1)
	go func() { awaited <- svc.AwaitRecording(context.Background()) }()

	if err := svc.StopRecording(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	close(boundary)
	if err := <-awaited; err != nil {
		t.Fatalf("await after user stop: %v", err)
	}
	if an.calls != 1 {
		t.Fatalf("user stop plus boundary must still upload once, got %d", an.calls)
	}
}

func TestPermissionDeniedBlocksUntilRetry(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{accessErr: apperrors.ErrPermissionDenied}
	svc, _ := newService(rec, &fakeAnalyzer{})
	begin(t, svc)

	state := svc.State()
	if state.Phase != domain.PhaseBlocked {
		t.Fatalf("denied access must block the pipeline, got %s", state.Phase)
	}
	if err := svc.StartRecording(context.Background()); err != apperrors.ErrInvalidPhase {
		t.Fatalf("blocked pipeline must refuse recording, got %v", err)
	}

	rec.accessErr = nil
	if err := svc.RetryPermissions(context.Background()); err != nil {
		t.Fatalf("retry permissions: %v", err)
	}
	if got := svc.State().Phase; got != domain.PhaseReady {
		t.Fatalf("expected ready after granted retry, got %s", got)
	}
}

func TestUnsupportedPlatformDegradesToFeedbackToggle(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{probeErr: apperrors.ErrRecordingUnsupported}
	an := &fakeAnalyzer{}
	svc, _ := newService(rec, an)
	begin(t, svc)

	if got := svc.State().Phase; got != domain.PhaseIdle {
		t.Fatalf("degraded pipeline must stay idle, got %s", got)
	}
	if err := svc.StartRecording(context.Background()); err != nil {
		t.Fatalf("degraded toggle: %v", err)
	}
	state := svc.State()
	if state.Phase != domain.PhaseIdle {
		t.Fatalf("degraded toggle must not change phase, got %s", state.Phase)
	}
	if state.LastFeedback == "Ready to start?" {
		t.Fatal("degraded toggle must explain the limitation")
	}
	if err := svc.StopRecording(context.Background()); err != nil {
		t.Fatalf("degraded stop: %v", err)
	}
	if got := svc.State().LastFeedback; got != "Ready to start?" {
		t.Fatalf("degraded stop must restore the prompt, got %q", got)
	}
	if an.calls != 0 {
		t.Fatal("degraded pipeline must never upload")
	}
	if rec.starts != 0 {
		t.Fatal("degraded pipeline must never start the recorder")
	}
}

func TestBeginRequiresSessionContext(t *testing.T) {
	t.Parallel()
	svc, _ := newService(&fakeRecorder{}, &fakeAnalyzer{})
	if err := svc.Begin(context.Background(), "", "cricket"); err != apperrors.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if err := svc.Begin(context.Background(), "u1", ""); err != apperrors.ErrNotOnboarded {
		t.Fatalf("expected ErrNotOnboarded, got %v", err)
	}
}

func TestAnalyzeFileRecordsHistory(t *testing.T) {
	t.Parallel()
	an := &fakeAnalyzer{result: domain.AnalysisResult{TechnicalScore: 9, Summary: "clean swing"}}
	svc, history := newService(&fakeRecorder{}, an)

	result, err := svc.AnalyzeFile(context.Background(), "u1", "cricket", "/tmp/swing.mp4")
	if err != nil {
		t.Fatalf("analyze file: %v", err)
	}
	if result.TechnicalScore != 9 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(history.records) != 1 || history.records[0].SportID != "cricket" {
		t.Fatalf("expected history record, got %+v", history.records)
	}
}

func TestStaleBoundaryWatcherCannotClaimNewRecording(t *testing.T) {
	t.Parallel()
	boundary := make(chan struct{})
	rec := &fakeRecorder{boundary: boundary}
	an := &fakeAnalyzer{err: fmt.Errorf("%w: dial tcp refused", apperrors.ErrUnavailable)}
	svc, _ := newService(rec, an)
	begin(t, svc)

	if err := svc.StartRecording(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	awaited := make(chan error, 1)
	go func() { awaited <- svc.AwaitRecording(context.Background()) }()

	// User stop wins; the upload fails and the pipeline returns to ready
	// with the first clip kept while the watcher is still blocked.
	if err := svc.StopRecording(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if got := svc.State().Phase; got != domain.PhaseReady {
		t.Fatalf("failed upload must return to ready, got %s", got)
	}

	an.mu.Lock()
	an.err = nil
	an.result = domain.AnalysisResult{TechnicalScore: 7}
	an.mu.Unlock()
	rec.boundary = nil
	if err := svc.StartRecording(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}

	// The first recording's watcher resolves only now. It must not claim
	// the second recording's stop.
	close(boundary)
	if err := <-awaited; err != nil {
		t.Fatalf("stale watcher must resolve as a no-op, got %v", err)
	}
	if got := svc.State().Phase; got != domain.PhaseRecording {
		t.Fatalf("second recording must keep running, got %s", got)
	}
	if an.calls != 1 {
		t.Fatalf("stale watcher must not upload, got %d calls", an.calls)
	}

	// The second recording still stops and uploads its own clip.
	if err := svc.StopRecording(context.Background()); err != nil {
		t.Fatalf("stop second recording: %v", err)
	}
	if an.lastClip.ID != "clip-2" {
		t.Fatalf("uploaded clip = %s, want clip-2", an.lastClip.ID)
	}
}
