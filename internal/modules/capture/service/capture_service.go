package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"formai/internal/modules/capture/domain"
	captureout "formai/internal/modules/capture/port/out"
	"formai/internal/platform/clock"
	apperrors "formai/internal/platform/errors"
	"formai/internal/platform/id"
)

const (
	feedbackReady       = "Ready to start?"
	feedbackPermissions = "Requesting camera & microphone access..."
	feedbackBlocked     = "No access to camera or microphone"
	feedbackRecording   = "Watching your form..."
	feedbackUploading   = "Syncing to AI Labs..."
	feedbackComplete    = "Analysis Complete!"
	feedbackUploadFail  = "AI Analysis Failed. Check connection."
	feedbackUnsupported = "Recording is unavailable here. Use `formai analyze <clip>` with a saved video."
)

// CaptureService drives the capture pipeline: permission acquisition,
// bounded recording, upload, result materialization. It reads its identity
// and sport once at Begin and never writes back into session state.
type CaptureService struct {
	mu       sync.Mutex
	recorder captureout.Recorder
	analyzer captureout.Analyzer
	history  captureout.HistoryStore
	clock    clock.Clock
	idGen    id.Generator
	clipDir  string

	state     domain.CaptureSession
	userID    string
	sportID   string
	supported bool
	active    captureout.Recording
}

func NewCaptureService(
	recorder captureout.Recorder,
	analyzer captureout.Analyzer,
	history captureout.HistoryStore,
	clk clock.Clock,
	idGen id.Generator,
	clipDir string,
) *CaptureService {
	return &CaptureService{
		recorder: recorder,
		analyzer: analyzer,
		history:  history,
		clock:    clk,
		idGen:    idGen,
		clipDir:  clipDir,
		state:    domain.CaptureSession{Phase: domain.PhaseIdle, LastFeedback: feedbackReady},
	}
}

func (s *CaptureService) State() domain.CaptureSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin mounts the pipeline. An unsupported platform short-circuits into
// the degraded toggle; a permission refusal parks the pipeline in the
// blocked phase until an explicit retry.
func (s *CaptureService) Begin(ctx context.Context, userID, sportID string) error {
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}
	if sportID == "" {
		return apperrors.ErrNotOnboarded
	}
	s.mu.Lock()
	s.state = domain.CaptureSession{Phase: domain.PhaseIdle, LastFeedback: feedbackReady}
	s.userID = userID
	s.sportID = sportID
	s.active = nil
	s.mu.Unlock()

	if err := s.recorder.Probe(ctx); err != nil {
		if errors.Is(err, apperrors.ErrRecordingUnsupported) {
			s.mu.Lock()
			s.supported = false
			s.mu.Unlock()
			return nil
		}
		return err
	}
	s.mu.Lock()
	s.supported = true
	s.mu.Unlock()
	return s.acquirePermissions(ctx)
}

// RetryPermissions re-runs permission acquisition from the blocked phase.
func (s *CaptureService) RetryPermissions(ctx context.Context) error {
	s.mu.Lock()
	if !s.supported || s.state.Phase != domain.PhaseBlocked {
		s.mu.Unlock()
		return apperrors.ErrInvalidPhase
	}
	s.mu.Unlock()
	return s.acquirePermissions(ctx)
}

func (s *CaptureService) acquirePermissions(ctx context.Context) error {
	s.mu.Lock()
	s.state.Phase = domain.PhasePermissionPending
	s.state.LastFeedback = feedbackPermissions
	s.mu.Unlock()

	if err := s.recorder.RequestAccess(ctx); err != nil {
		s.mu.Lock()
		s.state.Phase = domain.PhaseBlocked
		s.state.LastFeedback = feedbackBlocked
		s.mu.Unlock()
		if errors.Is(err, apperrors.ErrPermissionDenied) {
			return nil
		}
		return err
	}
	s.mu.Lock()
	s.state.Phase = domain.PhaseReady
	s.state.LastFeedback = feedbackReady
	s.mu.Unlock()
	return nil
}

// StartRecording begins a bounded capture. The feedback indicator flips
// immediately; no network is involved yet. On an unsupported platform the
// toggle only updates the feedback message.
func (s *CaptureService) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	if !s.supported {
		s.state.LastFeedback = feedbackUnsupported
		s.mu.Unlock()
		return nil
	}
	if !s.state.CanStartRecording() {
		s.mu.Unlock()
		return apperrors.ErrInvalidPhase
	}
	clipID := s.idGen.New()
	spec := captureout.RecordingSpec{
		Path:        filepath.Join(s.clipDir, clipID+".mp4"),
		MaxDuration: domain.MaxClipDuration,
	}
	s.mu.Unlock()

	rec, err := s.recorder.Start(ctx, spec)
	if err != nil {
		if errors.Is(err, apperrors.ErrPermissionDenied) {
			s.mu.Lock()
			s.state.Phase = domain.PhaseBlocked
			s.state.LastFeedback = feedbackBlocked
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("start recording: %w", err)
	}
	s.mu.Lock()
	s.active = rec
	s.state.Phase = domain.PhaseRecording
	s.state.Clip = nil
	s.state.Result = nil
	s.state.LastFeedback = feedbackRecording
	s.mu.Unlock()
	return nil
}

// StopRecording ends the capture early and chains straight into upload;
// recording and upload are deliberately not independently triggerable.
func (s *CaptureService) StopRecording(ctx context.Context) error {
	s.mu.Lock()
	if !s.supported {
		s.state.LastFeedback = feedbackReady
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	rec, ok := s.claimRecording()
	if !ok {
		return apperrors.ErrInvalidPhase
	}
	clip, err := rec.Stop(ctx)
	return s.finish(ctx, clip, err)
}

// AwaitRecording blocks until the recorder hits the duration boundary,
// then runs the same stop-and-upload chain. If a user stop won the race
// the boundary event is a no-op, so upload triggers exactly once.
func (s *CaptureService) AwaitRecording(ctx context.Context) error {
	s.mu.Lock()
	rec := s.active
	s.mu.Unlock()
	if rec == nil {
		return nil
	}
	clip, err := rec.Wait(ctx)
	if !s.claimFinished(rec) {
		return nil
	}
	return s.finish(ctx, clip, err)
}

// RetryUpload re-submits the kept clip after a failed upload. Manual only;
// the pipeline never retries a large payload automatically.
func (s *CaptureService) RetryUpload(ctx context.Context) error {
	s.mu.Lock()
	if !s.state.CanRetryUpload() {
		s.mu.Unlock()
		return apperrors.ErrInvalidPhase
	}
	s.state.Phase = domain.PhaseUploading
	s.state.LastFeedback = feedbackUploading
	s.mu.Unlock()
	return s.upload(ctx)
}

// Dismiss tears the result and clip handle down and returns to idle. This
// is the only way out of the uploading/result phases back to idle.
func (s *CaptureService) Dismiss(_ context.Context) {
	s.mu.Lock()
	s.state = domain.CaptureSession{Phase: domain.PhaseIdle, LastFeedback: feedbackReady}
	s.active = nil
	s.mu.Unlock()
}

// AnalyzeFile submits a pre-recorded clip outside the live pipeline.
func (s *CaptureService) AnalyzeFile(ctx context.Context, userID, sportID, path string) (domain.AnalysisResult, error) {
	if userID == "" {
		return domain.AnalysisResult{}, apperrors.ErrNotAuthenticated
	}
	if sportID == "" {
		return domain.AnalysisResult{}, apperrors.ErrNotOnboarded
	}
	clip := domain.Clip{ID: s.idGen.New(), Path: path, RecordedAt: s.clock.Now()}
	result, err := s.analyzer.Analyze(ctx, userID, sportID, clip)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	s.record(ctx, userID, sportID, result)
	return result, nil
}

func (s *CaptureService) History(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	return s.history.Recent(ctx, limit)
}

// claimRecording transitions recording -> uploading exactly once.
func (s *CaptureService) claimRecording() (captureout.Recording, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.CanStopRecording() || s.active == nil {
		return nil, false
	}
	rec := s.active
	s.active = nil
	s.state.Phase = domain.PhaseUploading
	s.state.LastFeedback = feedbackUploading
	return rec, true
}

// claimFinished is claimRecording for the boundary watcher. It claims only
// the recording the watcher waited on; a watcher that resolves late, after
// its recording already stopped and a new one started, must not claim the
// fresh recording's stop.
func (s *CaptureService) claimFinished(rec captureout.Recording) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.CanStopRecording() || s.active != rec {
		return false
	}
	s.active = nil
	s.state.Phase = domain.PhaseUploading
	s.state.LastFeedback = feedbackUploading
	return true
}

func (s *CaptureService) finish(ctx context.Context, clip domain.Clip, recErr error) error {
	if recErr != nil {
		s.mu.Lock()
		s.state.Phase = domain.PhaseReady
		s.state.LastFeedback = feedbackReady
		s.mu.Unlock()
		return fmt.Errorf("finalize recording: %w", recErr)
	}
	s.mu.Lock()
	s.state.Clip = &clip
	s.mu.Unlock()
	return s.upload(ctx)
}

// upload transfers the clip once. Failure returns the pipeline to ready
// with the clip handle intact so the user can retry without re-recording.
func (s *CaptureService) upload(ctx context.Context) error {
	s.mu.Lock()
	clip := s.state.Clip
	userID := s.userID
	sportID := s.sportID
	s.mu.Unlock()
	if clip == nil {
		return apperrors.ErrInvalidPhase
	}

	result, err := s.analyzer.Analyze(ctx, userID, sportID, *clip)
	if err != nil {
		s.mu.Lock()
		s.state.Phase = domain.PhaseReady
		s.state.LastFeedback = feedbackUploadFail
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.state.Phase = domain.PhaseResultReady
	s.state.Result = &result
	s.state.LastFeedback = feedbackComplete
	s.mu.Unlock()
	s.record(ctx, userID, sportID, result)
	return nil
}

// record persists the outcome locally, best effort.
func (s *CaptureService) record(ctx context.Context, userID, sportID string, result domain.AnalysisResult) {
	if s.history == nil {
		return
	}
	_ = s.history.Append(ctx, domain.HistoryRecord{
		ID:              s.idGen.New(),
		UserID:          userID,
		SportID:         sportID,
		TechnicalScore:  result.TechnicalScore,
		Summary:         result.Summary,
		DetailedFlaws:   result.DetailedFlaws,
		EquipmentAdvice: result.EquipmentAdvice,
		CreatedAt:       s.clock.Now(),
	})
}
