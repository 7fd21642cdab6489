package domain

import (
	"strconv"
	"time"
)

// MaxClipDuration bounds a recording; the recorder auto-stops at the
// boundary so neither storage nor upload size grows unbounded.
const MaxClipDuration = 10 * time.Minute

// Phase is the capture pipeline's position in its linear workflow.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhasePermissionPending Phase = "permission_pending"
	PhaseBlocked           Phase = "blocked"
	PhaseReady             Phase = "ready"
	PhaseRecording         Phase = "recording"
	PhaseUploading         Phase = "uploading"
	PhaseResultReady       Phase = "result_ready"
)

// Clip is an immutable handle to a locally recorded video. The pipeline
// owns it exclusively until upload completes.
type Clip struct {
	ID         string
	Path       string
	RecordedAt time.Time
	Duration   time.Duration
}

// AnalysisResult is the analyzer's verdict, immutable once received. The
// flaw order is set by the backend by severity and must be preserved.
type AnalysisResult struct {
	TechnicalScore  float64
	Summary         string
	DetailedFlaws   []string
	EquipmentAdvice string
}

// ScoreDisplay renders the score verbatim as x/10, with no rounding
// beyond what the backend already applied.
func (r AnalysisResult) ScoreDisplay() string {
	return strconv.FormatFloat(r.TechnicalScore, 'f', -1, 64) + "/10"
}

// HistoryRecord is a locally persisted analysis outcome.
type HistoryRecord struct {
	ID              string
	UserID          string
	SportID         string
	TechnicalScore  float64
	Summary         string
	DetailedFlaws   []string
	EquipmentAdvice string
	CreatedAt       time.Time
}

// CaptureSession is the pipeline-local state, created when the capture
// screen mounts and destroyed on dismiss. Never persisted.
type CaptureSession struct {
	Phase        Phase
	Clip         *Clip
	LastFeedback string
	Result       *AnalysisResult
}

// CanStartRecording reports whether a start is legal. Recording only ever
// begins from the ready phase.
func (s CaptureSession) CanStartRecording() bool {
	return s.Phase == PhaseReady
}

// CanStopRecording reports whether a stop (user or boundary) is legal.
func (s CaptureSession) CanStopRecording() bool {
	return s.Phase == PhaseRecording
}

// CanRetryUpload reports whether a manual upload retry is legal: the
// pipeline must have fallen back to ready with the clip still on disk.
func (s CaptureSession) CanRetryUpload() bool {
	return s.Phase == PhaseReady && s.Clip != nil
}
