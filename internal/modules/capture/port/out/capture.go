package out

import (
	"context"
	"time"

	"formai/internal/modules/capture/domain"
)

type RecordingSpec struct {
	Path        string
	MaxDuration time.Duration
}

// Recording is a single in-progress capture. Stop ends it early; Wait
// blocks until the recorder reaches the duration boundary on its own.
// Both return the same immutable clip.
type Recording interface {
	Stop(ctx context.Context) (domain.Clip, error)
	Wait(ctx context.Context) (domain.Clip, error)
}

// Recorder abstracts the device capture backend. Probe failing with
// ErrRecordingUnsupported selects the degraded no-op path; RequestAccess
// failing with ErrPermissionDenied blocks the pipeline until an explicit
// retry.
type Recorder interface {
	Probe(ctx context.Context) error
	RequestAccess(ctx context.Context) error
	Start(ctx context.Context, spec RecordingSpec) (Recording, error)
}

// Analyzer submits a clip for remote analysis. Implementations must not
// retry automatically; a resubmission creates a new analysis server-side.
type Analyzer interface {
	Analyze(ctx context.Context, userID, sportID string, clip domain.Clip) (domain.AnalysisResult, error)
}

// HistoryStore keeps received results locally.
type HistoryStore interface {
	Append(ctx context.Context, record domain.HistoryRecord) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
}
