package domain

import (
	"testing"
	"time"
)

func TestScoreDisplayIsVerbatim(t *testing.T) {
	t.Parallel()
	cases := []struct {
		score float64
		want  string
	}{
		{8.5, "8.5/10"},
		{7, "7/10"},
		{9.25, "9.25/10"},
		{0, "0/10"},
	}
	for _, tc := range cases {
		got := AnalysisResult{TechnicalScore: tc.score}.ScoreDisplay()
		if got != tc.want {
			t.Fatalf("score %v: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestPhaseGuards(t *testing.T) {
	t.Parallel()
	clip := &Clip{ID: "c1", Path: "/tmp/c1.mp4", RecordedAt: time.Now(), Duration: time.Minute}

	if !(CaptureSession{Phase: PhaseReady}).CanStartRecording() {
		t.Fatal("ready must allow start")
	}
	for _, phase := range []Phase{PhaseIdle, PhaseBlocked, PhaseRecording, PhaseUploading, PhaseResultReady} {
		if (CaptureSession{Phase: phase}).CanStartRecording() {
			t.Fatalf("%s must not allow start", phase)
		}
	}
	if !(CaptureSession{Phase: PhaseRecording}).CanStopRecording() {
		t.Fatal("recording must allow stop")
	}
	if (CaptureSession{Phase: PhaseReady}).CanRetryUpload() {
		t.Fatal("retry needs a clip")
	}
	if !(CaptureSession{Phase: PhaseReady, Clip: clip}).CanRetryUpload() {
		t.Fatal("ready with a clip must allow retry")
	}
}
