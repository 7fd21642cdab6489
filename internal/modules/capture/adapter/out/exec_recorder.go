package out

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"formai/internal/modules/capture/domain"
	captureout "formai/internal/modules/capture/port/out"
	"formai/internal/platform/clock"
	apperrors "formai/internal/platform/errors"
)

// FFmpegRecorder captures from the default camera and microphone by
// shelling out to ffmpeg. Device selection follows the host OS:
// avfoundation on macOS, v4l2 + alsa on Linux.
type FFmpegRecorder struct {
	binary string
	goos   string
	clock  clock.Clock
}

func NewFFmpegRecorder(clk clock.Clock) *FFmpegRecorder {
	return &FFmpegRecorder{binary: "ffmpeg", goos: runtime.GOOS, clock: clk}
}

// Probe reports whether this host can record at all. A missing ffmpeg
// binary or an OS without a known capture backend both mean the caller
// should fall back to file-based analysis.
func (r *FFmpegRecorder) Probe(_ context.Context) error {
	if _, ok := r.inputArgs(); !ok {
		return fmt.Errorf("%w: no capture backend for %s", apperrors.ErrRecordingUnsupported, r.goos)
	}
	if _, err := exec.LookPath(r.binary); err != nil {
		return fmt.Errorf("%w: %s not installed", apperrors.ErrRecordingUnsupported, r.binary)
	}
	return nil
}

// RequestAccess opens the capture devices for a fraction of a second and
// discards the output. Device-permission refusals show up here, before
// the user has invested in a recording.
func (r *FFmpegRecorder) RequestAccess(ctx context.Context) error {
	input, ok := r.inputArgs()
	if !ok {
		return fmt.Errorf("%w: no capture backend for %s", apperrors.ErrRecordingUnsupported, r.goos)
	}
	args := append(input, "-t", "0.1", "-f", "null", "-")
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return classifyCaptureError(stderr.String(), err)
	}
	return nil
}

func (r *FFmpegRecorder) Start(ctx context.Context, spec captureout.RecordingSpec) (captureout.Recording, error) {
	input, ok := r.inputArgs()
	if !ok {
		return nil, fmt.Errorf("%w: no capture backend for %s", apperrors.ErrRecordingUnsupported, r.goos)
	}
	// -t makes ffmpeg enforce the duration boundary itself, so a clip
	// never outgrows the limit even if this process stalls.
	seconds := strconv.FormatFloat(spec.MaxDuration.Seconds(), 'f', -1, 64)
	args := append(input, "-t", seconds, "-y", spec.Path)
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("attach recorder stdin: %w", err)
	}
	startedAt := r.clock.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start recorder: %w", err)
	}

	rec := &ffmpegRecording{
		cmd:       cmd,
		stdin:     stdin,
		stderr:    &stderr,
		path:      spec.Path,
		startedAt: startedAt,
		clock:     r.clock,
		done:      make(chan struct{}),
	}
	go func() {
		rec.waitErr = cmd.Wait()
		close(rec.done)
	}()
	return rec, nil
}

// inputArgs builds the device-input half of the ffmpeg invocation for
// the host OS; callers append the output half.
func (r *FFmpegRecorder) inputArgs() ([]string, bool) {
	switch r.goos {
	case "darwin":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "avfoundation", "-framerate", "30", "-i", "default:default",
		}, true
	case "linux":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "v4l2", "-framerate", "30", "-i", "/dev/video0",
			"-f", "alsa", "-i", "default",
		}, true
	default:
		return nil, false
	}
}

// classifyCaptureError maps ffmpeg's device-open failures onto the
// permission sentinel so the pipeline can offer a retry instead of a
// generic failure.
func classifyCaptureError(stderr string, err error) error {
	lowered := strings.ToLower(stderr)
	for _, marker := range []string{"permission denied", "operation not permitted", "cannot open", "device or resource busy"} {
		if strings.Contains(lowered, marker) {
			return fmt.Errorf("%w: %s", apperrors.ErrPermissionDenied, strings.TrimSpace(stderr))
		}
	}
	if stderr != "" {
		return fmt.Errorf("capture device: %s: %w", strings.TrimSpace(stderr), err)
	}
	return fmt.Errorf("capture device: %w", err)
}

type ffmpegRecording struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    *bytes.Buffer
	path      string
	startedAt time.Time
	clock     clock.Clock

	done    chan struct{}
	waitErr error

	mu      sync.Mutex
	stopped bool
}

// Stop asks ffmpeg to finalize the file gracefully ("q" on stdin flushes
// the container trailer) and waits for it to exit.
func (rec *ffmpegRecording) Stop(ctx context.Context) (domain.Clip, error) {
	rec.mu.Lock()
	if !rec.stopped {
		rec.stopped = true
		_, _ = rec.stdin.Write([]byte("q"))
	}
	rec.mu.Unlock()
	return rec.Wait(ctx)
}

// Wait blocks until ffmpeg exits, either from Stop or from hitting the
// duration boundary on its own.
func (rec *ffmpegRecording) Wait(ctx context.Context) (domain.Clip, error) {
	select {
	case <-ctx.Done():
		_ = rec.cmd.Process.Kill()
		return domain.Clip{}, ctx.Err()
	case <-rec.done:
	}
	if rec.waitErr != nil {
		// A graceful quit reports exit status 255 on some builds even
		// though the file is complete; only treat output-less runs as
		// failed.
		if rec.stderr.Len() > 0 {
			return domain.Clip{}, classifyCaptureError(rec.stderr.String(), rec.waitErr)
		}
	}
	return domain.Clip{
		Path:       rec.path,
		RecordedAt: rec.startedAt,
		Duration:   rec.clock.Now().Sub(rec.startedAt),
	}, nil
}
