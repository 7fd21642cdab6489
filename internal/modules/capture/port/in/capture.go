package in

import (
	"context"

	"formai/internal/modules/capture/dto"
)

type Usecase interface {
	// Begin mounts a capture session for the given identity and sport,
	// probing capability and acquiring device access.
	Begin(ctx context.Context, input dto.BeginInput) (dto.StateOutput, error)
	RetryPermissions(ctx context.Context) (dto.StateOutput, error)
	StartRecording(ctx context.Context) (dto.StateOutput, error)
	StopRecording(ctx context.Context) (dto.StateOutput, error)
	// AwaitRecording blocks until the duration boundary auto-stops the
	// recording, then runs the same stop-and-upload chain.
	AwaitRecording(ctx context.Context) (dto.StateOutput, error)
	RetryUpload(ctx context.Context) (dto.StateOutput, error)
	Dismiss(ctx context.Context) (dto.StateOutput, error)
	State(ctx context.Context) (dto.StateOutput, error)
	// AnalyzeFile uploads a pre-recorded clip outside the live pipeline.
	AnalyzeFile(ctx context.Context, input dto.AnalyzeFileInput) (dto.ResultOutput, error)
	History(ctx context.Context, limit int) ([]dto.HistoryItemOutput, error)
}
