package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"formai/internal/modules/capture/domain"
	capturedto "formai/internal/modules/capture/dto"
	capturein "formai/internal/modules/capture/port/in"
	"formai/internal/modules/capture/service"
	apperrors "formai/internal/platform/errors"
)

type Interactor struct {
	svc *service.CaptureService
}

func NewInteractor(svc *service.CaptureService) capturein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Begin(ctx context.Context, input capturedto.BeginInput) (capturedto.StateOutput, error) {
	err := i.svc.Begin(ctx, input.UserID, input.SportID)
	return i.state(), err
}

func (i *Interactor) RetryPermissions(ctx context.Context) (capturedto.StateOutput, error) {
	err := i.svc.RetryPermissions(ctx)
	return i.state(), err
}

func (i *Interactor) StartRecording(ctx context.Context) (capturedto.StateOutput, error) {
	err := i.svc.StartRecording(ctx)
	return i.state(), err
}

func (i *Interactor) StopRecording(ctx context.Context) (capturedto.StateOutput, error) {
	err := i.svc.StopRecording(ctx)
	return i.state(), err
}

func (i *Interactor) AwaitRecording(ctx context.Context) (capturedto.StateOutput, error) {
	err := i.svc.AwaitRecording(ctx)
	return i.state(), err
}

func (i *Interactor) RetryUpload(ctx context.Context) (capturedto.StateOutput, error) {
	err := i.svc.RetryUpload(ctx)
	return i.state(), err
}

func (i *Interactor) Dismiss(ctx context.Context) (capturedto.StateOutput, error) {
	i.svc.Dismiss(ctx)
	return i.state(), nil
}

func (i *Interactor) State(_ context.Context) (capturedto.StateOutput, error) {
	return i.state(), nil
}

func (i *Interactor) AnalyzeFile(ctx context.Context, input capturedto.AnalyzeFileInput) (capturedto.ResultOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return capturedto.ResultOutput{}, fmt.Errorf("%w: clip path is required", apperrors.ErrInvalidInput)
	}
	if _, err := os.Stat(input.Path); err != nil {
		return capturedto.ResultOutput{}, fmt.Errorf("%w: clip not found at %s", apperrors.ErrInvalidInput, input.Path)
	}
	result, err := i.svc.AnalyzeFile(ctx, input.UserID, input.SportID, input.Path)
	if err != nil {
		return capturedto.ResultOutput{}, err
	}
	return toResultOutput(result), nil
}

func (i *Interactor) History(ctx context.Context, limit int) ([]capturedto.HistoryItemOutput, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := i.svc.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]capturedto.HistoryItemOutput, 0, len(records))
	for _, record := range records {
		items = append(items, capturedto.HistoryItemOutput{
			ID:           record.ID,
			SportID:      record.SportID,
			ScoreDisplay: domain.AnalysisResult{TechnicalScore: record.TechnicalScore}.ScoreDisplay(),
			Summary:      record.Summary,
			CreatedAt:    record.CreatedAt,
		})
	}
	return items, nil
}

func (i *Interactor) state() capturedto.StateOutput {
	state := i.svc.State()
	out := capturedto.StateOutput{
		Phase:    string(state.Phase),
		Feedback: state.LastFeedback,
	}
	if state.Clip != nil {
		out.HasClip = true
		out.ClipPath = state.Clip.Path
		out.ClipDuration = state.Clip.Duration
	}
	if state.Result != nil {
		result := toResultOutput(*state.Result)
		out.Result = &result
	}
	return out
}

func toResultOutput(result domain.AnalysisResult) capturedto.ResultOutput {
	return capturedto.ResultOutput{
		TechnicalScore:  result.TechnicalScore,
		ScoreDisplay:    result.ScoreDisplay(),
		Summary:         result.Summary,
		DetailedFlaws:   append([]string(nil), result.DetailedFlaws...),
		EquipmentAdvice: result.EquipmentAdvice,
	}
}
