package in

import (
	"context"

	capturedto "formai/internal/modules/capture/dto"
	capturein "formai/internal/modules/capture/port/in"
)

type CLIHandler struct {
	usecase capturein.Usecase
}

func NewCLIHandler(usecase capturein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AnalyzeFile(ctx context.Context, userID, sportID, path string) (capturedto.ResultOutput, error) {
	return h.usecase.AnalyzeFile(ctx, capturedto.AnalyzeFileInput{UserID: userID, SportID: sportID, Path: path})
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]capturedto.HistoryItemOutput, error) {
	return h.usecase.History(ctx, limit)
}
