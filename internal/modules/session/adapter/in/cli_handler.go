package in

import (
	"context"

	sessiondto "formai/internal/modules/session/dto"
	sessionin "formai/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Resume(ctx context.Context) (sessiondto.SnapshotOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Login(ctx context.Context, username, password string) (sessiondto.SnapshotOutput, error) {
	return h.usecase.Login(ctx, sessiondto.LoginInput{Username: username, Password: password})
}

func (h CLIHandler) Register(ctx context.Context, input sessiondto.RegisterInput) (sessiondto.SnapshotOutput, error) {
	return h.usecase.Register(ctx, input)
}

func (h CLIHandler) Logout(ctx context.Context) (sessiondto.SnapshotOutput, error) {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Onboard(ctx context.Context, sportID, skillLevel string) (sessiondto.SnapshotOutput, error) {
	return h.usecase.Onboard(ctx, sessiondto.OnboardInput{SportID: sportID, SkillLevel: skillLevel})
}

func (h CLIHandler) SwitchSport(ctx context.Context, sportID string) (sessiondto.SnapshotOutput, error) {
	return h.usecase.SwitchSport(ctx, sportID)
}

func (h CLIHandler) Status(ctx context.Context) (sessiondto.SnapshotOutput, error) {
	return h.usecase.Snapshot(ctx)
}
