package in

import (
	"context"

	"formai/internal/modules/session/dto"
)

type Usecase interface {
	// Resume restores a remembered identity and reloads its context.
	// Without one it settles into the unauthenticated state.
	Resume(ctx context.Context) (dto.SnapshotOutput, error)
	Login(ctx context.Context, input dto.LoginInput) (dto.SnapshotOutput, error)
	Register(ctx context.Context, input dto.RegisterInput) (dto.SnapshotOutput, error)
	Logout(ctx context.Context) (dto.SnapshotOutput, error)
	Onboard(ctx context.Context, input dto.OnboardInput) (dto.SnapshotOutput, error)
	SwitchSport(ctx context.Context, sportID string) (dto.SnapshotOutput, error)
	Reload(ctx context.Context) (dto.SnapshotOutput, error)
	Snapshot(ctx context.Context) (dto.SnapshotOutput, error)
	// Subscribe registers an observer called after every state mutation.
	// The returned function removes the observer.
	Subscribe(fn func(dto.SnapshotOutput)) func()
}
