package out

import (
	"context"

	"formai/internal/modules/session/domain"
)

// Gateway is the typed client over the backend's user endpoints. It maps
// requests and responses only; no business logic.
type Gateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, reg domain.Registration) (string, error)
	Onboard(ctx context.Context, userID, sportID string, skill domain.SkillRequest) error
	// DashboardConfig fetches the full context bundle in one round trip.
	// A nil bundle with a nil error means the backend confirmed the user
	// has no active sport.
	DashboardConfig(ctx context.Context, userID string) (*domain.ContextBundle, error)
}

// IdentityStore remembers the signed-in user between launches.
type IdentityStore interface {
	Save(ctx context.Context, userID string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
