package usecase

import (
	"context"
	"fmt"
	"strings"

	"formai/internal/modules/session/domain"
	sessiondto "formai/internal/modules/session/dto"
	sessionin "formai/internal/modules/session/port/in"
	"formai/internal/modules/session/service"
	apperrors "formai/internal/platform/errors"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Resume(ctx context.Context) (sessiondto.SnapshotOutput, error) {
	err := i.svc.Resume(ctx)
	return i.output(), err
}

func (i *Interactor) Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.SnapshotOutput, error) {
	if strings.TrimSpace(input.Username) == "" || strings.TrimSpace(input.Password) == "" {
		return i.output(), fmt.Errorf("%w: username and password are required", apperrors.ErrInvalidInput)
	}
	err := i.svc.Login(ctx, input.Username, input.Password)
	return i.output(), err
}

func (i *Interactor) Register(ctx context.Context, input sessiondto.RegisterInput) (sessiondto.SnapshotOutput, error) {
	reg := domain.Registration{
		Username:   input.Username,
		Password:   input.Password,
		Email:      input.Email,
		FullName:   input.FullName,
		SportID:    input.SportID,
		SkillLevel: input.SkillLevel,
	}
	if err := reg.Validate(); err != nil {
		return i.output(), err
	}
	err := i.svc.Register(ctx, reg)
	return i.output(), err
}

func (i *Interactor) Logout(ctx context.Context) (sessiondto.SnapshotOutput, error) {
	i.svc.Logout(ctx)
	return i.output(), nil
}

func (i *Interactor) Onboard(ctx context.Context, input sessiondto.OnboardInput) (sessiondto.SnapshotOutput, error) {
	if strings.TrimSpace(input.SportID) == "" {
		return i.output(), fmt.Errorf("%w: sport is required", apperrors.ErrInvalidInput)
	}
	skill := domain.SetSkill(input.SkillLevel)
	if input.PreserveSkill {
		skill = domain.PreserveSkill()
	}
	if err := skill.Validate(); err != nil {
		return i.output(), err
	}
	err := i.svc.Onboard(ctx, input.SportID, skill)
	return i.output(), err
}

func (i *Interactor) SwitchSport(ctx context.Context, sportID string) (sessiondto.SnapshotOutput, error) {
	if strings.TrimSpace(sportID) == "" {
		return i.output(), fmt.Errorf("%w: sport is required", apperrors.ErrInvalidInput)
	}
	err := i.svc.SwitchSport(ctx, sportID)
	return i.output(), err
}

func (i *Interactor) Reload(ctx context.Context) (sessiondto.SnapshotOutput, error) {
	err := i.svc.Reload(ctx)
	return i.output(), err
}

func (i *Interactor) Snapshot(_ context.Context) (sessiondto.SnapshotOutput, error) {
	return i.output(), nil
}

func (i *Interactor) Subscribe(fn func(sessiondto.SnapshotOutput)) func() {
	return i.svc.Subscribe(func(snap domain.Snapshot) {
		fn(toOutput(snap))
	})
}

func (i *Interactor) output() sessiondto.SnapshotOutput {
	return toOutput(i.svc.Snapshot())
}

func toOutput(snap domain.Snapshot) sessiondto.SnapshotOutput {
	out := sessiondto.SnapshotOutput{
		UserID:       snap.Session.UserID,
		Loading:      snap.Session.Loading,
		Onboarded:    snap.Onboarded(),
		ReloadFailed: snap.ReloadFailed,
		Nav:          string(domain.DeriveNavState(snap)),
	}
	if snap.Context != nil {
		out.Sport = sessiondto.SportOutput{
			SportID:     snap.Context.Sport.SportID,
			DisplayName: snap.Context.Sport.DisplayName,
			ThemeColor:  snap.Context.Sport.ThemeColor,
			SkillLevel:  snap.Context.Sport.SkillLevel,
		}
		out.Stats = sessiondto.StatsOutput{
			Tier:            snap.Context.Stats.Tier,
			Points:          snap.Context.Stats.Points,
			AccuracyPercent: snap.Context.Stats.AccuracyPercent,
		}
		out.Profile = sessiondto.ProfileOutput{
			FullName: snap.Context.Profile.FullName,
			Username: snap.Context.Profile.Username,
		}
	}
	return out
}
