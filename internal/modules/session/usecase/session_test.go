package usecase_test

import (
	"context"
	"errors"
	"testing"

	"formai/internal/modules/session/domain"
	sessiondto "formai/internal/modules/session/dto"
	sessionin "formai/internal/modules/session/port/in"
	"formai/internal/modules/session/service"
	"formai/internal/modules/session/usecase"
	apperrors "formai/internal/platform/errors"
)

type stubGateway struct {
	loginID     string
	loginErr    error
	registerID  string
	activeSport string
	bundles     map[string]*domain.ContextBundle
}

func (s *stubGateway) Login(context.Context, string, string) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return s.loginID, nil
}

func (s *stubGateway) Register(context.Context, domain.Registration) (string, error) {
	return s.registerID, nil
}

func (s *stubGateway) Onboard(_ context.Context, _ string, sportID string, _ domain.SkillRequest) error {
	s.activeSport = sportID
	return nil
}

func (s *stubGateway) DashboardConfig(context.Context, string) (*domain.ContextBundle, error) {
	return s.bundles[s.activeSport], nil
}

type stubIdentity struct{}

func (stubIdentity) Save(context.Context, string) error { return nil }
func (stubIdentity) Load(context.Context) (string, error) {
	return "", apperrors.ErrNoRememberedIdentity
}
func (stubIdentity) Clear(context.Context) error { return nil }

func newUsecase(gw *stubGateway) (sessionin.Usecase, *service.SessionService) {
	svc := service.NewSessionService(gw, stubIdentity{})
	return usecase.NewInteractor(svc), svc
}

func TestLoginRejectsBlankCredentials(t *testing.T) {
	t.Parallel()
	uc, _ := newUsecase(&stubGateway{})
	_, _ = uc.Resume(context.Background())

	for _, input := range []sessiondto.LoginInput{
		{Username: "", Password: "pw"},
		{Username: "bob", Password: "  "},
	} {
		if _, err := uc.Login(context.Background(), input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", input, err)
		}
	}
}

func TestRegisterThenOnboardReachesActive(t *testing.T) {
	t.Parallel()
	gw := &stubGateway{
		registerID: "u1",
		bundles: map[string]*domain.ContextBundle{
			"cricket": {
				Sport: domain.SportProfile{SportID: "cricket", DisplayName: "Cricket", ThemeColor: "#1976D2", SkillLevel: "Beginner"},
			},
		},
	}
	uc, _ := newUsecase(gw)
	_, _ = uc.Resume(context.Background())

	out, err := uc.Register(context.Background(), sessiondto.RegisterInput{
		Username: "jdoe", Password: "pw", Email: "j@d.oe", FullName: "Jordan Doe",
		SportID: "cricket", SkillLevel: "Beginner",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if out.Nav != string(domain.StateOnboarding) {
		t.Fatalf("register without active sport must land in onboarding, got %s", out.Nav)
	}

	out, err = uc.Onboard(context.Background(), sessiondto.OnboardInput{SportID: "cricket", SkillLevel: "Beginner"})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if out.Nav != string(domain.StateActive) {
		t.Fatalf("expected active after onboard, got %s", out.Nav)
	}
	if out.Sport.ThemeColor != "#1976D2" {
		t.Fatalf("sport config must flow into the output, got %+v", out.Sport)
	}
}

func TestRegisterValidatesRequiredFields(t *testing.T) {
	t.Parallel()
	uc, _ := newUsecase(&stubGateway{})
	_, _ = uc.Resume(context.Background())

	_, err := uc.Register(context.Background(), sessiondto.RegisterInput{Username: "jdoe", Password: "pw"})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing sport, got %v", err)
	}
}

func TestOnboardRejectsBlankSkillUnlessPreserving(t *testing.T) {
	t.Parallel()
	gw := &stubGateway{loginID: "u1", bundles: map[string]*domain.ContextBundle{}}
	uc, _ := newUsecase(gw)
	_, _ = uc.Resume(context.Background())
	if _, err := uc.Login(context.Background(), sessiondto.LoginInput{Username: "bob", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := uc.Onboard(context.Background(), sessiondto.OnboardInput{SportID: "cricket"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank skill, got %v", err)
	}
	if _, err := uc.Onboard(context.Background(), sessiondto.OnboardInput{SportID: "cricket", PreserveSkill: true}); err != nil {
		t.Fatalf("preserve-skill onboard must not need a level: %v", err)
	}
}
