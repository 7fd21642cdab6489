package domain

import (
	"fmt"
	"strings"

	apperrors "formai/internal/platform/errors"
)

// Session holds the authenticated identity and the in-flight marker for
// identity operations. UserID is empty until a login or register succeeds.
type Session struct {
	UserID  string
	Loading bool
}

// SportProfile is the active sport's configuration. Replacing it is a full
// overwrite, never a merge.
type SportProfile struct {
	SportID     string
	DisplayName string
	ThemeColor  string
	SkillLevel  string
}

// UserStats is a server-derived aggregate. It is never mutated locally.
type UserStats struct {
	Tier            string
	Points          int
	AccuracyPercent float64
}

type UserProfile struct {
	FullName string
	Username string
}

// ContextBundle is the decoded dashboard-config payload. The three derived
// fields always arrive in one response and are replaced together, so a nil
// bundle is the only absent form any of them can take.
type ContextBundle struct {
	Sport   SportProfile
	Stats   UserStats
	Profile UserProfile
}

// Snapshot is an atomic read of the whole session state. Context is nil
// until onboarding completes. ReloadFailed distinguishes a fail-safe
// collapse after a connectivity failure from a confirmed empty profile.
type Snapshot struct {
	Session      Session
	Context      *ContextBundle
	ReloadFailed bool
}

func (s Snapshot) Authenticated() bool {
	return s.Session.UserID != ""
}

func (s Snapshot) Onboarded() bool {
	return s.Context != nil
}

// Registration carries the register form fields.
type Registration struct {
	Username   string
	Password   string
	Email      string
	FullName   string
	SportID    string
	SkillLevel string
}

func (r Registration) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("%w: username is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(r.Password) == "" {
		return fmt.Errorf("%w: password is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(r.SportID) == "" {
		return fmt.Errorf("%w: sport is required", apperrors.ErrInvalidInput)
	}
	return nil
}

// SkillRequest is the tagged onboard variant: either set an explicit skill
// level or preserve the server-side skill history. The wire sentinel that
// encodes preservation is the gateway's concern, not the domain's.
type SkillRequest struct {
	preserve bool
	level    string
}

func SetSkill(level string) SkillRequest {
	return SkillRequest{level: level}
}

func PreserveSkill() SkillRequest {
	return SkillRequest{preserve: true}
}

func (r SkillRequest) Preserve() bool {
	return r.preserve
}

func (r SkillRequest) Level() string {
	return r.level
}

func (r SkillRequest) Validate() error {
	if !r.preserve && strings.TrimSpace(r.level) == "" {
		return fmt.Errorf("%w: skill level is required", apperrors.ErrInvalidInput)
	}
	return nil
}
