package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"formai/internal/modules/session/domain"
	sessionout "formai/internal/modules/session/port/out"
	apperrors "formai/internal/platform/errors"
)

// The onboard endpoint treats this skill level as "keep the existing skill
// tier"; it is a protocol sentinel, never shown to users.
const preserveSkillSentinel = "Existing"

// HTTPGateway is the typed client for the backend's /user endpoints.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string) sessionout.Gateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	SportID    string `json:"sport_id"`
	SkillLevel string `json:"skill_level"`
}

type onboardRequest struct {
	UserID     string `json:"user_id"`
	SportID    string `json:"sport_id"`
	SkillLevel string `json:"skill_level"`
}

type identityResponse struct {
	UserID string `json:"user_id"`
}

type dashboardResponse struct {
	ActiveSport *string `json:"active_sport"`
	Config      struct {
		SportID    string `json:"sport_id"`
		Name       string `json:"name"`
		ThemeColor string `json:"theme_color"`
		SkillLevel string `json:"skill_level"`
	} `json:"config"`
	Stats struct {
		Tier     string  `json:"tier"`
		Points   int     `json:"points"`
		Accuracy float64 `json:"accuracy"`
	} `json:"stats"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

func (g *HTTPGateway) Login(ctx context.Context, username, password string) (string, error) {
	var out identityResponse
	if err := g.postJSON(ctx, "/user/login", loginRequest{Username: username, Password: password}, &out); err != nil {
		return "", err
	}
	if out.UserID == "" {
		return "", fmt.Errorf("login response missing user id")
	}
	return out.UserID, nil
}

func (g *HTTPGateway) Register(ctx context.Context, reg domain.Registration) (string, error) {
	req := registerRequest{
		Username:   reg.Username,
		Password:   reg.Password,
		Email:      reg.Email,
		FullName:   reg.FullName,
		SportID:    reg.SportID,
		SkillLevel: reg.SkillLevel,
	}
	var out identityResponse
	if err := g.postJSON(ctx, "/user/register", req, &out); err != nil {
		return "", err
	}
	if out.UserID == "" {
		return "", fmt.Errorf("register response missing user id")
	}
	return out.UserID, nil
}

func (g *HTTPGateway) Onboard(ctx context.Context, userID, sportID string, skill domain.SkillRequest) error {
	level := skill.Level()
	if skill.Preserve() {
		level = preserveSkillSentinel
	}
	return g.postJSON(ctx, "/user/onboard", onboardRequest{UserID: userID, SportID: sportID, SkillLevel: level}, nil)
}

func (g *HTTPGateway) DashboardConfig(ctx context.Context, userID string) (*domain.ContextBundle, error) {
	endpoint := g.baseURL + "/user/dashboard-config?user_id=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build dashboard request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}

	var decoded dashboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode dashboard response: %w", err)
	}
	if decoded.ActiveSport == nil || *decoded.ActiveSport == "" {
		return nil, nil
	}
	bundle := &domain.ContextBundle{
		Sport: domain.SportProfile{
			SportID:     decoded.Config.SportID,
			DisplayName: decoded.Config.Name,
			ThemeColor:  decoded.Config.ThemeColor,
			SkillLevel:  decoded.Config.SkillLevel,
		},
		Stats: domain.UserStats{
			Tier:            decoded.Stats.Tier,
			Points:          decoded.Stats.Points,
			AccuracyPercent: decoded.Stats.Accuracy,
		},
		Profile: domain.UserProfile{
			FullName: decoded.FullName,
			Username: decoded.Username,
		},
	}
	if bundle.Sport.SportID == "" {
		bundle.Sport.SportID = *decoded.ActiveSport
	}
	return bundle, nil
}

func (g *HTTPGateway) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return remoteError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// remoteError normalizes an error response, surfacing the backend's
// human-readable detail field verbatim when present.
func remoteError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(raw, &payload)
	return &apperrors.Remote{Status: resp.StatusCode, Detail: payload.Detail}
}
