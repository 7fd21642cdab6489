package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sessionout "formai/internal/modules/session/port/out"
	apperrors "formai/internal/platform/errors"
)

type rememberedIdentity struct {
	UserID string `json:"user_id"`
}

// FileIdentityStore remembers the signed-in user between launches.
type FileIdentityStore struct {
	path string
}

func NewFileIdentityStore(stateDir string) sessionout.IdentityStore {
	return &FileIdentityStore{path: filepath.Join(stateDir, "identity.json")}
}

func (s *FileIdentityStore) Save(_ context.Context, userID string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(rememberedIdentity{UserID: userID}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}

func (s *FileIdentityStore) Load(_ context.Context) (string, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.ErrNoRememberedIdentity
		}
		return "", fmt.Errorf("read identity: %w", err)
	}
	remembered := rememberedIdentity{}
	if err := json.Unmarshal(payload, &remembered); err != nil {
		return "", fmt.Errorf("decode identity: %w", err)
	}
	if remembered.UserID == "" {
		return "", apperrors.ErrNoRememberedIdentity
	}
	return remembered.UserID, nil
}

func (s *FileIdentityStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
