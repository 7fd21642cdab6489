package out_test

import (
	"context"
	"errors"
	"testing"

	"formai/internal/modules/session/adapter/out"
	apperrors "formai/internal/platform/errors"
)

func TestIdentityStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := out.NewFileIdentityStore(t.TempDir())

	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrNoRememberedIdentity) {
		t.Fatalf("expected no remembered identity, got %v", err)
	}
	if err := store.Save(context.Background(), "u1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	userID, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected u1, got %s", userID)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrNoRememberedIdentity) {
		t.Fatalf("expected cleared identity, got %v", err)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("clear must be idempotent: %v", err)
	}
}
