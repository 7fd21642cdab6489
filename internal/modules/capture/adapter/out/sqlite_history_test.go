package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"formai/internal/modules/capture/adapter/out"
	"formai/internal/modules/capture/domain"
)

func newHistoryStore(t *testing.T) *out.SQLiteHistoryStore {
	t.Helper()
	store, err := out.NewSQLiteHistoryStore(filepath.Join(t.TempDir(), "formai.db"))
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestHistoryRoundTripPreservesFlawOrder(t *testing.T) {
	t.Parallel()
	store := newHistoryStore(t)
	ctx := context.Background()

	record := domain.HistoryRecord{
		ID:              "a1",
		UserID:          "u1",
		SportID:         "cricket",
		TechnicalScore:  8.5,
		Summary:         "Solid base, late wrists.",
		DetailedFlaws:   []string{"Back elbow drops early", "Head pulls off the ball"},
		EquipmentAdvice: "A lighter bat would help bat speed.",
		CreatedAt:       time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	if err := store.Append(ctx, record); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := store.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].TechnicalScore != 8.5 || got[0].Summary != record.Summary {
		t.Fatalf("record mismatch: %+v", got[0])
	}
	if len(got[0].DetailedFlaws) != 2 || got[0].DetailedFlaws[0] != "Back elbow drops early" {
		t.Fatalf("flaw order must survive storage: %v", got[0].DetailedFlaws)
	}
	if !got[0].CreatedAt.Equal(record.CreatedAt) {
		t.Fatalf("timestamp mismatch: %v", got[0].CreatedAt)
	}
}

func TestRecentOrdersNewestFirstAndHonorsLimit(t *testing.T) {
	t.Parallel()
	store := newHistoryStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a1", "a2", "a3"} {
		record := domain.HistoryRecord{
			ID:            id,
			UserID:        "u1",
			SportID:       "table_tennis",
			Summary:       "session " + id,
			DetailedFlaws: []string{},
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.Append(ctx, record); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit must apply, got %d records", len(got))
	}
	if got[0].ID != "a3" || got[1].ID != "a2" {
		t.Fatalf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
}
