package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"formai/internal/modules/capture/domain"

	_ "modernc.org/sqlite"
)

// SQLiteHistoryStore persists received analysis results locally so past
// sessions survive restarts. The backend keeps its own copy; this store
// only serves the history view and CLI.
type SQLiteHistoryStore struct {
	db *sql.DB
}

func NewSQLiteHistoryStore(dbPath string) (*SQLiteHistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteHistoryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteHistoryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS analyses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  sport_id TEXT NOT NULL,
  technical_score REAL NOT NULL,
  summary TEXT NOT NULL,
  detailed_flaws TEXT NOT NULL,
  equipment_advice TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at DESC);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create analyses table: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Append(ctx context.Context, record domain.HistoryRecord) error {
	// Flaw order carries the backend's severity ranking; a JSON array
	// keeps it intact through storage.
	flaws, err := json.Marshal(record.DetailedFlaws)
	if err != nil {
		return fmt.Errorf("encode flaws: %w", err)
	}
	const stmt = `
INSERT INTO analyses (id, user_id, sport_id, technical_score, summary, detailed_flaws, equipment_advice, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err = s.db.ExecContext(ctx, stmt,
		record.ID,
		record.UserID,
		record.SportID,
		record.TechnicalScore,
		record.Summary,
		string(flaws),
		record.EquipmentAdvice,
		record.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("append analysis: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, sport_id, technical_score, summary, detailed_flaws, equipment_advice, created_at
FROM analyses
ORDER BY created_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.HistoryRecord, 0, limit)
	for rows.Next() {
		var (
			record    domain.HistoryRecord
			flaws     string
			createdAt string
		)
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.SportID,
			&record.TechnicalScore,
			&record.Summary,
			&flaws,
			&record.EquipmentAdvice,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if err := json.Unmarshal([]byte(flaws), &record.DetailedFlaws); err != nil {
			return nil, fmt.Errorf("decode flaws: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			record.CreatedAt = ts
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return out, nil
}

func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}
