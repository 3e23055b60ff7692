package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"precis/backend/internal/db"
	"precis/backend/internal/model"
)

// NewTestDB opens a migrated SQLite database in a temp dir that is closed
// when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// SeedRun inserts a run row directly and returns its ID.
func SeedRun(t *testing.T, database *sql.DB, id int64, status string, createdAt time.Time) int64 {
	t.Helper()

	_, err := database.ExecContext(context.Background(),
		`INSERT INTO summary_runs (id, mode, backend, model_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(model.InputTyped), "huggingface", "facebook/bart-large-cnn", status,
		createdAt.UTC().Format("2006-01-02T15:04:05.000000Z07:00"),
	)
	if err != nil {
		t.Fatalf("seed run: %v", err)
	}
	return id
}
