// Package sqlite persists conversation feedback in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

// Compile-time check: FeedbackStore implements the feedback port.
var _ ports.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore records feedback rows in SQLite. One store is safe for
// concurrent use; SQLite serializes writers via the busy timeout.
type FeedbackStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, ensuring the parent
// directory and the schema exist.
func Open(path string) (*FeedbackStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db at %s: %w", path, err)
	}

	store := &FeedbackStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *FeedbackStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			thread_id TEXT,
			type TEXT NOT NULL DEFAULT 'general',
			rating INTEGER,
			message TEXT,
			created_at INTEGER NOT NULL DEFAULT (unixepoch())
		);
		CREATE INDEX IF NOT EXISTS idx_feedback_thread_id ON feedback(thread_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create feedback schema: %w", err)
	}
	return nil
}

// Record implements ports.FeedbackStore.
func (s *FeedbackStore) Record(ctx context.Context, fb domain.Feedback) error {
	createdAt := fb.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if fb.Type == "" {
		fb.Type = "general"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (thread_id, type, rating, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		fb.ThreadID, fb.Type, fb.Rating, fb.Message, createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// Recent returns the newest feedback entries, most recent first.
func (s *FeedbackStore) Recent(ctx context.Context, limit int) ([]domain.Feedback, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT thread_id, type, rating, message, created_at FROM feedback ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var out []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		var created int64
		if err := rows.Scan(&fb.ThreadID, &fb.Type, &fb.Rating, &fb.Message, &created); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		fb.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, fb)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *FeedbackStore) Close() error {
	return s.db.Close()
}
