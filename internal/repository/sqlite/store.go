// Package sqlite implements every repository on a single SQLite file.
// Aggregates are stored as JSON documents next to the columns they are queried by.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"musclemap/prescription-engine/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS exercises (
	id               TEXT PRIMARY KEY,
	movement_pattern TEXT NOT NULL,
	video_object_key TEXT,
	doc              TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id    TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recovery_scores (
	user_id TEXT PRIMARY KEY,
	doc     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exercise_performance (
	user_id     TEXT NOT NULL,
	exercise_id TEXT NOT NULL,
	doc         TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (user_id, exercise_id)
);

CREATE TABLE IF NOT EXISTS muscle_volume (
	user_id   TEXT NOT NULL,
	muscle_id TEXT NOT NULL,
	volume    REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, muscle_id)
);

CREATE TABLE IF NOT EXISTS adaptive_weights (
	user_id TEXT PRIMARY KEY,
	doc     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prescriptions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	doc        TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prescription_feedback (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	prescription_id TEXT NOT NULL,
	doc             TEXT NOT NULL,
	submitted_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feedback_user_time ON prescription_feedback(user_id, submitted_at);
CREATE INDEX IF NOT EXISTS idx_prescriptions_user ON prescriptions(user_id, created_at);
`

// Fixed-width UTC timestamps so text comparison matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// Store manages the SQLite connection and hands out repositories.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Repositories returns every repository backed by this store.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Exercises:     &exerciseRepo{db: s.db},
		Profiles:      &profileRepo{db: s.db},
		Performance:   &performanceRepo{db: s.db},
		MuscleStats:   &muscleStatsRepo{db: s.db},
		Weights:       &weightsRepo{db: s.db},
		Feedback:      &feedbackRepo{db: s.db},
		Prescriptions: &prescriptionRepo{db: s.db},
	}
}

// getDoc decodes the single doc column selected by query into dst.
func getDoc(ctx context.Context, db *sql.DB, dst any, query string, args ...any) error {
	var raw string
	err := db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func encodeDoc(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}
