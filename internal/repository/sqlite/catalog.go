package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/repository"
)

type exerciseRepo struct {
	db *sql.DB
}

func (r *exerciseRepo) List(ctx context.Context) ([]*domain.ExerciseMetadata, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc, video_object_key FROM exercises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	var out []*domain.ExerciseMetadata
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (r *exerciseRepo) GetByID(ctx context.Context, id string) (*domain.ExerciseMetadata, error) {
	row := r.db.QueryRowContext(ctx, `SELECT doc, video_object_key FROM exercises WHERE id = ?`, id)
	ex, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return ex, err
}

func (r *exerciseRepo) Upsert(ctx context.Context, ex *domain.ExerciseMetadata) error {
	if ex.ID == "" {
		return repository.ErrInvalidID
	}
	ex.UpdatedAt = time.Now().UTC()
	doc, err := encodeDoc(ex)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO exercises (id, movement_pattern, video_object_key, doc, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   movement_pattern = excluded.movement_pattern,
		   video_object_key = excluded.video_object_key,
		   doc = excluded.doc,
		   updated_at = excluded.updated_at`,
		ex.ID, string(ex.MovementPattern), ex.VideoObjectKey, doc, formatTime(ex.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert exercise %s: %w", ex.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanExercise restores the video key, which the JSON document omits.
func scanExercise(row rowScanner) (*domain.ExerciseMetadata, error) {
	var raw string
	var videoKey sql.NullString
	if err := row.Scan(&raw, &videoKey); err != nil {
		return nil, err
	}
	var ex domain.ExerciseMetadata
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return nil, fmt.Errorf("decode exercise: %w", err)
	}
	ex.VideoObjectKey = videoKey.String
	return &ex, nil
}
