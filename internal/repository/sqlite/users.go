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

type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := getDoc(ctx, r.db, &p, `SELECT doc FROM user_profiles WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) UpsertProfile(ctx context.Context, p *domain.UserProfile) error {
	if p.UserID == "" {
		return repository.ErrInvalidID
	}
	p.UpdatedAt = time.Now().UTC()
	doc, err := encodeDoc(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		p.UserID, doc, formatTime(p.UpdatedAt),
	)
	return err
}

func (r *profileRepo) GetRecoveryScore(ctx context.Context, userID string) (*domain.RecoveryScore, error) {
	var s domain.RecoveryScore
	if err := getDoc(ctx, r.db, &s, `SELECT doc FROM recovery_scores WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *profileRepo) SaveRecoveryScore(ctx context.Context, userID string, s *domain.RecoveryScore) error {
	if userID == "" {
		return repository.ErrInvalidID
	}
	doc, err := encodeDoc(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO recovery_scores (user_id, doc) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc`,
		userID, doc,
	)
	return err
}

type performanceRepo struct {
	db *sql.DB
}

func (r *performanceRepo) ListByUser(ctx context.Context, userID string) ([]*domain.UserExercisePerformance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT doc FROM exercise_performance WHERE user_id = ? ORDER BY exercise_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query performance: %w", err)
	}
	defer rows.Close()

	var out []*domain.UserExercisePerformance
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p domain.UserExercisePerformance
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode performance: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *performanceRepo) Get(ctx context.Context, userID, exerciseID string) (*domain.UserExercisePerformance, error) {
	var p domain.UserExercisePerformance
	err := getDoc(ctx, r.db, &p,
		`SELECT doc FROM exercise_performance WHERE user_id = ? AND exercise_id = ?`, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *performanceRepo) Upsert(ctx context.Context, p *domain.UserExercisePerformance) error {
	if p.UserID == "" || p.ExerciseID == "" {
		return errors.New("performance requires userId and exerciseId")
	}
	p.UpdatedAt = time.Now().UTC()
	doc, err := encodeDoc(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO exercise_performance (user_id, exercise_id, doc, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, exercise_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		p.UserID, p.ExerciseID, doc, formatTime(p.UpdatedAt),
	)
	return err
}

type muscleStatsRepo struct {
	db *sql.DB
}

// AddVolume applies every delta in one transaction.
func (r *muscleStatsRepo) AddVolume(ctx context.Context, userID string, delta domain.MuscleVolume) error {
	if userID == "" {
		return repository.ErrInvalidID
	}
	if len(delta) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for muscle, v := range delta {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO muscle_volume (user_id, muscle_id, volume) VALUES (?, ?, ?)
			 ON CONFLICT(user_id, muscle_id) DO UPDATE SET volume = volume + excluded.volume`,
			userID, muscle, v,
		)
		if err != nil {
			return fmt.Errorf("add volume %s: %w", muscle, err)
		}
	}
	return tx.Commit()
}

func (r *muscleStatsRepo) GetVolume(ctx context.Context, userID string) (domain.MuscleVolume, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT muscle_id, volume FROM muscle_volume WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query muscle volume: %w", err)
	}
	defer rows.Close()

	out := domain.MuscleVolume{}
	for rows.Next() {
		var muscle string
		var v float64
		if err := rows.Scan(&muscle, &v); err != nil {
			return nil, err
		}
		out[muscle] = v
	}
	return out, rows.Err()
}

type weightsRepo struct {
	db *sql.DB
}

func (r *weightsRepo) Get(ctx context.Context, userID string) (*domain.AdaptiveUserWeights, error) {
	var w domain.AdaptiveUserWeights
	if err := getDoc(ctx, r.db, &w, `SELECT doc FROM adaptive_weights WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *weightsRepo) Upsert(ctx context.Context, w *domain.AdaptiveUserWeights) error {
	if w.UserID == "" {
		return repository.ErrInvalidID
	}
	doc, err := encodeDoc(w)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO adaptive_weights (user_id, doc) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc`,
		w.UserID, doc,
	)
	return err
}
