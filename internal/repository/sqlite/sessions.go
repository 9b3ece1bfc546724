package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"musclemap/prescription-engine/internal/domain"
)

type prescriptionRepo struct {
	db *sql.DB
}

func (r *prescriptionRepo) Create(ctx context.Context, p *domain.PrescriptionResult) error {
	if p.ID == "" || p.UserID == "" {
		return errors.New("prescription requires id and userId")
	}
	doc, err := encodeDoc(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO prescriptions (id, user_id, doc, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.UserID, doc, formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepo) GetByID(ctx context.Context, id string) (*domain.PrescriptionResult, error) {
	var p domain.PrescriptionResult
	if err := getDoc(ctx, r.db, &p, `SELECT doc FROM prescriptions WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

type feedbackRepo struct {
	db *sql.DB
}

func (r *feedbackRepo) Create(ctx context.Context, f *domain.PrescriptionFeedback) error {
	if f.ID == "" || f.UserID == "" || f.PrescriptionID == "" {
		return errors.New("feedback requires id, userId and prescriptionId")
	}
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = time.Now().UTC()
	}
	doc, err := encodeDoc(f)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO prescription_feedback (id, user_id, prescription_id, doc, submitted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.UserID, f.PrescriptionID, doc, formatTime(f.SubmittedAt),
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListSinceWithPrescriptions joins in SQL; a missing prescription yields a nil Prescription.
func (r *feedbackRepo) ListSinceWithPrescriptions(ctx context.Context, userID string, since time.Time) ([]domain.FeedbackWithPrescription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.doc, p.doc
		 FROM prescription_feedback f
		 LEFT JOIN prescriptions p ON p.id = f.prescription_id
		 WHERE f.user_id = ? AND f.submitted_at >= ?
		 ORDER BY f.submitted_at DESC`,
		userID, formatTime(since),
	)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var out []domain.FeedbackWithPrescription
	for rows.Next() {
		var fraw string
		var praw sql.NullString
		if err := rows.Scan(&fraw, &praw); err != nil {
			return nil, err
		}
		var row domain.FeedbackWithPrescription
		if err := json.Unmarshal([]byte(fraw), &row.Feedback); err != nil {
			return nil, fmt.Errorf("decode feedback: %w", err)
		}
		if praw.Valid {
			var p domain.PrescriptionResult
			if err := json.Unmarshal([]byte(praw.String), &p); err != nil {
				return nil, fmt.Errorf("decode prescription: %w", err)
			}
			row.Prescription = &p
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
