package repository

import (
	"context"
	"time"

	"musclemap/prescription-engine/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrInvalidID    = RepositoryError("invalid id")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseRepository stores the exercise catalog.
type ExerciseRepository interface {
	List(ctx context.Context) ([]*domain.ExerciseMetadata, error)
	GetByID(ctx context.Context, id string) (*domain.ExerciseMetadata, error)
	Upsert(ctx context.Context, exercise *domain.ExerciseMetadata) error
}

// ProfileRepository reads the long-lived user state assembled into a UserContext.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *domain.UserProfile) error
	// GetRecoveryScore returns the latest score. ErrNotFound when none was computed.
	GetRecoveryScore(ctx context.Context, userID string) (*domain.RecoveryScore, error)
	SaveRecoveryScore(ctx context.Context, userID string, score *domain.RecoveryScore) error
}

// PerformanceRepository stores one record per user x exercise.
type PerformanceRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.UserExercisePerformance, error)
	Get(ctx context.Context, userID, exerciseID string) (*domain.UserExercisePerformance, error)
	Upsert(ctx context.Context, perf *domain.UserExercisePerformance) error
}

// MuscleStatsRepository tracks accumulated training volume per muscle.
type MuscleStatsRepository interface {
	AddVolume(ctx context.Context, userID string, delta domain.MuscleVolume) error
	GetVolume(ctx context.Context, userID string) (domain.MuscleVolume, error)
}

// WeightsRepository stores learned scoring weights. Get returns ErrNotFound for new users.
type WeightsRepository interface {
	Get(ctx context.Context, userID string) (*domain.AdaptiveUserWeights, error)
	Upsert(ctx context.Context, weights *domain.AdaptiveUserWeights) error
}

// FeedbackRepository stores prescription feedback verbatim.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.PrescriptionFeedback) error
	// ListSinceWithPrescriptions joins each feedback row submitted at or after since
	// with its originating prescription, newest first.
	ListSinceWithPrescriptions(ctx context.Context, userID string, since time.Time) ([]domain.FeedbackWithPrescription, error)
}

// PrescriptionRepository stores generated sessions.
type PrescriptionRepository interface {
	Create(ctx context.Context, p *domain.PrescriptionResult) error
	GetByID(ctx context.Context, id string) (*domain.PrescriptionResult, error)
}

// Store bundles every repository a backend provides.
type Store struct {
	Exercises     ExerciseRepository
	Profiles      ProfileRepository
	Performance   PerformanceRepository
	MuscleStats   MuscleStatsRepository
	Weights       WeightsRepository
	Feedback      FeedbackRepository
	Prescriptions PrescriptionRepository
}
