package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/learning"
	"musclemap/prescription-engine/internal/learning/preference"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/repository"
)

// LearningService is the write side of personalization plus the read
// endpoints that expose what was learned.
type LearningService interface {
	SubmitFeedback(ctx context.Context, userID string, f *domain.PrescriptionFeedback) (*domain.PrescriptionFeedback, error)
	LogSet(ctx context.Context, userID string, set domain.SetLog) (*domain.UserExercisePerformance, error)
	CompleteWorkout(ctx context.Context, userID string) []cache.Entity
	Preferences(ctx context.Context, userID string) (preference.Profile, error)
	Weights(ctx context.Context, userID string) (*domain.AdaptiveUserWeights, error)
}

type learningService struct {
	log       *logger.Logger
	store     repository.Store
	collector *learning.Collector
}

func NewLearningService(log *logger.Logger, store repository.Store, collector *learning.Collector) LearningService {
	return &learningService{
		log:       logger.OrNop(log).With("component", "LearningService"),
		store:     store,
		collector: collector,
	}
}

// SubmitFeedback only accepts feedback on the caller's own prescriptions.
func (s *learningService) SubmitFeedback(ctx context.Context, userID string, f *domain.PrescriptionFeedback) (*domain.PrescriptionFeedback, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: empty body", learning.ErrInvalidFeedback)
	}
	f.UserID = userID
	p, err := s.store.Prescriptions.GetByID(ctx, f.PrescriptionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPrescriptionNotFound
	} else if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrPrescriptionAccessDenied
	}
	return s.collector.RecordFeedback(ctx, f)
}

func (s *learningService) LogSet(ctx context.Context, userID string, set domain.SetLog) (*domain.UserExercisePerformance, error) {
	set.UserID = userID
	return s.collector.RecordSet(ctx, set)
}

func (s *learningService) CompleteWorkout(ctx context.Context, userID string) []cache.Entity {
	return s.collector.CompleteWorkout(ctx, userID)
}

func (s *learningService) Preferences(ctx context.Context, userID string) (preference.Profile, error) {
	var training *domain.TrainingProfile
	prof, err := s.store.Profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		training = prof.Training
	case !errors.Is(err, repository.ErrNotFound):
		return preference.Profile{}, fmt.Errorf("load profile: %w", err)
	}

	perfs, err := s.store.Performance.ListByUser(ctx, userID)
	if err != nil {
		return preference.Profile{}, fmt.Errorf("load performance: %w", err)
	}
	byID := make(map[string]*domain.UserExercisePerformance, len(perfs))
	for _, p := range perfs {
		byID[p.ExerciseID] = p
	}
	return preference.BuildProfile(training, byID), nil
}

// Weights returns an empty, zero-confidence record for users nothing was learned about yet.
// Confidence is rounded to two decimals for display; the stored value is not.
func (s *learningService) Weights(ctx context.Context, userID string) (*domain.AdaptiveUserWeights, error) {
	w, err := s.store.Weights.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.AdaptiveUserWeights{UserID: userID, WeightModifiers: map[domain.Factor]float64{}}, nil
	} else if err != nil {
		return nil, err
	}
	view := *w
	view.Confidence = math.Round(w.Confidence*100) / 100
	return &view, nil
}
