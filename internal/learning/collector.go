package learning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/repository"
)

var (
	ErrInvalidFeedback = errors.New("invalid feedback")
	ErrInvalidSet      = errors.New("invalid set log")
	ErrUnknownExercise = errors.New("unknown exercise")
)

const secondaryVolumeShare = 0.5

// Enqueuer accepts a user id for a later adaptive update.
type Enqueuer interface {
	Enqueue(userID string) bool
}

// CollectorDeps are the stores the collector writes to. Cache and Queue may be nil.
type CollectorDeps struct {
	Exercises   repository.ExerciseRepository
	Performance repository.PerformanceRepository
	MuscleStats repository.MuscleStatsRepository
	Feedback    repository.FeedbackRepository
	Cache       *cache.TieredCache
	Queue       Enqueuer
	Now         func() time.Time
}

// Collector records what users did and what they thought of it.
type Collector struct {
	log  *logger.Logger
	deps CollectorDeps
	now  func() time.Time
}

func NewCollector(log *logger.Logger, deps CollectorDeps) *Collector {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Collector{
		log:  logger.OrNop(log).With("component", "FeedbackCollector"),
		deps: deps,
		now:  now,
	}
}

// RecordFeedback stores f verbatim and schedules a learning pass. Scheduling
// problems never fail the call.
func (c *Collector) RecordFeedback(ctx context.Context, f *domain.PrescriptionFeedback) (*domain.PrescriptionFeedback, error) {
	if err := validateFeedback(f); err != nil {
		return nil, err
	}
	f.ID = uuid.NewString()
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = c.now().UTC()
	}
	if err := c.deps.Feedback.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}

	if c.deps.Cache != nil {
		c.deps.Cache.InvalidateOnEvent(ctx, cache.EventFeedbackSubmitted, f.UserID)
		c.deps.Cache.Invalidate(ctx, cache.EntityUserPerformance, f.UserID)
	}
	if c.deps.Queue != nil {
		// a full queue is logged by the queue
		c.deps.Queue.Enqueue(f.UserID)
	}
	return f, nil
}

func validateFeedback(f *domain.PrescriptionFeedback) error {
	switch {
	case f == nil:
		return fmt.Errorf("%w: empty body", ErrInvalidFeedback)
	case strings.TrimSpace(f.UserID) == "":
		return fmt.Errorf("%w: userId is required", ErrInvalidFeedback)
	case strings.TrimSpace(f.PrescriptionID) == "":
		return fmt.Errorf("%w: prescriptionId is required", ErrInvalidFeedback)
	case f.OverallSatisfaction < 1 || f.OverallSatisfaction > 5:
		return fmt.Errorf("%w: overallSatisfaction must be 1-5", ErrInvalidFeedback)
	case f.ExercisesCompleted < 0 || f.ExercisesSkipped < 0:
		return fmt.Errorf("%w: exercise counts must not be negative", ErrInvalidFeedback)
	case f.PerceivedDifficulty < 0 || f.PerceivedDifficulty > 10:
		return fmt.Errorf("%w: perceivedDifficulty must be 1-10", ErrInvalidFeedback)
	}
	return nil
}

// RecordSet folds one logged set into the user's performance record and
// muscle volume, then fires set_logged.
func (c *Collector) RecordSet(ctx context.Context, set domain.SetLog) (*domain.UserExercisePerformance, error) {
	if err := validateSet(set); err != nil {
		return nil, err
	}
	if set.LoggedAt.IsZero() {
		set.LoggedAt = c.now().UTC()
	}

	ex, err := c.deps.Exercises.GetByID(ctx, set.ExerciseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExercise, set.ExerciseID)
	} else if err != nil {
		return nil, fmt.Errorf("load exercise: %w", err)
	}

	perf, err := c.deps.Performance.Get(ctx, set.UserID, set.ExerciseID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load performance: %w", err)
	}
	perf = ApplySet(perf, set)
	if err := c.deps.Performance.Upsert(ctx, perf); err != nil {
		return nil, fmt.Errorf("save performance: %w", err)
	}

	if err := c.deps.MuscleStats.AddVolume(ctx, set.UserID, SetVolume(ex, set)); err != nil {
		// the performance record is already saved; volume only feeds variety scoring
		c.log.Warn("muscle volume not recorded", "userId", set.UserID, "exerciseId", set.ExerciseID, "error", err)
	}

	if c.deps.Cache != nil {
		c.deps.Cache.InvalidateOnEvent(ctx, cache.EventSetLogged, set.UserID)
	}
	return perf, nil
}

func validateSet(s domain.SetLog) error {
	switch {
	case strings.TrimSpace(s.UserID) == "":
		return fmt.Errorf("%w: userId is required", ErrInvalidSet)
	case strings.TrimSpace(s.ExerciseID) == "":
		return fmt.Errorf("%w: exerciseId is required", ErrInvalidSet)
	case s.Reps <= 0:
		return fmt.Errorf("%w: reps must be positive", ErrInvalidSet)
	case s.WeightKg < 0:
		return fmt.Errorf("%w: weightKg must not be negative", ErrInvalidSet)
	}
	return nil
}

// CompleteWorkout fires workout_complete for the user.
func (c *Collector) CompleteWorkout(ctx context.Context, userID string) []cache.Entity {
	if c.deps.Cache == nil {
		return nil
	}
	return c.deps.Cache.InvalidateOnEvent(ctx, cache.EventWorkoutComplete, userID)
}

// ApplySet returns perf updated with one logged set. A nil perf starts a new record.
func ApplySet(perf *domain.UserExercisePerformance, s domain.SetLog) *domain.UserExercisePerformance {
	if perf == nil {
		perf = &domain.UserExercisePerformance{UserID: s.UserID, ExerciseID: s.ExerciseID}
	}

	if s.NewSession || perf.Timeline.TotalSessions == 0 {
		perf.Timeline.TotalSessions++
		perf.Strength.RecentMaxWeight = 0
		perf.Strength.RecentMaxReps = 0
	}
	perf.Volume.TotalSets++
	perf.Volume.TotalReps += s.Reps
	perf.Volume.TotalTonnage += float64(s.Reps) * s.WeightKg

	if s.WeightKg > perf.Strength.MaxWeightEver {
		perf.Strength.MaxWeightEver = s.WeightKg
	}
	if s.WeightKg > perf.Strength.RecentMaxWeight {
		perf.Strength.RecentMaxWeight = s.WeightKg
	}
	if s.Reps > perf.Strength.RecentMaxReps {
		perf.Strength.RecentMaxReps = s.Reps
	}

	if s.Estimated1RM != nil {
		perf.Strength.Estimated1RM = *s.Estimated1RM
	} else if est := Epley(s.WeightKg, s.Reps); est > perf.Strength.Estimated1RM {
		perf.Strength.Estimated1RM = est
	}

	if s.Success {
		perf.Timeline.ConsecutiveSuccessSessions++
	} else {
		perf.Timeline.ConsecutiveSuccessSessions = 0
	}

	if s.Skill != nil {
		perf.Skill = *s.Skill
	}
	if s.Enjoyment != nil {
		perf.Feedback.Enjoyment = *s.Enjoyment
	}
	if s.PerceivedDifficulty != nil {
		perf.Feedback.PerceivedDifficulty = *s.PerceivedDifficulty
	}
	if s.JointStress != nil {
		perf.Feedback.JointStress = *s.JointStress
	}

	if perf.Timeline.FirstPerformed.IsZero() {
		perf.Timeline.FirstPerformed = s.LoggedAt
	}
	if s.LoggedAt.After(perf.Timeline.LastPerformed) {
		perf.Timeline.LastPerformed = s.LoggedAt
	}
	return perf
}

// Epley estimates a one-rep max. A single rep is its own max.
func Epley(weight float64, reps int) float64 {
	if weight <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

// SetVolume credits reps x weight (reps alone for bodyweight work) to primary
// muscles in full and to secondary muscles at half.
func SetVolume(ex *domain.ExerciseMetadata, s domain.SetLog) domain.MuscleVolume {
	load := float64(s.Reps)
	if s.WeightKg > 0 {
		load *= s.WeightKg
	}
	out := domain.MuscleVolume{}
	for _, m := range ex.PrimaryMuscleIDs() {
		out[m] += load
	}
	for _, m := range ex.SecondaryMuscleIDs() {
		out[m] += load * secondaryVolumeShare
	}
	return out
}
