// Package learning turns logged sets and prescription feedback into updated
// performance records and per-user scoring weights.
package learning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/observability"
	"musclemap/prescription-engine/internal/repository"
)

const (
	DefaultWindowDays = 30
	DefaultMinSamples = 5

	confidenceStep = 0.05

	skipRateThreshold       = 0.4
	completionRateThreshold = 0.9
	difficultyFlagShare     = 0.3
	varietyMultiplier       = 5
)

// DifficultyPreference is what the user's too-easy/too-hard flags point to.
type DifficultyPreference string

const (
	PreferHarder   DifficultyPreference = "harder"
	PreferModerate DifficultyPreference = "moderate"
	PreferEasier   DifficultyPreference = "easier"
)

// intensity band per difficulty preference
var intensityFor = map[DifficultyPreference]domain.IntensityRange{
	PreferHarder:   {Min: 8, Max: 9.5},
	PreferModerate: {Min: 6.5, Max: 8},
	PreferEasier:   {Min: 5.5, Max: 7},
}

// Analysis summarises one feedback window.
type Analysis struct {
	Samples           int
	AvgSatisfaction   float64
	CompletionRate    float64
	HasCompletionData bool // false when no exercise was completed or skipped
	SkippedPatterns   []domain.MovementPattern
	PreferredPatterns []domain.MovementPattern
	Difficulty        DifficultyPreference
	PrefersVariety    bool
}

type patternTally struct{ skipped, completed int }

// Analyze derives preference patterns from feedback rows joined with their prescriptions.
func Analyze(rows []domain.FeedbackWithPrescription) Analysis {
	a := Analysis{Samples: len(rows), Difficulty: PreferModerate}
	if len(rows) == 0 {
		return a
	}

	satisfaction, done, total := 0.0, 0, 0
	tallies := map[domain.MovementPattern]*patternTally{}
	distinct := map[string]bool{}
	sessions := 0
	easy, hard, flagged := 0, 0, 0

	for _, row := range rows {
		f := row.Feedback
		satisfaction += float64(f.OverallSatisfaction)
		done += f.ExercisesCompleted
		total += f.ExercisesCompleted + f.ExercisesSkipped

		for _, ef := range f.ExerciseFeedback {
			flagged++
			if ef.TooEasy {
				easy++
			}
			if ef.TooHard {
				hard++
			}
		}

		if row.Prescription == nil {
			continue
		}
		sessions++
		for _, pe := range row.Prescription.Exercises {
			distinct[pe.ExerciseID] = true
			t, ok := tallies[pe.MovementPattern]
			if !ok {
				t = &patternTally{}
				tallies[pe.MovementPattern] = t
			}
			if f.SubstitutedExercise(pe.ExerciseID) {
				t.skipped++
			} else {
				t.completed++
			}
		}
	}

	a.AvgSatisfaction = satisfaction / float64(len(rows))
	if total > 0 {
		a.HasCompletionData = true
		a.CompletionRate = float64(done) / float64(total)
	}

	for p, t := range tallies {
		n := float64(t.skipped + t.completed)
		if n == 0 {
			continue
		}
		if float64(t.skipped)/n > skipRateThreshold {
			a.SkippedPatterns = append(a.SkippedPatterns, p)
		}
		if float64(t.completed)/n > completionRateThreshold {
			a.PreferredPatterns = append(a.PreferredPatterns, p)
		}
	}
	sortPatterns(a.SkippedPatterns)
	sortPatterns(a.PreferredPatterns)

	if flagged > 0 {
		switch {
		case float64(easy)/float64(flagged) > difficultyFlagShare:
			a.Difficulty = PreferHarder
		case float64(hard)/float64(flagged) > difficultyFlagShare:
			a.Difficulty = PreferEasier
		}
	}
	a.PrefersVariety = sessions > 0 && len(distinct) > varietyMultiplier*sessions
	return a
}

func sortPatterns(ps []domain.MovementPattern) {
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
}

// WeightDeltas maps an analysis onto factor weight overrides.
// A lower skillAppropriate weight lets harder exercises through more readily.
func WeightDeltas(a Analysis) map[domain.Factor]float64 {
	d := map[domain.Factor]float64{}
	if a.PrefersVariety {
		d[domain.FactorVarietyOptimization] = 6
	}
	switch a.Difficulty {
	case PreferHarder:
		d[domain.FactorSkillAppropriate] = 4
	case PreferEasier:
		d[domain.FactorSkillAppropriate] = 10
	}
	if a.AvgSatisfaction > 0 && a.AvgSatisfaction < 3 {
		d[domain.FactorUserPreference] = 12
	}
	// a zero rate with data means everything was skipped
	if a.HasCompletionData && a.CompletionRate < 0.7 {
		d[domain.FactorRecoveryAppropriate] = 12
	}
	return d
}

// AdaptiveOptions tunes the learning window.
type AdaptiveOptions struct {
	WindowDays int
	MinSamples int
	Now        func() time.Time
}

// Adaptive recomputes AdaptiveUserWeights from recent feedback. Updates for
// one user are serialized; different users proceed in parallel.
type Adaptive struct {
	log        *logger.Logger
	feedback   repository.FeedbackRepository
	weights    repository.WeightsRepository
	cache      *cache.TieredCache
	window     time.Duration
	minSamples int
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewAdaptive builds the updater. c may be nil.
func NewAdaptive(log *logger.Logger, feedback repository.FeedbackRepository, weights repository.WeightsRepository, c *cache.TieredCache, opts AdaptiveOptions) *Adaptive {
	days := opts.WindowDays
	if days <= 0 {
		days = DefaultWindowDays
	}
	minSamples := opts.MinSamples
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Adaptive{
		log:        logger.OrNop(log).With("component", "AdaptiveLearning"),
		feedback:   feedback,
		weights:    weights,
		cache:      c,
		window:     time.Duration(days) * 24 * time.Hour,
		minSamples: minSamples,
		now:        now,
		locks:      map[string]*userLock{},
	}
}

// Update reruns learning for one user. It reports false without writing when
// the window holds fewer than the minimum number of samples.
func (a *Adaptive) Update(ctx context.Context, userID string) (updated bool, err error) {
	ctx, span := observability.Tracer().Start(ctx, "learning.update")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Bool("learning.updated", updated))
		span.End()
	}()

	unlock := a.lock(userID)
	defer unlock()

	rows, err := a.feedback.ListSinceWithPrescriptions(ctx, userID, a.now().Add(-a.window))
	if err != nil {
		return false, fmt.Errorf("load feedback window: %w", err)
	}
	span.SetAttributes(attribute.Int("learning.samples", len(rows)))
	if len(rows) < a.minSamples {
		a.log.Debug("not enough feedback to learn from", "userId", userID, "samples", len(rows), "required", a.minSamples)
		return false, nil
	}

	analysis := Analyze(rows)

	current, err := a.weights.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		current = &domain.AdaptiveUserWeights{UserID: userID}
	} else if err != nil {
		return false, fmt.Errorf("load weights: %w", err)
	}

	next := merge(current, analysis, a.now().UTC())
	if err := a.weights.Upsert(ctx, next); err != nil {
		return false, fmt.Errorf("save weights: %w", err)
	}
	if a.cache != nil {
		a.cache.Invalidate(ctx, cache.EntityUserWeights, userID)
	}

	a.log.Info("adaptive weights updated",
		"userId", userID,
		"samples", len(rows),
		"confidence", next.Confidence,
		"difficulty", analysis.Difficulty,
		"modifiers", len(next.WeightModifiers),
	)
	return true, nil
}

// merge overlays the analysis onto the stored weights without mutating them.
func merge(cur *domain.AdaptiveUserWeights, a Analysis, now time.Time) *domain.AdaptiveUserWeights {
	next := *cur
	next.WeightModifiers = make(map[domain.Factor]float64, len(cur.WeightModifiers)+4)
	for f, v := range cur.WeightModifiers {
		next.WeightModifiers[f] = v
	}
	for f, v := range WeightDeltas(a) {
		next.WeightModifiers[f] = v
	}
	next.PreferredPatterns = append([]domain.MovementPattern(nil), a.PreferredPatterns...)
	next.AvoidedPatterns = append([]domain.MovementPattern(nil), a.SkippedPatterns...)
	next.PreferredIntensity = intensityFor[a.Difficulty]
	next.SamplesUsed = cur.SamplesUsed + a.Samples
	next.Confidence = math.Min(1, cur.Confidence+confidenceStep)
	next.LastUpdated = now
	return &next
}

// lock returns the unlock func of the user's mutex, dropping the entry once unused.
func (a *Adaptive) lock(userID string) func() {
	a.mu.Lock()
	l, ok := a.locks[userID]
	if !ok {
		l = &userLock{}
		a.locks[userID] = l
	}
	l.refs++
	a.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		a.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(a.locks, userID)
		}
		a.mu.Unlock()
	}
}
