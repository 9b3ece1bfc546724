// Package prescription assembles scored, load-prescribed exercises into a
// complete, time-boxed training session.
package prescription

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/load"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/scoring"
)

const AlgorithmVersion = "2.1.0"

var ErrMissingUser = errors.New("prescription request has no user context")

// Request is everything one build needs. The caller owns every field; the
// builder never mutates them.
type Request struct {
	User        *domain.UserContext
	Catalog     []*domain.ExerciseMetadata
	Performance map[string]*domain.UserExercisePerformance // by exercise id
	Volume      domain.MuscleVolume
	Weights     *domain.AdaptiveUserWeights // optional, applied for this request only

	TargetMuscles  []string
	ExcludeMuscles []string

	Now time.Time
}

// Options tunes a Builder.
type Options struct {
	// Concurrency bounds the scoring fan-out. Zero means 8.
	Concurrency int
}

// Builder turns a Request into a PrescriptionResult. It holds no per-request state
// and is safe for concurrent use.
type Builder struct {
	log         *logger.Logger
	concurrency int
}

func NewBuilder(log *logger.Logger, opts Options) *Builder {
	c := opts.Concurrency
	if c <= 0 {
		c = 8
	}
	return &Builder{
		log:         logger.OrNop(log).With("component", "PrescriptionBuilder"),
		concurrency: c,
	}
}

// candidate is one scored catalog entry.
type candidate struct {
	ex     *domain.ExerciseMetadata
	perf   *domain.UserExercisePerformance
	score  domain.ScoreBreakdown
	reject scoring.RejectReason
}

// Build scores the catalog in parallel, then selects, orders and packages the
// session. Returning fewer exercises than targeted is not an error.
func (b *Builder) Build(ctx context.Context, req Request) (*domain.PrescriptionResult, error) {
	if req.User == nil {
		return nil, ErrMissingUser
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	user := req.User
	weights := scoring.ResolveWeights(user, req.Weights)

	scored, err := b.scoreAll(ctx, req, weights, now)
	if err != nil {
		return nil, err
	}

	index := make(map[string]*candidate, len(scored))
	pool := make([]*candidate, 0, len(scored))
	rejected := 0
	for _, c := range scored {
		index[c.ex.ID] = c
		if c.reject != scoring.RejectNone {
			rejected++
			continue
		}
		if c.score.Total > 0 {
			pool = append(pool, c)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].score.Total != pool[j].score.Total {
			return pool[i].score.Total > pool[j].score.Total
		}
		return pool[i].ex.ID < pool[j].ex.ID
	})

	target := targetCount(user)
	selected := selectExercises(pool, target, weights.Max(domain.FactorMovementPatternBalance))
	ordered := orderExercises(selected, user.PrimaryGoal())
	ordered, pairs := pairSupersets(ordered)

	result := &domain.PrescriptionResult{
		UserID:    user.UserID,
		Exercises: make([]domain.PrescribedExercise, 0, len(ordered)),
		Supersets: pairs,
		CreatedAt: now,
	}
	groupOf := map[string]string{}
	for _, p := range pairs {
		groupOf[p.FirstExerciseID] = p.Group
		groupOf[p.SecondExerciseID] = p.Group
	}
	main := map[string]bool{}
	for _, c := range ordered {
		main[c.ex.ID] = true
	}
	for i, c := range ordered {
		result.Exercises = append(result.Exercises, domain.PrescribedExercise{
			ExerciseID:      c.ex.ID,
			Name:            c.ex.Name,
			MovementPattern: c.ex.MovementPattern,
			PrimaryMuscles:  c.ex.PrimaryMuscleIDs(),
			Order:           i + 1,
			Score:           c.score,
			Load:            load.Calculate(c.ex, user, c.perf),
			Substitutes:     substitutesFor(c.ex, index, main),
			SupersetGroup:   groupOf[c.ex.ID],
		})
	}

	result.Warmup = buildWarmup(scored, ordered, main)
	used := map[string]bool{}
	for id := range main {
		used[id] = true
	}
	for _, w := range result.Warmup {
		used[w.ExerciseID] = true
	}
	result.Cooldown = buildCooldown(scored, ordered, used)

	result.MuscleCoverage = muscleCoverage(result.Exercises, index)
	result.PatternBalance = patternBalance(result.Exercises)
	result.ActualDuration = estimateDuration(result)
	result.Difficulty = difficultyFor(result.Exercises, user.RecoveryClass())
	result.Metadata = domain.GenerationMetadata{
		AlgorithmVersion:   AlgorithmVersion,
		GeneratedAt:        now,
		PrimaryGoal:        user.PrimaryGoal(),
		TargetCount:        target,
		CandidatesScored:   len(scored),
		CandidatesRejected: rejected,
		RecoveryAdjusted:   user.RecoveryClass() == domain.RecoveryPoor || user.RecoveryClass() == domain.RecoveryFair,
		PersonalizedWeight: req.Weights != nil && len(req.Weights.WeightModifiers) > 0,
	}
	if req.Weights != nil {
		result.Metadata.WeightConfidence = req.Weights.Confidence
	}

	b.log.Debug("prescription built",
		"userId", user.UserID,
		"goal", user.PrimaryGoal(),
		"scored", len(scored),
		"rejected", rejected,
		"target", target,
		"selected", len(result.Exercises),
		"durationMin", result.ActualDuration,
	)
	return result, nil
}

// scoreAll fans scoring out across the catalog and returns candidates in catalog order.
func (b *Builder) scoreAll(ctx context.Context, req Request, weights scoring.Weights, now time.Time) ([]*candidate, error) {
	out := make([]*candidate, len(req.Catalog))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, ex := range req.Catalog {
		if ex == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perf := req.Performance[ex.ID]
			score, reason := scoring.Evaluate(scoring.Input{
				Exercise:       ex,
				User:           req.User,
				Performance:    perf,
				MuscleVolume:   req.Volume,
				TargetMuscles:  req.TargetMuscles,
				ExcludeMuscles: req.ExcludeMuscles,
				Weights:        weights,
				Adaptive:       req.Weights,
				Now:            now,
			})
			out[i] = &candidate{ex: ex, perf: perf, score: score, reject: reason}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	compact := out[:0]
	for _, c := range out {
		if c != nil {
			compact = append(compact, c)
		}
	}
	return compact, nil
}
