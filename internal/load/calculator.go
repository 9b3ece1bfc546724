// Package load turns a scored exercise into sets, reps, intensity and rest.
package load

import (
	"fmt"
	"math"
	"strings"

	"musclemap/prescription-engine/internal/domain"
)

const (
	minSets, maxSets = 1, 6
	minRPE, maxRPE   = 5.0, 10.0
	minRest, maxRest = 30, 300

	plateStep = 2.5 // kg
)

// Calculate builds the load recommendation for one exercise. perf may be nil.
// Adjustments apply in a fixed order: goal base, phase, recovery, exercise
// traits, experience; the result is then clamped.
func Calculate(ex *domain.ExerciseMetadata, user *domain.UserContext, perf *domain.UserExercisePerformance) domain.LoadRecommendation {
	goal := user.PrimaryGoal()
	base, ok := goalBases[goal]
	if !ok {
		base = goalBases[domain.GoalGeneralFitness]
	}
	sets := float64(base.sets)
	reps := base.reps
	rpe := base.rpe
	rest := float64(base.rest)

	// (a) phase
	if pm, ok := phaseMultipliers[user.Phase]; ok {
		sets *= pm.volume
		rpe = roundHalf(rpe * pm.intensity)
		rest *= pm.rest
	}

	// (b) recovery
	ra := recoveryAdjustments[user.RecoveryClass()]
	sets *= ra.sets
	rpe += ra.rpeDelta
	rest *= ra.rest

	// (c) exercise traits
	cns := ex.Performance.CNSLoad
	if cns >= 8 && rest < 180 {
		rest = 180
	}
	if cns >= 9 && sets > 4 {
		sets = 4
	}
	if cns > 0 && cns <= 4 && rest > 90 {
		rest = 90
	}
	if ex.Performance.TechnicalComplexity >= 8 && !reps.Timed {
		reps.Min = minInt(reps.Min, 5)
		reps.Max = minInt(reps.Max, 5)
	}
	if ex.MovementPattern.IsIsolation() && !reps.Timed {
		reps.Min = maxInt(reps.Min, 8)
		reps.Max = maxInt(reps.Max, 12)
	}
	recoveryWork := ex.MovementPattern.IsRecoveryWork()
	if recoveryWork {
		sets, reps, rpe, rest = 2, domain.HoldSeconds(30, 60), 5, 30
	}

	// (d) experience; holds keep their fixed format
	if !recoveryWork {
		switch user.Experience() {
		case domain.ExperienceBeginner:
			sets = math.Min(sets, 3)
			rpe = math.Min(rpe, 7)
			if !reps.Timed {
				reps.Min = maxInt(reps.Min, 8)
				reps.Max = maxInt(reps.Max, 8)
			}
		case domain.ExperienceAdvanced:
			sets = math.Max(sets, 3)
		case domain.ExperienceElite:
			sets = math.Max(sets, 4)
			rpe += 0.5
		}
	}

	rec := domain.LoadRecommendation{
		Sets:        clampInt(int(math.Round(sets)), minSets, maxSets),
		Reps:        reps,
		RPE:         clampFloat(roundHalf(rpe), minRPE, maxRPE),
		RestSeconds: clampInt(roundTo5(rest), minRest, maxRest),
	}

	if oneRM := estimated1RM(ex.ID, user, perf); oneRM > 0 && rec.Reps.Numeric() {
		rec.PercentageOf1RM = PercentOf1RM(rec.Reps.Min, rec.RPE)
		rec.SuggestedWeight = math.Round(oneRM*rec.PercentageOf1RM/100/plateStep) * plateStep
	}
	if goal == domain.GoalHypertrophy && !recoveryWork {
		rec.Tempo = tempoFor(ex.MovementPattern)
	}
	rec.Notes = advisoryNotes(ex, user, perf)
	return rec
}

// PercentOf1RM returns the table cell nearest to (reps, rpe). Ties between two
// rep rows resolve to the higher rep count, the lighter load.
func PercentOf1RM(reps int, rpe float64) float64 {
	row := 0
	for i, r := range tableReps {
		if absInt(r-reps) <= absInt(tableReps[row]-reps) {
			row = i
		}
	}
	col := 0
	for i, x := range tableRPE {
		if math.Abs(x-rpe) < math.Abs(tableRPE[col]-rpe) {
			col = i
		}
	}
	return percentTable[row][col]
}

// SupersetRest returns rest between the two exercises of a pair and rest after the pair.
func SupersetRest(a, b *domain.ExerciseMetadata) (between, after int) {
	switch {
	case IsAgonistAntagonist(a.MovementPattern, b.MovementPattern):
		return 30, 120
	case sharePrimary(a, b):
		return 60, 150
	default:
		return 45, 90
	}
}

// IsAgonistAntagonist reports whether two patterns form an opposing pair, in either order.
func IsAgonistAntagonist(a, b domain.MovementPattern) bool {
	for _, p := range AgonistAntagonistPairs {
		if (p[0] == a && p[1] == b) || (p[0] == b && p[1] == a) {
			return true
		}
	}
	return false
}

func sharePrimary(a, b *domain.ExerciseMetadata) bool {
	for _, x := range a.PrimaryMuscleIDs() {
		for _, y := range b.PrimaryMuscleIDs() {
			if x == y {
				return true
			}
		}
	}
	return false
}

func estimated1RM(exerciseID string, user *domain.UserContext, perf *domain.UserExercisePerformance) float64 {
	if perf != nil && perf.Strength.Estimated1RM > 0 {
		return perf.Strength.Estimated1RM
	}
	if user.Training != nil {
		return user.Training.EstimatedMaxes[exerciseID]
	}
	return 0
}

func tempoFor(p domain.MovementPattern) string {
	if t, ok := hypertrophyTempo[p]; ok {
		return t
	}
	return defaultTempo
}

func advisoryNotes(ex *domain.ExerciseMetadata, user *domain.UserContext, perf *domain.UserExercisePerformance) []string {
	var notes []string
	switch user.RecoveryClass() {
	case domain.RecoveryPoor:
		notes = append(notes, "Recovery is poor: volume and intensity reduced, stop the set early if form breaks down.")
	case domain.RecoveryFair:
		notes = append(notes, "Recovery is fair: volume trimmed slightly.")
	case domain.RecoveryExcellent:
		notes = append(notes, "Recovery is excellent: work toward the top of the RPE target.")
	}
	switch user.Phase {
	case domain.PhaseDeload:
		notes = append(notes, "Deload week: keep loads light and focus on movement quality.")
	case domain.PhaseRealization:
		notes = append(notes, "Realization phase: heavy, low-rep work with full rest between sets.")
	case domain.PhaseAccumulation:
		notes = append(notes, "Accumulation phase: prioritize quality volume over load.")
	case domain.PhaseIntensification:
		notes = append(notes, "Intensification phase: load climbs while volume holds steady.")
	}
	if joints := ex.HighStressJoints(); len(joints) > 0 {
		notes = append(notes, fmt.Sprintf("High %s stress: add an extra ramp-up set before working sets.", strings.Join(joints, "/")))
	}
	if perf != nil {
		switch perf.Volume.MonthlyTrend {
		case domain.TrendPlateau:
			notes = append(notes, "Progress has plateaued: try a variation or a different rep range.")
		case domain.TrendDecreasing:
			notes = append(notes, "Volume is trending down: hold load steady and rebuild consistency.")
		}
		if perf.Timeline.ConsecutiveSuccessSessions >= 3 {
			notes = append(notes, "Ready to progress: add 2.5-5% load or one rep per set.")
		}
	}
	return notes
}

func roundHalf(v float64) float64 { return math.Round(v*2) / 2 }

func roundTo5(v float64) int { return int(math.Round(v/5) * 5) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
