// Package scoring ranks a single catalog exercise against a user's context.
// Every function here is pure: identical inputs give identical breakdowns.
package scoring

import (
	"strings"
	"time"

	"musclemap/prescription-engine/internal/domain"
)

// Input is everything ScoreExercise looks at. Only Exercise and User are required.
type Input struct {
	Exercise    *domain.ExerciseMetadata
	User        *domain.UserContext
	Performance *domain.UserExercisePerformance // nil: never performed

	// LastPerformed overrides Performance.Timeline.LastPerformed when set.
	LastPerformed time.Time
	MuscleVolume  domain.MuscleVolume

	TargetMuscles    []string
	ExcludeMuscles   []string
	SelectedPatterns []domain.MovementPattern // patterns already chosen for this session

	// Weights are resolved once per request. When nil they are resolved from
	// User and Adaptive on every call.
	Weights  Weights
	Adaptive *domain.AdaptiveUserWeights

	// Now anchors time-since-last-performance. A zero Now disables that check.
	Now time.Time
}

// RejectReason explains why an exercise is ineligible. Empty means eligible.
type RejectReason string

const (
	RejectNone             RejectReason = ""
	RejectEquipment        RejectReason = "equipment_unavailable"
	RejectSevereInjury     RejectReason = "severe_injury_contraindication"
	RejectContraindication RejectReason = "explicit_contraindication"
	RejectInjuryUnsafe     RejectReason = "injury_unsafe"
	RejectInvalidInput     RejectReason = "invalid_input"
)

// injuryRejectScore is the injurySafe sentinel treated as a hard reject.
const injuryRejectScore = -100

// bodyweight-style requirements every context satisfies
var alwaysAvailable = map[string]bool{"bodyweight": true, "none": true, "": true}

// Eligibility runs the hard gates that do not depend on numeric scoring.
func Eligibility(ex *domain.ExerciseMetadata, user *domain.UserContext) RejectReason {
	if !hasEquipment(ex.Equipment.Required, user.AvailableEquipment) {
		return RejectEquipment
	}
	if user.Health != nil {
		for _, p := range user.Health.Contraindications {
			if p == ex.MovementPattern {
				return RejectContraindication
			}
		}
		for _, inj := range user.Health.ActiveInjuries() {
			if inj.Severity != domain.SeveritySevere {
				continue
			}
			for _, p := range inj.ContraindicatedMovements {
				if p == ex.MovementPattern {
					return RejectSevereInjury
				}
			}
		}
	}
	return RejectNone
}

// ScoreExercise evaluates the 16 weighted factors and 3 bonus factors. It
// returns false when the exercise is rejected outright.
func ScoreExercise(in Input) (domain.ScoreBreakdown, bool) {
	b, reason := Evaluate(in)
	return b, reason == RejectNone
}

// Evaluate is ScoreExercise with the reject reason exposed.
func Evaluate(in Input) (domain.ScoreBreakdown, RejectReason) {
	if in.Exercise == nil || in.User == nil {
		return domain.ScoreBreakdown{}, RejectInvalidInput
	}
	if reason := Eligibility(in.Exercise, in.User); reason != RejectNone {
		return domain.ScoreBreakdown{}, reason
	}
	w := in.Weights
	if w == nil {
		w = ResolveWeights(in.User, in.Adaptive)
	}
	f := factorCtx{in: in, w: w, ex: in.Exercise, user: in.User}

	b := domain.ScoreBreakdown{
		EquipmentMatch:         f.equipmentMatch(),
		GoalEffectiveness:      f.goalEffectiveness(),
		MuscleTargetMatch:      f.muscleTargetMatch(),
		BiomechanicalFit:       f.biomechanicalFit(),
		SkillAppropriate:       f.skillAppropriate(),
		UserPreference:         f.userPreference(),
		PerformanceHistory:     f.performanceHistory(),
		RecoveryAppropriate:    f.recoveryAppropriate(),
		InjurySafe:             f.injurySafe(),
		JointStressAcceptable:  f.jointStressAcceptable(),
		PeriodizationAlignment: f.periodizationAlignment(),
		VarietyOptimization:    f.varietyOptimization(),
		MovementPatternBalance: f.movementPatternBalance(),
		MetabolicConditioning:  f.metabolicConditioning(),
		StabilityDemand:        f.stabilityDemand(),
		EnvironmentFit:         f.environmentFit(),

		ProgressionOpportunity: f.progressionOpportunity(),
		TimeEfficiency:         f.timeEfficiency(),
		EquipmentOptimization:  f.equipmentOptimization(),
	}
	if b.InjurySafe <= injuryRejectScore {
		return domain.ScoreBreakdown{}, RejectInjuryUnsafe
	}
	b.Sum()
	return b, RejectNone
}

func hasEquipment(required, available []string) bool {
	have := make(map[string]bool, len(available))
	for _, e := range available {
		have[normalize(e)] = true
	}
	for _, r := range required {
		n := normalize(r)
		if alwaysAvailable[n] {
			continue
		}
		if !have[n] {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
