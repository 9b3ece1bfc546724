package load

import (
	"testing"

	"musclemap/prescription-engine/internal/domain"
)

func squat() *domain.ExerciseMetadata {
	return &domain.ExerciseMetadata{
		ID:              "back-squat",
		Name:            "Back Squat",
		MovementPattern: domain.PatternSquat,
		Muscles:         domain.MuscleActivations{Primary: []domain.MuscleActivation{{MuscleID: "quads"}, {MuscleID: "glutes"}}},
		Biomechanics:    domain.BiomechanicalProfile{JointStress: map[string]domain.StressLevel{"knee": domain.StressHigh, "lower_back": domain.StressHigh}},
		Performance:     domain.PerformanceMetrics{CNSLoad: 8, TechnicalComplexity: 6},
	}
}

func user(goal domain.Goal, exp domain.ExperienceLevel) *domain.UserContext {
	return &domain.UserContext{
		Training: &domain.TrainingProfile{Experience: exp},
		Goals:    []domain.Goal{goal},
	}
}

func TestPercentOf1RMTable(t *testing.T) {
	cases := []struct {
		reps int
		rpe  float64
		want float64
	}{
		{5, 8, 81.1},
		{1, 10, 100},
		{15, 6, 50.3},
		{7, 8, 73.9},  // 7 reps ties 6 and 8, resolves to 8
		{20, 9, 57.4}, // nearest row is 15
		{3, 5, 81.1},  // RPE below the table snaps to 6
	}
	for _, tc := range cases {
		if got := PercentOf1RM(tc.reps, tc.rpe); got != tc.want {
			t.Fatalf("%d@%v: want=%v got=%v", tc.reps, tc.rpe, tc.want, got)
		}
	}
}

func TestCalculateStrengthBase(t *testing.T) {
	ex := squat()
	ex.Performance.CNSLoad = 6
	u := user(domain.GoalStrength, domain.ExperienceIntermediate)
	u.Training.EstimatedMaxes = map[string]float64{"back-squat": 140}

	rec := Calculate(ex, u, nil)
	if rec.Sets != 4 || rec.Reps.String() != "5" || rec.RPE != 8 || rec.RestSeconds != 180 {
		t.Fatalf("base: got sets=%d reps=%s rpe=%v rest=%d", rec.Sets, rec.Reps, rec.RPE, rec.RestSeconds)
	}
	if rec.PercentageOf1RM != 81.1 {
		t.Fatalf("percentageOf1RM: want=81.1 got=%v", rec.PercentageOf1RM)
	}
	// 140 * 0.811 = 113.54 -> 112.5
	if rec.SuggestedWeight != 112.5 {
		t.Fatalf("suggestedWeight: want=112.5 got=%v", rec.SuggestedWeight)
	}
	if rec.Tempo != "" {
		t.Fatalf("tempo is only assigned for hypertrophy, got %q", rec.Tempo)
	}
}

func TestPerformance1RMTakesPrecedence(t *testing.T) {
	ex := squat()
	ex.Performance.CNSLoad = 6
	u := user(domain.GoalStrength, domain.ExperienceIntermediate)
	u.Training.EstimatedMaxes = map[string]float64{"back-squat": 140}
	perf := &domain.UserExercisePerformance{Strength: domain.StrengthEstimates{Estimated1RM: 100}}

	rec := Calculate(ex, u, perf)
	// 100 * 0.811 = 81.1 -> 80
	if rec.SuggestedWeight != 80 {
		t.Fatalf("suggestedWeight: want=80 got=%v", rec.SuggestedWeight)
	}
}

func TestRangeRepsSkipPercentage(t *testing.T) {
	u := user(domain.GoalHypertrophy, domain.ExperienceIntermediate)
	u.Training.EstimatedMaxes = map[string]float64{"back-squat": 140}
	rec := Calculate(squat(), u, nil)
	if rec.PercentageOf1RM != 0 || rec.SuggestedWeight != 0 {
		t.Fatalf("range reps must not resolve a percentage, got %v", rec.PercentageOf1RM)
	}
	if rec.Tempo != "3-1-1-0" {
		t.Fatalf("tempo: want=3-1-1-0 got=%q", rec.Tempo)
	}
}

func TestRecoveryAndExerciseAdjustments(t *testing.T) {
	u := user(domain.GoalHypertrophy, domain.ExperienceIntermediate)
	u.Recovery = &domain.RecoveryScore{Classification: domain.RecoveryPoor}
	rec := Calculate(squat(), u, nil)
	// sets 3*0.6=1.8 -> 2; rpe 7.5-2=5.5; rest 90*1.3=117, CNS 8 floors at 180
	if rec.Sets != 2 || rec.RPE != 5.5 || rec.RestSeconds != 180 {
		t.Fatalf("poor recovery: got sets=%d rpe=%v rest=%d", rec.Sets, rec.RPE, rec.RestSeconds)
	}
	if len(rec.Notes) < 2 {
		t.Fatalf("expected recovery and joint stress notes, got %v", rec.Notes)
	}
}

func TestIsolationAndMobilityOverrides(t *testing.T) {
	curl := &domain.ExerciseMetadata{ID: "curl", MovementPattern: domain.PatternFlexion, Performance: domain.PerformanceMetrics{CNSLoad: 2}}
	rec := Calculate(curl, user(domain.GoalStrength, domain.ExperienceIntermediate), nil)
	if rec.Reps.String() != "8-12" {
		t.Fatalf("isolation reps: want=8-12 got=%s", rec.Reps)
	}
	if rec.RestSeconds != 90 {
		t.Fatalf("low CNS caps rest: want=90 got=%d", rec.RestSeconds)
	}

	stretch := &domain.ExerciseMetadata{ID: "hip-flexor-stretch", MovementPattern: domain.PatternMobility}
	rec = Calculate(stretch, user(domain.GoalPower, domain.ExperienceElite), nil)
	if rec.Sets != 2 || rec.Reps.String() != "30-60s" || rec.RPE != 5 || rec.RestSeconds != 30 {
		t.Fatalf("mobility override: got sets=%d reps=%s rpe=%v rest=%d", rec.Sets, rec.Reps, rec.RPE, rec.RestSeconds)
	}
}

func TestExperienceAdjustments(t *testing.T) {
	ex := squat()
	ex.Performance.CNSLoad = 5
	rec := Calculate(ex, user(domain.GoalPower, domain.ExperienceBeginner), nil)
	// power 5x3 @8 -> beginner caps sets 3, rpe 7, floors reps at 8
	if rec.Sets != 3 || rec.RPE != 7 || rec.Reps.String() != "8" {
		t.Fatalf("beginner: got sets=%d reps=%s rpe=%v", rec.Sets, rec.Reps, rec.RPE)
	}

	rec = Calculate(ex, user(domain.GoalRehabilitation, domain.ExperienceElite), nil)
	// rehab 2 sets -> elite floors at 4, rpe 5 + 0.5
	if rec.Sets != 4 || rec.RPE != 5.5 {
		t.Fatalf("elite: got sets=%d rpe=%v", rec.Sets, rec.RPE)
	}
}

func TestCalculateClampsEveryCombination(t *testing.T) {
	goals := []domain.Goal{domain.GoalStrength, domain.GoalHypertrophy, domain.GoalPower, domain.GoalEndurance,
		domain.GoalFatLoss, domain.GoalMobility, domain.GoalRehabilitation, domain.GoalGeneralFitness}
	phases := []domain.TrainingPhase{"", domain.PhaseAccumulation, domain.PhaseIntensification,
		domain.PhaseRealization, domain.PhaseDeload, domain.PhaseMaintenance}
	classes := []domain.RecoveryClassification{domain.RecoveryPoor, domain.RecoveryFair, domain.RecoveryGood, domain.RecoveryExcellent}
	levels := []domain.ExperienceLevel{domain.ExperienceBeginner, domain.ExperienceIntermediate, domain.ExperienceAdvanced, domain.ExperienceElite}
	exercises := []*domain.ExerciseMetadata{
		squat(),
		{ID: "snatch", MovementPattern: domain.PatternOlympic, Performance: domain.PerformanceMetrics{CNSLoad: 10, TechnicalComplexity: 10}},
		{ID: "plank", MovementPattern: domain.PatternStability, Performance: domain.PerformanceMetrics{CNSLoad: 1}},
		{ID: "lateral-raise", MovementPattern: domain.PatternIsolation, Performance: domain.PerformanceMetrics{CNSLoad: 2}},
	}

	for _, g := range goals {
		for _, ph := range phases {
			for _, rc := range classes {
				for _, lvl := range levels {
					for _, ex := range exercises {
						u := user(g, lvl)
						u.Phase = ph
						u.Recovery = &domain.RecoveryScore{Classification: rc}
						rec := Calculate(ex, u, nil)
						if rec.Sets < 1 || rec.Sets > 6 {
							t.Fatalf("%s/%s/%s/%s/%s: sets %d out of range", g, ph, rc, lvl, ex.ID, rec.Sets)
						}
						if rec.RPE < 5 || rec.RPE > 10 {
							t.Fatalf("%s/%s/%s/%s/%s: rpe %v out of range", g, ph, rc, lvl, ex.ID, rec.RPE)
						}
						if rec.RestSeconds < 30 || rec.RestSeconds > 300 {
							t.Fatalf("%s/%s/%s/%s/%s: rest %d out of range", g, ph, rc, lvl, ex.ID, rec.RestSeconds)
						}
					}
				}
			}
		}
	}
}

func TestSupersetRest(t *testing.T) {
	push := &domain.ExerciseMetadata{MovementPattern: domain.PatternHorizontalPush, Muscles: domain.MuscleActivations{Primary: []domain.MuscleActivation{{MuscleID: "chest"}}}}
	pull := &domain.ExerciseMetadata{MovementPattern: domain.PatternHorizontalPull, Muscles: domain.MuscleActivations{Primary: []domain.MuscleActivation{{MuscleID: "lats"}}}}
	fly := &domain.ExerciseMetadata{MovementPattern: domain.PatternIsolation, Muscles: domain.MuscleActivations{Primary: []domain.MuscleActivation{{MuscleID: "chest"}}}}
	curl := &domain.ExerciseMetadata{MovementPattern: domain.PatternFlexion, Muscles: domain.MuscleActivations{Primary: []domain.MuscleActivation{{MuscleID: "biceps"}}}}

	cases := []struct {
		name          string
		a, b          *domain.ExerciseMetadata
		between, after int
	}{
		{"agonist-antagonist", pull, push, 30, 120},
		{"same primary muscle", push, fly, 60, 150},
		{"unrelated", fly, curl, 45, 90},
	}
	for _, tc := range cases {
		between, after := SupersetRest(tc.a, tc.b)
		if between != tc.between || after != tc.after {
			t.Fatalf("%s: want=%d/%d got=%d/%d", tc.name, tc.between, tc.after, between, after)
		}
		if between >= after {
			t.Fatalf("%s: rest between must be shorter than rest after", tc.name)
		}
	}
}
