package prescription

import (
	"context"
	"fmt"
	"testing"
	"time"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/scoring"
)

func lift(id string, p domain.MovementPattern, primary []string, equipment []string, cns int) *domain.ExerciseMetadata {
	ex := &domain.ExerciseMetadata{
		ID:              id,
		Name:            id,
		MovementPattern: p,
		Performance:     domain.PerformanceMetrics{CNSLoad: cns, TechnicalComplexity: 2, MetabolicDemand: 5, BalanceRequirement: 3},
		Effectiveness:   domain.EffectivenessRatings{ByGoal: map[domain.Goal]float64{domain.GoalHypertrophy: 8}},
		Equipment:       domain.EquipmentProfile{Required: equipment},
		Recovery:        domain.RecoveryProfile{MinimumRecoveryHours: 48},
	}
	for _, m := range primary {
		ex.Muscles.Primary = append(ex.Muscles.Primary, domain.MuscleActivation{MuscleID: m, Activation: 80})
	}
	return ex
}

func stretch(id string, muscles ...string) *domain.ExerciseMetadata {
	ex := lift(id, domain.PatternMobility, muscles, nil, 1)
	ex.Performance.TechnicalComplexity = 1
	ex.Effectiveness.ByGoal = map[domain.Goal]float64{domain.GoalHypertrophy: 1, domain.GoalMobility: 9}
	return ex
}

var db = []string{"dumbbells"}

// hypertrophyCatalog has 18 dumbbell or bodyweight lifts, 6 mobility drills
// and 26 lifts needing equipment the test user does not have.
func hypertrophyCatalog() []*domain.ExerciseMetadata {
	c := []*domain.ExerciseMetadata{
		lift("db-goblet-squat", domain.PatternSquat, []string{"quads", "glutes"}, db, 5),
		lift("db-front-squat", domain.PatternSquat, []string{"quads", "core_anterior"}, db, 5),
		lift("db-rdl", domain.PatternHipHinge, []string{"hamstrings", "glutes"}, db, 6),
		lift("db-single-leg-rdl", domain.PatternHipHinge, []string{"hamstrings", "glute_med"}, db, 5),
		lift("db-reverse-lunge", domain.PatternLunge, []string{"quads", "adductors"}, db, 5),
		lift("db-step-up", domain.PatternLunge, []string{"quads", "glute_max"}, []string{"dumbbells", "bench"}, 5),
		lift("db-bench-press", domain.PatternHorizontalPush, []string{"chest", "triceps"}, []string{"dumbbells", "bench"}, 6),
		lift("db-incline-press", domain.PatternHorizontalPush, []string{"upper_chest", "front_delts"}, []string{"dumbbells", "bench"}, 6),
		lift("push-up", domain.PatternHorizontalPush, []string{"chest", "triceps"}, nil, 4),
		lift("db-shoulder-press", domain.PatternVerticalPush, []string{"front_delts", "triceps"}, db, 5),
		lift("db-arnold-press", domain.PatternVerticalPush, []string{"side_delts"}, db, 5),
		lift("db-row", domain.PatternHorizontalPull, []string{"lats", "rhomboids"}, []string{"dumbbells", "bench"}, 5),
		lift("db-chest-supported-row", domain.PatternHorizontalPull, []string{"rhomboids", "rear_delts"}, []string{"dumbbells", "bench"}, 5),
		lift("db-pullover", domain.PatternVerticalPull, []string{"lats", "serratus"}, []string{"dumbbells", "bench"}, 4),
		lift("farmer-carry", domain.PatternCarry, []string{"forearms", "traps"}, db, 6),
		lift("db-woodchop", domain.PatternRotation, []string{"obliques"}, db, 4),
		lift("dead-bug", domain.PatternAntiRotation, []string{"transverse_abdominis"}, nil, 2),
		lift("db-side-bend", domain.PatternLateralFlexion, []string{"quadratus_lumborum"}, db, 3),

		stretch("hip-flexor-stretch", "hip_flexors"),
		stretch("thoracic-rotation", "thoracic_spine"),
		stretch("couch-stretch", "quads"),
		stretch("doorway-chest-stretch", "chest"),
		stretch("hamstring-floss", "hamstrings"),
		stretch("lat-stretch", "lats"),
	}
	unavailable := []struct {
		p     domain.MovementPattern
		equip string
	}{
		{domain.PatternSquat, "barbell"}, {domain.PatternHipHinge, "barbell"}, {domain.PatternHorizontalPush, "barbell"},
		{domain.PatternVerticalPush, "barbell"}, {domain.PatternHorizontalPull, "barbell"}, {domain.PatternVerticalPull, "pullup_bar"},
		{domain.PatternVerticalPull, "cable"}, {domain.PatternFlexion, "cable"}, {domain.PatternExtension, "cable"},
		{domain.PatternIsolation, "machine"}, {domain.PatternIsolation, "cable"}, {domain.PatternLunge, "smith_machine"},
		{domain.PatternSquat, "machine"},
	}
	for i := 0; len(c) < 50; i++ {
		u := unavailable[i%len(unavailable)]
		c = append(c, lift(fmt.Sprintf("%s-%s-%d", u.equip, u.p, i), u.p, []string{"muscle_" + fmt.Sprint(i)}, []string{u.equip}, 5))
	}
	return c
}

func hypertrophyUser() *domain.UserContext {
	return &domain.UserContext{
		UserID:             "u1",
		AvailableEquipment: []string{"dumbbells", "bench"},
		Location:           domain.LocationGym,
		TimeAvailable:      45,
		Goals:              []domain.Goal{domain.GoalHypertrophy},
		Recovery:           &domain.RecoveryScore{Score: 75, Classification: domain.RecoveryGood},
	}
}

func TestBuildHypertrophySession(t *testing.T) {
	catalog := hypertrophyCatalog()
	if len(catalog) != 50 {
		t.Fatalf("catalog size: want=50 got=%d", len(catalog))
	}
	b := NewBuilder(nil, Options{Concurrency: 4})
	res, err := b.Build(context.Background(), Request{
		User:    hypertrophyUser(),
		Catalog: catalog,
		Now:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if n := len(res.Exercises); n < 6 || n > 9 {
		t.Fatalf("main exercises: want 6-9 got=%d", n)
	}
	for p, n := range res.PatternBalance {
		if n > 2 {
			t.Fatalf("pattern %s appears %d times", p, n)
		}
	}
	if len(res.Warmup) == 0 {
		t.Fatalf("expected a warmup when mobility drills are in the catalog")
	}
	if res.ActualDuration < 36 || res.ActualDuration > 54 {
		t.Fatalf("actualDuration: want 36-54 got=%v", res.ActualDuration)
	}

	main := map[string]bool{}
	for i, pe := range res.Exercises {
		if pe.Order != i+1 {
			t.Fatalf("order: want=%d got=%d", i+1, pe.Order)
		}
		for _, eq := range catalogByID(catalog)[pe.ExerciseID].Equipment.Required {
			if eq != "dumbbells" && eq != "bench" {
				t.Fatalf("%s needs %s which is unavailable", pe.ExerciseID, eq)
			}
		}
		if pe.Load.Sets < 1 || pe.Load.Sets > 6 {
			t.Fatalf("%s sets out of range: %d", pe.ExerciseID, pe.Load.Sets)
		}
		main[pe.ExerciseID] = true
	}
	for _, w := range res.Warmup {
		if main[w.ExerciseID] {
			t.Fatalf("warmup repeats main exercise %s", w.ExerciseID)
		}
	}
	if got := res.Metadata.CandidatesScored; got != 50 {
		t.Fatalf("candidatesScored: want=50 got=%d", got)
	}
	if got := res.Metadata.CandidatesRejected; got != 26 {
		t.Fatalf("candidatesRejected: want=26 got=%d", got)
	}
	if res.Metadata.TargetCount != 7 {
		t.Fatalf("targetCount: want=7 got=%d", res.Metadata.TargetCount)
	}
	if res.MuscleCoverage["quads"] == 0 && res.MuscleCoverage["chest"] == 0 && res.MuscleCoverage["lats"] == 0 {
		t.Fatalf("expected coverage of at least one major muscle, got %v", res.MuscleCoverage)
	}
}

func catalogByID(c []*domain.ExerciseMetadata) map[string]*domain.ExerciseMetadata {
	out := make(map[string]*domain.ExerciseMetadata, len(c))
	for _, ex := range c {
		out[ex.ID] = ex
	}
	return out
}

func TestBuildRequiresUser(t *testing.T) {
	_, err := NewBuilder(nil, Options{}).Build(context.Background(), Request{})
	if err != ErrMissingUser {
		t.Fatalf("want ErrMissingUser, got %v", err)
	}
}

func TestBuildHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBuilder(nil, Options{}).Build(ctx, Request{User: hypertrophyUser(), Catalog: hypertrophyCatalog()})
	if err == nil {
		t.Fatalf("expected an error for a cancelled context")
	}
}

func TestBuildEmptyPoolIsNotAnError(t *testing.T) {
	only := []*domain.ExerciseMetadata{lift("bb-squat", domain.PatternSquat, []string{"quads"}, []string{"barbell"}, 8)}
	res, err := NewBuilder(nil, Options{}).Build(context.Background(), Request{User: hypertrophyUser(), Catalog: only})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Exercises) != 0 || res.Metadata.CandidatesRejected != 1 {
		t.Fatalf("expected an empty result with one reject, got %d exercises", len(res.Exercises))
	}
}

func cand(ex *domain.ExerciseMetadata) *candidate { return &candidate{ex: ex} }

func TestSelectionCapsPatternAtTwo(t *testing.T) {
	var pool []*candidate
	for i := 0; i < 5; i++ {
		pool = append(pool, cand(lift(fmt.Sprintf("press-%d", i), domain.PatternHorizontalPush, []string{fmt.Sprintf("m%d", i)}, nil, 5)))
	}
	pool = append(pool,
		cand(lift("row", domain.PatternHorizontalPull, []string{"lats"}, nil, 5)),
		cand(lift("squat", domain.PatternSquat, []string{"quads"}, nil, 5)),
	)
	got := selectExercises(pool, 7, 0)
	pushes := 0
	for _, c := range got {
		if c.ex.MovementPattern == domain.PatternHorizontalPush {
			pushes++
		}
	}
	if pushes != 2 {
		t.Fatalf("horizontal_push picks: want=2 got=%d", pushes)
	}
	if len(got) != 4 {
		t.Fatalf("selected: want=4 got=%d", len(got))
	}
}

func TestSelectionRequiresNewMuscleAfterThree(t *testing.T) {
	pool := []*candidate{
		cand(lift("a", domain.PatternSquat, []string{"quads"}, nil, 5)),
		cand(lift("b", domain.PatternHipHinge, []string{"hamstrings"}, nil, 5)),
		cand(lift("c", domain.PatternHorizontalPush, []string{"chest"}, nil, 5)),
		cand(lift("d", domain.PatternLunge, []string{"quads", "hamstrings"}, nil, 5)),
		cand(lift("e", domain.PatternHorizontalPull, []string{"lats"}, nil, 5)),
	}
	got := selectExercises(pool, 5, 0)
	if len(got) != 4 || got[3].ex.ID != "e" {
		t.Fatalf("expected d to be skipped for adding no muscle, got %v", ids(got))
	}
}

func scored(ex *domain.ExerciseMetadata, total, balance float64) *candidate {
	return &candidate{ex: ex, score: domain.ScoreBreakdown{Total: total, MovementPatternBalance: balance}}
}

func TestSelectionRescoresPatternBalance(t *testing.T) {
	pool := []*candidate{
		scored(lift("press-a", domain.PatternHorizontalPush, []string{"chest"}, nil, 5), 20, 3),
		scored(lift("press-b", domain.PatternHorizontalPush, []string{"upper_chest"}, nil, 5), 19.5, 3),
		scored(lift("row", domain.PatternHorizontalPull, []string{"lats"}, nil, 5), 18.5, 3),
		scored(lift("press-c", domain.PatternHorizontalPush, []string{"triceps"}, nil, 5), 19, 3),
	}
	got := selectExercises(pool, 4, 3)
	if want := []string{"press-a", "row", "press-b"}; fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Fatalf("selection: want=%v got=%v", want, ids(got))
	}
	if got[0].score.MovementPatternBalance != 3 || got[1].score.MovementPatternBalance != 3 {
		t.Fatalf("first picks keep full credit: got %v and %v", got[0].score.MovementPatternBalance, got[1].score.MovementPatternBalance)
	}
	if b := got[2].score.MovementPatternBalance; b != 1.5 {
		t.Fatalf("second push balance: want=1.5 got=%v", b)
	}
	if total := got[2].score.Total; total != 18 {
		t.Fatalf("second push total: want=18 got=%v", total)
	}
	chosen := []domain.MovementPattern{domain.PatternHorizontalPush, domain.PatternHorizontalPull, domain.PatternHorizontalPush}
	if b := scoring.PatternBalance(3, domain.PatternHorizontalPush, chosen); b != 0 {
		t.Fatalf("third push balance: want=0 got=%v", b)
	}
}

func TestBuildReportsSessionPatternBalance(t *testing.T) {
	user := &domain.UserContext{
		Goals:              []domain.Goal{domain.GoalHypertrophy},
		TimeAvailable:      45,
		AvailableEquipment: []string{"dumbbells", "bench"},
	}
	res, err := NewBuilder(nil, Options{}).Build(context.Background(), Request{
		User:    user,
		Catalog: hypertrophyCatalog(),
		Now:     time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	full := scoring.ResolveWeights(user, nil).Max(domain.FactorMovementPatternBalance)
	reduced := 0
	for _, e := range res.Exercises {
		switch e.Score.MovementPatternBalance {
		case full:
		case 0.5 * full:
			reduced++
		default:
			t.Fatalf("%s pattern balance: got %v, want %v or %v", e.ExerciseID, e.Score.MovementPatternBalance, full, 0.5*full)
		}
	}
	repeats := 0
	for _, n := range res.PatternBalance {
		repeats += n - 1
	}
	if reduced != repeats {
		t.Fatalf("exercises with half pattern credit: want=%d got=%d", repeats, reduced)
	}
}

func ids(cs []*candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ex.ID
	}
	return out
}

func TestTargetCount(t *testing.T) {
	cases := []struct {
		goal    domain.Goal
		minutes int
		rc      domain.RecoveryClassification
		want    int
	}{
		{domain.GoalHypertrophy, 45, domain.RecoveryGood, 7},
		{domain.GoalStrength, 60, domain.RecoveryGood, 6},
		{domain.GoalStrength, 20, domain.RecoveryGood, 3},
		{domain.GoalMobility, 60, domain.RecoveryGood, 12},
		{domain.GoalHypertrophy, 45, domain.RecoveryPoor, 4},
		{domain.GoalHypertrophy, 45, domain.RecoveryFair, 5},
		{domain.GoalStrength, 20, domain.RecoveryPoor, 2},
		{domain.GoalHypertrophy, 0, domain.RecoveryGood, 10},
	}
	for _, tc := range cases {
		u := &domain.UserContext{Goals: []domain.Goal{tc.goal}, TimeAvailable: tc.minutes, Recovery: &domain.RecoveryScore{Classification: tc.rc}}
		if got := targetCount(u); got != tc.want {
			t.Fatalf("%s/%dmin/%s: want=%d got=%d", tc.goal, tc.minutes, tc.rc, tc.want, got)
		}
	}
}

func TestOrderingStrengthPutsOlympicFirst(t *testing.T) {
	sel := []*candidate{
		cand(lift("curl", domain.PatternFlexion, []string{"biceps"}, nil, 2)),
		cand(lift("squat", domain.PatternSquat, []string{"quads"}, nil, 8)),
		cand(lift("clean", domain.PatternOlympic, []string{"traps"}, nil, 9)),
		cand(lift("front-squat", domain.PatternSquat, []string{"quads"}, nil, 9)),
	}
	got := ids(orderExercises(sel, domain.GoalStrength))
	want := []string{"clean", "front-squat", "squat", "curl"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order: want=%v got=%v", want, got)
		}
	}
}

func TestOrderingHypertrophyCompoundsFirst(t *testing.T) {
	sel := []*candidate{
		cand(lift("raise", domain.PatternIsolation, []string{"side_delts"}, nil, 2)),
		cand(lift("press", domain.PatternHorizontalPush, []string{"chest"}, nil, 6)),
		cand(lift("curl", domain.PatternFlexion, []string{"biceps"}, nil, 2)),
		cand(lift("row", domain.PatternHorizontalPull, []string{"lats"}, nil, 5)),
	}
	got := ids(orderExercises(sel, domain.GoalHypertrophy))
	if got[0] != "press" || got[1] != "row" {
		t.Fatalf("compounds must lead, got %v", got)
	}
	if got[2] != "curl" || got[3] != "raise" {
		t.Fatalf("isolation order: got %v", got)
	}
}

func TestOrderingCircuitAlternatesRegions(t *testing.T) {
	sel := []*candidate{
		cand(lift("press", domain.PatternHorizontalPush, []string{"chest"}, nil, 5)),
		cand(lift("row", domain.PatternHorizontalPull, []string{"lats"}, nil, 5)),
		cand(lift("squat", domain.PatternSquat, []string{"quads"}, nil, 5)),
		cand(lift("chop", domain.PatternRotation, []string{"obliques"}, nil, 3)),
		cand(lift("stretch", domain.PatternMobility, []string{"hips"}, nil, 1)),
	}
	got := ids(orderExercises(sel, domain.GoalFatLoss))
	want := []string{"press", "squat", "chop", "row", "stretch"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("circuit: want=%v got=%v", want, got)
		}
	}
}

func TestSupersetPairing(t *testing.T) {
	ordered := []*candidate{
		cand(lift("bench", domain.PatternHorizontalPush, []string{"chest"}, nil, 6)),
		cand(lift("incline", domain.PatternHorizontalPush, []string{"upper_chest"}, nil, 6)),
		cand(lift("row", domain.PatternHorizontalPull, []string{"lats"}, nil, 5)),
		cand(lift("pulldown", domain.PatternVerticalPull, []string{"lats"}, nil, 4)),
		cand(lift("ohp", domain.PatternVerticalPush, []string{"front_delts"}, nil, 5)),
	}
	out, pairs := pairSupersets(ordered)

	if len(pairs) != 2 {
		t.Fatalf("pairs: want=2 got=%d", len(pairs))
	}
	byID := map[string]*domain.ExerciseMetadata{}
	for _, c := range ordered {
		byID[c.ex.ID] = c.ex
	}
	for _, p := range pairs {
		a, b := byID[p.FirstExerciseID], byID[p.SecondExerciseID]
		if a.MovementPattern == b.MovementPattern {
			t.Fatalf("pair %s shares pattern %s", p.Group, a.MovementPattern)
		}
		if p.RestBetweenSeconds >= p.RestAfterSeconds {
			t.Fatalf("pair %s: rest between %d must be below rest after %d", p.Group, p.RestBetweenSeconds, p.RestAfterSeconds)
		}
	}
	if pairs[0].Group != "A" || pairs[0].FirstExerciseID != "bench" || pairs[0].SecondExerciseID != "row" {
		t.Fatalf("first pair: got %+v", pairs[0])
	}
	want := []string{"bench", "row", "incline", "pulldown", "ohp"}
	got := ids(out)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("superset order: want=%v got=%v", want, got)
		}
	}
}

func TestSupersetSkipsHighCNS(t *testing.T) {
	ordered := []*candidate{
		cand(lift("squat", domain.PatternSquat, []string{"quads"}, nil, 9)),
		cand(lift("deadlift", domain.PatternHipHinge, []string{"hamstrings"}, nil, 10)),
	}
	if _, pairs := pairSupersets(ordered); len(pairs) != 0 {
		t.Fatalf("heavy lifts must not be paired, got %+v", pairs)
	}
}

func TestSubstitutesSurviveCycles(t *testing.T) {
	a := lift("a", domain.PatternSquat, []string{"quads"}, db, 5)
	b := lift("b", domain.PatternSquat, []string{"quads"}, db, 4)
	c := lift("c", domain.PatternLunge, []string{"quads", "glutes"}, nil, 3)
	d := lift("d", domain.PatternSquat, []string{"quads"}, nil, 3)
	a.Progressions.Regressions = []string{"b", "missing"}
	b.Progressions.Regressions = []string{"a", "c"}
	c.Progressions.Regressions = []string{"a", "b", "d"}
	a.Progressions.LateralVariations = []string{"a", "d"}

	index := map[string]*candidate{}
	for _, ex := range []*domain.ExerciseMetadata{a, b, c, d} {
		index[ex.ID] = cand(ex)
	}
	subs := substitutesFor(a, index, map[string]bool{"a": true})

	var regressions, laterals []string
	for _, s := range subs {
		if s.ExerciseID == "a" {
			t.Fatalf("exercise offered as its own substitute")
		}
		if s.Similarity < 0 || s.Similarity > 1 {
			t.Fatalf("similarity out of range: %v", s.Similarity)
		}
		if s.WhenToPrefer == "" {
			t.Fatalf("missing whenToPrefer for %s", s.ExerciseID)
		}
		if s.Kind == domain.SubstituteRegression {
			regressions = append(regressions, s.ExerciseID)
		} else {
			laterals = append(laterals, s.ExerciseID)
		}
	}
	if len(regressions) != 2 || regressions[0] != "b" || regressions[1] != "c" {
		t.Fatalf("regressions: want=[b c] got=%v", regressions)
	}
	if len(laterals) != 1 || laterals[0] != "d" {
		t.Fatalf("laterals: want=[d] got=%v", laterals)
	}
}

func TestSimilarity(t *testing.T) {
	a := lift("a", domain.PatternSquat, []string{"quads", "glutes"}, []string{"dumbbells"}, 5)
	b := lift("b", domain.PatternSquat, []string{"quads"}, []string{"dumbbells"}, 5)
	// 0.4 + 0.4*0.5 + 0.2*1
	if got := similarity(a, b); got != 0.8 {
		t.Fatalf("similarity: want=0.8 got=%v", got)
	}
	c := lift("c", domain.PatternLunge, []string{"hamstrings"}, nil, 5)
	if got := similarity(a, c); got != 0 {
		t.Fatalf("similarity: want=0 got=%v", got)
	}
}

func TestEstimateDurationSupersetIsShorter(t *testing.T) {
	rec := domain.LoadRecommendation{Sets: 3, Reps: domain.Reps(10), RestSeconds: 90}
	solo := &domain.PrescriptionResult{Exercises: []domain.PrescribedExercise{
		{ExerciseID: "a", Load: rec},
		{ExerciseID: "b", Load: rec},
	}}
	paired := &domain.PrescriptionResult{
		Exercises: solo.Exercises,
		Supersets: []domain.SupersetPair{{FirstExerciseID: "a", SecondExerciseID: "b", RestBetweenSeconds: 30, RestAfterSeconds: 120}},
	}
	// each: 3*30 + 2*90 + 60 = 330s
	if got := estimateDuration(solo); got != 11 {
		t.Fatalf("solo duration: want=11 got=%v", got)
	}
	// 3*(30+30+30) + 2*120 + 90 = 600s
	if got := estimateDuration(paired); got != 10 {
		t.Fatalf("paired duration: want=10 got=%v", got)
	}
}

func TestDifficulty(t *testing.T) {
	heavy := []domain.PrescribedExercise{{Load: domain.LoadRecommendation{Sets: 4, Reps: domain.Reps(5), RPE: 8.5}}}
	if got := difficultyFor(heavy, domain.RecoveryGood); got != domain.DifficultyElite {
		t.Fatalf("want elite got=%s", got)
	}
	if got := difficultyFor(heavy, domain.RecoveryPoor); got != domain.DifficultyAdvanced {
		t.Fatalf("poor recovery: want advanced got=%s", got)
	}
	light := []domain.PrescribedExercise{{Load: domain.LoadRecommendation{Sets: 2, Reps: domain.HoldSeconds(30, 60), RPE: 5}}}
	if got := difficultyFor(light, domain.RecoveryFair); got != domain.DifficultyBeginner {
		t.Fatalf("want beginner got=%s", got)
	}
}
