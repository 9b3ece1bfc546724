package scoring

import (
	"math"
	"sort"
	"strings"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/learning/preference"
)

const (
	excludedMusclePenalty = -50.0
	tooAdvancedPenalty    = -10.0
	defaultRecoveryHours  = 48.0
)

// factorCtx carries one evaluation. Each method returns one factor value.
type factorCtx struct {
	in   Input
	w    Weights
	ex   *domain.ExerciseMetadata
	user *domain.UserContext
}

func (f factorCtx) equipmentMatch() float64 {
	// Eligibility already guarantees the required set is available.
	return f.w.Max(domain.FactorEquipmentMatch)
}

func (f factorCtx) goalEffectiveness() float64 {
	m := f.w.Max(domain.FactorGoalEffectiveness)
	goals := goalsOf(f.user)
	total := 0.0
	for _, g := range goals {
		total += f.ex.EffectivenessFor(g)
	}
	avg := total / float64(len(goals))
	return clamp(avg/10*m, 0, m)
}

func (f factorCtx) muscleTargetMatch() float64 {
	m := f.w.Max(domain.FactorMuscleTargetMatch)
	primary := f.ex.PrimaryMuscleIDs()
	if intersects(primary, f.in.ExcludeMuscles) {
		return excludedMusclePenalty
	}
	if len(primary) == 0 {
		return 0
	}
	if len(f.in.TargetMuscles) > 0 {
		hits := 0.0
		for _, id := range primary {
			if contains(f.in.TargetMuscles, id) {
				hits++
			}
		}
		for _, id := range f.ex.SecondaryMuscleIDs() {
			if contains(f.in.TargetMuscles, id) {
				hits += 0.5
			}
		}
		return clamp(m*hits/float64(len(primary)), 0, m)
	}

	avg := averageVolume(f.in.MuscleVolume)
	if avg <= 0 {
		return 0.5 * m
	}
	// neutral start; under-trained muscles (below 70% of the average) pull the
	// score up, over-trained ones (above 130%) pull it down
	score := 0.5 * m
	for _, id := range primary {
		v := f.in.MuscleVolume[id]
		switch {
		case v < 0.7*avg:
			score += 0.25 * m
		case v > 1.3*avg:
			score -= 0.25 * m
		}
	}
	return clamp(score, 0, m)
}

func (f factorCtx) biomechanicalFit() float64 {
	m := f.w.Max(domain.FactorBiomechanicalFit)
	bio := f.user.Biomechanics
	if bio == nil {
		return m
	}
	name := strings.ToLower(f.ex.ID + " " + f.ex.Name)
	pattern := f.ex.MovementPattern
	score := m

	if bio.FemurToTorsoRatio > 1.1 && pattern == domain.PatternSquat {
		switch {
		case hasAny(name, "high bar", "high-bar", "highbar", "front squat", "front_squat"):
			score -= 0.4 * m
		case hasAny(name, "box", "hack"):
			score += 0.2 * m
		}
	}
	if sf := bio.Mobility.ShoulderFlexionDeg; sf > 0 && sf < 150 &&
		(pattern == domain.PatternVerticalPush || hasAny(name, "overhead")) {
		if hasAny(name, "landmine") {
			score += 0.1 * m
		} else {
			score -= 0.5 * m
		}
	}
	if ad := bio.Mobility.AnkleDorsiflexionDeg; ad > 0 && ad < 30 &&
		(pattern == domain.PatternSquat || pattern == domain.PatternLunge) &&
		!hasAny(name, "heel elevated", "heel-elevated", "heels elevated", "box") {
		score -= 0.25 * m
	}
	if bio.ArmSpanToHeightRatio > 1.05 {
		switch {
		case pattern == domain.PatternHipHinge:
			score += 0.15 * m
		case hasAny(name, "bench"):
			score -= 0.15 * m
		}
	}
	if hf := bio.Mobility.HipFlexionDeg; hf > 0 && hf < 100 && pattern == domain.PatternSquat {
		score -= 0.2 * m
	}
	curve := strings.ToLower(f.ex.Biomechanics.ResistanceCurve)
	for _, a := range bio.StrengthCurveAnomalies {
		if anomalyConflicts(strings.ToLower(a), curve) {
			score -= 0.1 * m
		}
	}
	return clamp(score, 0, 1.2*m)
}

// anomalyConflicts reports whether the exercise is hardest exactly where the user is weak.
func anomalyConflicts(anomaly, curve string) bool {
	switch {
	case strings.Contains(anomaly, "lockout"), strings.Contains(anomaly, "top"):
		return curve == "ascending"
	case strings.Contains(anomaly, "bottom"):
		return curve == "descending"
	case strings.Contains(anomaly, "mid"):
		return curve == "bell"
	}
	return false
}

var experienceBase = map[domain.ExperienceLevel]float64{
	domain.ExperienceBeginner:     2,
	domain.ExperienceIntermediate: 4,
	domain.ExperienceAdvanced:     6,
	domain.ExperienceElite:        8,
}

// CombinedSkill is the user's skill on the 1-10 complexity scale for a pattern.
func CombinedSkill(user *domain.UserContext, pattern domain.MovementPattern) float64 {
	skill := experienceBase[user.Experience()]
	if user.Training != nil {
		if p, ok := user.Training.Proficiency[pattern]; ok && p > 0 {
			skill += float64(p-1) * 0.5
		}
	}
	return skill
}

func (f factorCtx) skillAppropriate() float64 {
	m := f.w.Max(domain.FactorSkillAppropriate)
	gap := float64(f.ex.Performance.TechnicalComplexity) - CombinedSkill(f.user, f.ex.MovementPattern)
	// gap is complexity above the user's skill; negative means the lift is easy for them
	switch {
	case gap > 2:
		return tooAdvancedPenalty
	case gap > 0:
		return m * (1 - 0.35*gap)
	case gap == 0:
		return m
	case gap >= -2:
		return 0.8 * m
	default:
		return 0.5 * m
	}
}

func (f factorCtx) userPreference() float64 {
	m := f.w.Max(domain.FactorUserPreference)
	p := preference.Score(f.ex.ID, f.user.Training, f.in.Performance)
	score := (p - preference.MinScore) / (preference.MaxScore - preference.MinScore) * m

	preferred := false
	if f.user.Training != nil && patternIn(f.user.Training.Preferences.PreferredPatterns, f.ex.MovementPattern) {
		preferred = true
	}
	if a := f.in.Adaptive; a != nil {
		if patternIn(a.PreferredPatterns, f.ex.MovementPattern) {
			preferred = true
		}
		if patternIn(a.AvoidedPatterns, f.ex.MovementPattern) {
			score -= 0.3 * m
		}
	}
	if preferred {
		score += 0.15 * m
	}
	return clamp(score, 0, m)
}

func (f factorCtx) performanceHistory() float64 {
	m := f.w.Max(domain.FactorPerformanceHistory)
	perf := f.in.Performance
	score := 0.5 * m
	if perf == nil {
		return score
	}
	if perf.Timeline.ConsecutiveSuccessSessions >= 3 {
		score += 0.3 * m
	}
	switch perf.Volume.MonthlyTrend {
	case domain.TrendIncreasing:
		score += 0.2 * m
	case domain.TrendDecreasing:
		score -= 0.2 * m
	}
	if perf.Skill == domain.SkillMastered {
		score += 0.1 * m
	}
	if perf.Feedback.JointStress >= 4 {
		score -= 0.3 * m
	}
	return clamp(score, 0, m)
}

// recoveryAdjustment is indexed by classification, then by high CNS load (>= 7).
var recoveryAdjustment = map[domain.RecoveryClassification][2]float64{
	domain.RecoveryPoor:      {-3, -6},
	domain.RecoveryFair:      {-2, -4},
	domain.RecoveryGood:      {0, 0},
	domain.RecoveryExcellent: {2, 4},
}

func (f factorCtx) recoveryAppropriate() float64 {
	m := f.w.Max(domain.FactorRecoveryAppropriate)
	last := f.in.LastPerformed
	if last.IsZero() && f.in.Performance != nil {
		last = f.in.Performance.Timeline.LastPerformed
	}
	if !last.IsZero() && !f.in.Now.IsZero() {
		window := f.ex.Recovery.MinimumRecoveryHours
		if window <= 0 {
			window = defaultRecoveryHours
		}
		hours := f.in.Now.Sub(last).Hours()
		if hours < window/2 {
			return 0
		}
		if hours < window {
			return m * hours / window
		}
	}
	high := 0
	if f.ex.Performance.CNSLoad >= 7 {
		high = 1
	}
	adj := recoveryAdjustment[f.user.RecoveryClass()][high]
	return clamp(m+adj, 0, m+6)
}

func (f factorCtx) injurySafe() float64 {
	m := f.w.Max(domain.FactorInjurySafe)
	score := m
	var active []domain.Injury
	if f.user.Health != nil {
		active = f.user.Health.ActiveInjuries()
	}
	for _, inj := range active {
		typeMatch := contains(f.ex.Contraindications.InjuryTypes, inj.Type)
		jointMatch := false
		for _, j := range inj.AffectedJoints {
			lvl := f.ex.Biomechanics.JointStress[j]
			if lvl == domain.StressHigh || lvl == domain.StressModerate {
				jointMatch = true
				break
			}
		}
		patternMatch := patternIn(inj.ContraindicatedMovements, f.ex.MovementPattern)
		if !typeMatch && !jointMatch && !patternMatch {
			continue
		}
		var v float64
		switch inj.Severity {
		case domain.SeveritySevere:
			v = injuryRejectScore
		case domain.SeverityModerate:
			switch {
			case typeMatch || patternMatch:
				v = -50
			default:
				v = -30
			}
		default:
			v = 0.5 * m
		}
		score = math.Min(score, v)
	}

	if h := f.user.Health; h != nil {
		c := f.ex.Contraindications
		if age := h.Age; age > 0 && ((c.MinAge > 0 && age < c.MinAge) || (c.MaxAge > 0 && age > c.MaxAge)) {
			score = math.Min(score, 0.3*m)
		}
		if h.Pregnant && !c.PregnancySafe {
			score = math.Min(score, -50)
		}
		for _, lim := range h.Limitations {
			if contains(c.ConditionTypes, lim) {
				score = math.Min(score, -30)
				break
			}
		}
	}
	// rehab-grade exercises may exceed the nominal max for injured users
	if score == m && len(active) > 0 && f.ex.EffectivenessFor(domain.GoalRehabilitation) >= 7 {
		score = m + 5
	}
	return score
}

func (f factorCtx) jointStressAcceptable() float64 {
	m := f.w.Max(domain.FactorJointStressAcceptable)
	injured := map[string]bool{}
	if f.user.Health != nil {
		for _, inj := range f.user.Health.Injuries {
			if inj.Status == domain.InjuryHealed {
				continue
			}
			for _, j := range inj.AffectedJoints {
				injured[j] = true
			}
		}
	}
	score := m
	high := f.ex.HighStressJoints()
	for _, j := range high {
		score -= 0.2 * m
		if injured[j] {
			score -= 0.5 * m
		}
	}
	for j, lvl := range f.ex.Biomechanics.JointStress {
		if lvl == domain.StressModerate && injured[j] {
			score -= 0.25 * m
		}
	}
	if f.user.Age() >= 60 && len(high) > 0 {
		score -= 0.1 * m
	}
	return clamp(score, 0, m)
}

func (f factorCtx) periodizationAlignment() float64 {
	m := f.w.Max(domain.FactorPeriodizationAlignment)
	cns := f.ex.Performance.CNSLoad
	complexity := f.ex.Performance.TechnicalComplexity
	switch f.user.Phase {
	case domain.PhaseAccumulation:
		if cns <= 6 {
			return m
		}
		return 0.5 * m
	case domain.PhaseIntensification:
		switch {
		case cns >= 6 && complexity >= 4:
			return m
		case cns >= 4:
			return 0.5 * m
		}
		return 0
	case domain.PhaseRealization:
		switch {
		case cns >= 8 && complexity >= 6:
			return m
		case cns >= 6:
			return 0.5 * m
		}
		return 0
	case domain.PhaseDeload:
		switch {
		case cns <= 4:
			return m
		case cns <= 6:
			return 0.5 * m
		}
		return 0
	case domain.PhaseMaintenance:
		if complexity <= 6 {
			return m
		}
		return 0.5 * m
	}
	return 0.75 * m
}

func (f factorCtx) varietyOptimization() float64 {
	m := f.w.Max(domain.FactorVarietyOptimization)
	sessions := 0
	if f.in.Performance != nil {
		sessions = f.in.Performance.Timeline.TotalSessions
	}
	switch {
	case sessions == 0:
		return m
	case sessions <= 3:
		return 0.8 * m
	case sessions <= 10:
		return 0.6 * m
	case sessions <= 20:
		return 0.3 * m
	}
	return 0
}

func (f factorCtx) movementPatternBalance() float64 {
	return PatternBalance(f.w.Max(domain.FactorMovementPatternBalance), f.ex.MovementPattern, f.in.SelectedPatterns)
}

// PatternBalance is the movementPatternBalance factor for pattern given the
// patterns already in the session: full credit when new, half on the second
// use, nothing after that.
func PatternBalance(max float64, pattern domain.MovementPattern, selected []domain.MovementPattern) float64 {
	n := 0
	for _, p := range selected {
		if p == pattern {
			n++
		}
	}
	switch n {
	case 0:
		return max
	case 1:
		return 0.5 * max
	}
	return 0
}

func (f factorCtx) metabolicConditioning() float64 {
	m := f.w.Max(domain.FactorMetabolicConditioning)
	return clamp(float64(f.ex.Performance.MetabolicDemand)/10*m, 0, m)
}

func (f factorCtx) stabilityDemand() float64 {
	m := f.w.Max(domain.FactorStabilityDemand)
	target := 5.0
	switch f.user.Experience() {
	case domain.ExperienceBeginner:
		target = 3
	case domain.ExperienceAdvanced, domain.ExperienceElite:
		target = 7
	}
	if f.user.Age() >= 65 {
		target = 3
	}
	diff := math.Abs(float64(f.ex.Performance.BalanceRequirement) - target)
	return clamp(m*(1-diff/10), 0, m)
}

func (f factorCtx) environmentFit() float64 {
	m := f.w.Max(domain.FactorEnvironmentFit)
	eq := f.ex.Equipment
	switch f.user.Location {
	case "", domain.LocationGym, domain.LocationOutdoor:
		return m
	}
	if !eq.HomeSafe {
		return 0
	}
	score := m
	switch eq.SpaceRequired {
	case "large":
		score -= 0.5 * m
	case "moderate":
		if f.user.Location != domain.LocationHome {
			score -= 0.25 * m
		}
	}
	switch eq.NoiseLevel {
	case "loud":
		if f.user.Location == domain.LocationOffice {
			return 0
		}
		score -= 0.3 * m
	case "moderate":
		if f.user.Location == domain.LocationOffice {
			score -= 0.3 * m
		}
	}
	return clamp(score, 0, m)
}

// averageVolume sums in key order so the result does not depend on map iteration.
func averageVolume(vol domain.MuscleVolume) float64 {
	if len(vol) == 0 {
		return 0
	}
	keys := make([]string, 0, len(vol))
	for k := range vol {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	total := 0.0
	for _, k := range keys {
		total += vol[k]
	}
	return total / float64(len(keys))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}

func patternIn(list []domain.MovementPattern, p domain.MovementPattern) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func hasAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
