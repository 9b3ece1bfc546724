package prescription

import (
	"fmt"
	"math"
	"sort"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/load"
	"musclemap/prescription-engine/internal/scoring"
)

const (
	defaultTimeMinutes = 60
	reservedMinutes    = 10 // warmup + cooldown
	minExercises       = 3
	maxExercises       = 12
	maxPerPattern      = 2
)

// minutes per main exercise, by primary goal
var avgMinutesPerExercise = map[domain.Goal]float64{
	domain.GoalStrength:       8,
	domain.GoalPower:          8,
	domain.GoalHypertrophy:    5,
	domain.GoalRehabilitation: 5,
	domain.GoalGeneralFitness: 5,
	domain.GoalEndurance:      4,
	domain.GoalFatLoss:        4,
	domain.GoalMobility:       3,
}

// patternPriority orders exercises from most to least neurally demanding.
var patternPriority = []domain.MovementPattern{
	domain.PatternOlympic,
	domain.PatternPlyometric,
	domain.PatternHipHinge,
	domain.PatternSquat,
	domain.PatternLunge,
	domain.PatternHorizontalPush,
	domain.PatternVerticalPush,
	domain.PatternHorizontalPull,
	domain.PatternVerticalPull,
	domain.PatternCarry,
	domain.PatternRotation,
	domain.PatternAntiRotation,
	domain.PatternExtension,
	domain.PatternFlexion,
	domain.PatternLateralFlexion,
	domain.PatternIsolation,
	domain.PatternStability,
	domain.PatternMobility,
}

func priorityOf(p domain.MovementPattern) int {
	for i, q := range patternPriority {
		if p == q {
			return i
		}
	}
	return len(patternPriority)
}

// targetCount derives how many main exercises fit the time budget.
func targetCount(user *domain.UserContext) int {
	minutes := user.TimeAvailable
	if minutes <= 0 {
		minutes = defaultTimeMinutes
	}
	avg, ok := avgMinutesPerExercise[user.PrimaryGoal()]
	if !ok {
		avg = avgMinutesPerExercise[domain.GoalGeneralFitness]
	}
	n := int(math.Floor(float64(minutes-reservedMinutes) / avg))
	n = clampInt(n, minExercises, maxExercises)

	// a tired user gets fewer exercises, not just lighter ones
	switch user.RecoveryClass() {
	case domain.RecoveryPoor:
		n = int(math.Floor(float64(n) * 0.6))
	case domain.RecoveryFair:
		n = int(math.Floor(float64(n) * 0.8))
	}
	if n < 2 {
		n = 2 // a poor-recovery minimum session is still a pair
	}
	return n
}

// selectExercises picks from the score-sorted pool greedily. A pattern is
// capped at two entries, and once three exercises are chosen every further
// pick must add a primary muscle the session does not cover yet. Each round
// re-scores movementPatternBalance against the patterns chosen so far, and the
// selected breakdown keeps that value.
func selectExercises(pool []*candidate, target int, balanceMax float64) []*candidate {
	selected := make([]*candidate, 0, target)
	chosen := make([]domain.MovementPattern, 0, target)
	perPattern := map[domain.MovementPattern]int{}
	covered := map[string]bool{}
	taken := make([]bool, len(pool))

	for len(selected) < target {
		best, bestTotal, bestBalance := -1, 0.0, 0.0
		for i, c := range pool {
			if taken[i] || perPattern[c.ex.MovementPattern] >= maxPerPattern {
				continue
			}
			if len(selected) >= 3 && !addsMuscle(c.ex.PrimaryMuscleIDs(), covered) {
				continue
			}
			balance := scoring.PatternBalance(balanceMax, c.ex.MovementPattern, chosen)
			total := c.score.Total - c.score.MovementPatternBalance + balance
			// pool is sorted, so strict > keeps the earlier entry on ties
			if best < 0 || total > bestTotal {
				best, bestTotal, bestBalance = i, total, balance
			}
		}
		if best < 0 {
			break
		}
		c := pool[best]
		taken[best] = true
		c.score.MovementPatternBalance = bestBalance
		c.score.Total = bestTotal
		selected = append(selected, c)
		chosen = append(chosen, c.ex.MovementPattern)
		perPattern[c.ex.MovementPattern]++
		for _, m := range c.ex.PrimaryMuscleIDs() {
			covered[m] = true
		}
	}
	return selected
}

func addsMuscle(muscles []string, covered map[string]bool) bool {
	for _, m := range muscles {
		if !covered[m] {
			return true
		}
	}
	return false
}

// orderExercises arranges the selection for the primary goal. The input slice is not modified.
func orderExercises(selected []*candidate, goal domain.Goal) []*candidate {
	out := append([]*candidate(nil), selected...)
	switch goal {
	case domain.GoalStrength, domain.GoalPower, domain.GoalGeneralFitness:
		sort.SliceStable(out, byPriority(out))
	case domain.GoalHypertrophy:
		sort.SliceStable(out, func(i, j int) bool {
			ii, ij := out[i].ex.MovementPattern.IsIsolation(), out[j].ex.MovementPattern.IsIsolation()
			if ii != ij {
				return !ii
			}
			return byPriority(out)(i, j)
		})
	case domain.GoalFatLoss, domain.GoalEndurance:
		out = interleave(out)
	}
	// mobility and rehabilitation keep score order
	return out
}

func byPriority(s []*candidate) func(i, j int) bool {
	return func(i, j int) bool {
		pi, pj := priorityOf(s[i].ex.MovementPattern), priorityOf(s[j].ex.MovementPattern)
		if pi != pj {
			return pi < pj
		}
		return s[i].ex.Performance.CNSLoad > s[j].ex.Performance.CNSLoad
	}
}

type bodyRegion int

const (
	regionUpper bodyRegion = iota
	regionLower
	regionCore
	regionOther
)

func regionOf(p domain.MovementPattern) bodyRegion {
	switch p {
	case domain.PatternHorizontalPush, domain.PatternVerticalPush,
		domain.PatternHorizontalPull, domain.PatternVerticalPull:
		return regionUpper
	case domain.PatternSquat, domain.PatternHipHinge, domain.PatternLunge,
		domain.PatternPlyometric, domain.PatternOlympic, domain.PatternCarry:
		return regionLower
	case domain.PatternRotation, domain.PatternAntiRotation, domain.PatternFlexion,
		domain.PatternLateralFlexion, domain.PatternStability:
		return regionCore
	}
	return regionOther
}

// interleave alternates upper, lower and core work for circuit-style sessions.
// Exercises outside the three groups go last, in their original order.
func interleave(s []*candidate) []*candidate {
	groups := make([][]*candidate, 3)
	var rest []*candidate
	for _, c := range s {
		r := regionOf(c.ex.MovementPattern)
		if r == regionOther {
			rest = append(rest, c)
			continue
		}
		groups[r] = append(groups[r], c)
	}
	out := make([]*candidate, 0, len(s))
	for i := 0; len(out) < len(s)-len(rest); i++ {
		for _, g := range groups {
			if i < len(g) {
				out = append(out, g[i])
			}
		}
	}
	return append(out, rest...)
}

// pairSupersets matches unused exercises along the agonist-antagonist pattern
// list. The second exercise of each pair moves directly after the first.
// Exercises with CNS load 8 or more are never paired.
func pairSupersets(ordered []*candidate) ([]*candidate, []domain.SupersetPair) {
	used := make([]bool, len(ordered))
	partner := make([]int, len(ordered))
	for i := range partner {
		partner[i] = -1
	}
	var pairs []domain.SupersetPair

	for _, pp := range load.AgonistAntagonistPairs {
		for i, a := range ordered {
			if used[i] || !pairable(a) || (a.ex.MovementPattern != pp[0] && a.ex.MovementPattern != pp[1]) {
				continue
			}
			for j, b := range ordered {
				if j == i || used[j] || !pairable(b) {
					continue
				}
				if !load.IsAgonistAntagonist(a.ex.MovementPattern, b.ex.MovementPattern) ||
					a.ex.MovementPattern == b.ex.MovementPattern {
					continue
				}
				first, second := i, j
				if second < first {
					first, second = second, first
				}
				used[i], used[j] = true, true
				partner[first] = second
				pairs = append(pairs, domain.SupersetPair{
					FirstExerciseID:  ordered[first].ex.ID,
					SecondExerciseID: ordered[second].ex.ID,
				})
				break
			}
		}
	}
	if len(pairs) == 0 {
		return ordered, nil
	}

	out := make([]*candidate, 0, len(ordered))
	placed := make([]bool, len(ordered))
	for i, c := range ordered {
		if placed[i] {
			continue
		}
		out = append(out, c)
		placed[i] = true
		if p := partner[i]; p >= 0 {
			out = append(out, ordered[p])
			placed[p] = true
		}
	}

	byID := make(map[string]*candidate, len(out))
	for _, c := range out {
		byID[c.ex.ID] = c
	}
	// label groups in session order
	sort.SliceStable(pairs, func(i, j int) bool {
		return indexOf(out, pairs[i].FirstExerciseID) < indexOf(out, pairs[j].FirstExerciseID)
	})
	for i := range pairs {
		a, b := byID[pairs[i].FirstExerciseID].ex, byID[pairs[i].SecondExerciseID].ex
		pairs[i].Group = groupLabel(i)
		pairs[i].RestBetweenSeconds, pairs[i].RestAfterSeconds = load.SupersetRest(a, b)
		pairs[i].Rationale = fmt.Sprintf("%s and %s work opposing muscle groups", a.MovementPattern, b.MovementPattern)
	}
	return out, pairs
}

func pairable(c *candidate) bool { return c.ex.Performance.CNSLoad < 8 }

func indexOf(s []*candidate, id string) int {
	for i, c := range s {
		if c.ex.ID == id {
			return i
		}
	}
	return -1
}

func groupLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("S%d", i+1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
