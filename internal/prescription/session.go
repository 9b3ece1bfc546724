package prescription

import (
	"fmt"
	"math"
	"sort"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/scoring"
)

const (
	maxWarmup            = 4
	maxCooldown          = 3
	maxSubstitutesOfKind = 2
	substituteDepth      = 2
	warmupMaxCNS         = 3
)

// buildWarmup picks up to four low-intensity primers: mobility or stability
// holds, and light exercises that share a primary muscle with the main session.
func buildWarmup(scored, main []*candidate, inMain map[string]bool) []domain.SessionEntry {
	worked := workedMuscles(main, false)

	type option struct {
		c      *candidate
		shares bool
	}
	var opts []option
	for _, c := range scored {
		if inMain[c.ex.ID] || c.reject != scoring.RejectNone {
			continue
		}
		shares := sharesAny(c.ex.PrimaryMuscleIDs(), worked)
		if c.ex.MovementPattern.IsRecoveryWork() || (c.ex.Performance.CNSLoad <= warmupMaxCNS && shares) {
			opts = append(opts, option{c: c, shares: shares})
		}
	}
	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].shares != opts[j].shares {
			return opts[i].shares
		}
		return opts[i].c.ex.ID < opts[j].c.ex.ID
	})

	out := make([]domain.SessionEntry, 0, maxWarmup)
	for _, o := range opts {
		if len(out) == maxWarmup {
			break
		}
		ex := o.c.ex
		e := domain.SessionEntry{
			ExerciseID:      ex.ID,
			Name:            ex.Name,
			MovementPattern: ex.MovementPattern,
			Sets:            1,
		}
		if ex.MovementPattern.IsRecoveryWork() {
			e.Reps, e.RPE, e.RestSeconds = domain.HoldSeconds(30, 30), 3, 15
			e.Reason = "Opens up range of motion before loading"
		} else {
			e.Reps, e.RPE, e.RestSeconds = domain.Reps(10), 4, 30
			e.Reason = "Primes muscles trained in the main session"
		}
		out = append(out, e)
	}
	return out
}

// buildCooldown picks up to three mobility holds that stretch a worked muscle.
func buildCooldown(scored, main []*candidate, used map[string]bool) []domain.SessionEntry {
	worked := workedMuscles(main, true)
	out := make([]domain.SessionEntry, 0, maxCooldown)

	var opts []*candidate
	for _, c := range scored {
		if used[c.ex.ID] || c.reject != scoring.RejectNone || c.ex.MovementPattern != domain.PatternMobility {
			continue
		}
		muscles := append(c.ex.PrimaryMuscleIDs(), c.ex.SecondaryMuscleIDs()...)
		if sharesAny(muscles, worked) {
			opts = append(opts, c)
		}
	}
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].ex.ID < opts[j].ex.ID })

	for _, c := range opts {
		if len(out) == maxCooldown {
			break
		}
		out = append(out, domain.SessionEntry{
			ExerciseID:      c.ex.ID,
			Name:            c.ex.Name,
			MovementPattern: c.ex.MovementPattern,
			Sets:            1,
			Reps:            domain.HoldSeconds(30, 60),
			RPE:             3,
			RestSeconds:     0,
			Reason:          "Stretches muscles worked today",
		})
	}
	return out
}

func workedMuscles(main []*candidate, withSecondary bool) map[string]bool {
	out := map[string]bool{}
	for _, c := range main {
		for _, m := range c.ex.PrimaryMuscleIDs() {
			out[m] = true
		}
		if withSecondary {
			for _, m := range c.ex.SecondaryMuscleIDs() {
				out[m] = true
			}
		}
	}
	return out
}

func sharesAny(muscles []string, set map[string]bool) bool {
	for _, m := range muscles {
		if set[m] {
			return true
		}
	}
	return false
}

// substitutesFor walks the progression graph breadth-first up to two hops.
// Links may form cycles, so every id is visited at most once.
func substitutesFor(ex *domain.ExerciseMetadata, index map[string]*candidate, inMain map[string]bool) []domain.Substitute {
	var out []domain.Substitute
	out = append(out, walkLinks(ex, index, inMain, domain.SubstituteRegression,
		func(e *domain.ExerciseMetadata) []string { return e.Progressions.Regressions })...)
	out = append(out, walkLinks(ex, index, inMain, domain.SubstituteLateral,
		func(e *domain.ExerciseMetadata) []string { return e.Progressions.LateralVariations })...)
	return out
}

func walkLinks(root *domain.ExerciseMetadata, index map[string]*candidate, inMain map[string]bool,
	kind domain.SubstituteKind, links func(*domain.ExerciseMetadata) []string) []domain.Substitute {

	visited := map[string]bool{root.ID: true}
	frontier := []*domain.ExerciseMetadata{root}
	var out []domain.Substitute

	for depth := 0; depth < substituteDepth && len(frontier) > 0 && len(out) < maxSubstitutesOfKind; depth++ {
		var next []*domain.ExerciseMetadata
		for _, cur := range frontier {
			for _, id := range links(cur) {
				if visited[id] {
					continue
				}
				visited[id] = true
				c, ok := index[id]
				if !ok {
					continue
				}
				next = append(next, c.ex)
				if inMain[id] || c.reject != scoring.RejectNone || len(out) == maxSubstitutesOfKind {
					continue
				}
				out = append(out, domain.Substitute{
					ExerciseID:   c.ex.ID,
					Name:         c.ex.Name,
					Kind:         kind,
					Similarity:   similarity(root, c.ex),
					WhenToPrefer: whenToPrefer(kind, root, c.ex),
				})
			}
		}
		frontier = next
	}
	return out
}

// similarity blends same pattern (0.4), primary-muscle overlap (0.4) and
// required-equipment overlap (0.2), each overlap a Jaccard index.
func similarity(a, b *domain.ExerciseMetadata) float64 {
	s := 0.0
	if a.MovementPattern == b.MovementPattern {
		s += 0.4
	}
	s += 0.4 * jaccard(a.PrimaryMuscleIDs(), b.PrimaryMuscleIDs())
	s += 0.2 * jaccard(a.Equipment.Required, b.Equipment.Required)
	return math.Round(s*100) / 100
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	set := map[string]bool{}
	for _, x := range a {
		set[x] = true
	}
	inter, union := 0, len(set)
	seen := map[string]bool{}
	for _, y := range b {
		if seen[y] {
			continue
		}
		seen[y] = true
		if set[y] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func whenToPrefer(kind domain.SubstituteKind, root, alt *domain.ExerciseMetadata) string {
	if kind == domain.SubstituteRegression {
		return fmt.Sprintf("Use instead of %s if form breaks down or the joint complains", root.Name)
	}
	if len(alt.Equipment.Required) == 0 || len(root.Equipment.Required) > len(alt.Equipment.Required) {
		return fmt.Sprintf("Use instead of %s when equipment is limited", root.Name)
	}
	return fmt.Sprintf("Use instead of %s for variety or when the station is busy", root.Name)
}
