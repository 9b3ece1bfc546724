package prescription

import (
	"math"
	"strconv"
	"strings"

	"musclemap/prescription-engine/internal/domain"
)

const (
	defaultRepSeconds   = 3.0
	setupSeconds        = 60
	supersetSetup       = 90
	sessionEntrySeconds = 60 // each warmup or cooldown item
	highVolumeReps      = 300
)

// muscleCoverage sums sets x reps per primary muscle, secondary muscles at half weight.
// Timed holds count one unit per set.
func muscleCoverage(exercises []domain.PrescribedExercise, index map[string]*candidate) map[string]float64 {
	out := map[string]float64{}
	for _, pe := range exercises {
		c, ok := index[pe.ExerciseID]
		if !ok {
			continue
		}
		v := setVolume(pe.Load)
		for _, m := range c.ex.PrimaryMuscleIDs() {
			out[m] += v
		}
		for _, m := range c.ex.SecondaryMuscleIDs() {
			out[m] += 0.5 * v
		}
	}
	return out
}

func setVolume(l domain.LoadRecommendation) float64 {
	if l.Reps.Timed {
		return float64(l.Sets)
	}
	return float64(l.Sets) * l.Reps.Midpoint()
}

func patternBalance(exercises []domain.PrescribedExercise) map[domain.MovementPattern]int {
	out := map[domain.MovementPattern]int{}
	for _, pe := range exercises {
		out[pe.MovementPattern]++
	}
	return out
}

// workSeconds is the time under tension of one set.
func workSeconds(l domain.LoadRecommendation) float64 {
	if l.Reps.Timed {
		return l.Reps.Midpoint()
	}
	return l.Reps.Midpoint() * repSeconds(l.Tempo)
}

// repSeconds sums the tempo digits, "3-1-1-0" is 5 seconds per rep.
func repSeconds(tempo string) float64 {
	if tempo == "" {
		return defaultRepSeconds
	}
	total := 0
	for _, part := range strings.Split(tempo, "-") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return defaultRepSeconds
		}
		total += n
	}
	if total <= 0 {
		return defaultRepSeconds
	}
	return float64(total)
}

// estimateDuration returns the session length in minutes, one decimal.
// A superset pair shares its setup and alternates the two exercises each round.
func estimateDuration(r *domain.PrescriptionResult) float64 {
	pairOf := map[string]domain.SupersetPair{}
	for _, p := range r.Supersets {
		pairOf[p.FirstExerciseID] = p
		pairOf[p.SecondExerciseID] = p
	}

	seconds := 0.0
	for i := range r.Exercises {
		pe := &r.Exercises[i]
		p, paired := pairOf[pe.ExerciseID]
		if !paired {
			sets := float64(pe.Load.Sets)
			seconds += sets*workSeconds(pe.Load) + (sets-1)*float64(pe.Load.RestSeconds) + setupSeconds
			continue
		}
		if pe.ExerciseID != p.FirstExerciseID {
			continue
		}
		second, ok := r.ExerciseByID(p.SecondExerciseID)
		if !ok {
			continue
		}
		rounds := float64(maxInt(pe.Load.Sets, second.Load.Sets))
		seconds += rounds*(workSeconds(pe.Load)+workSeconds(second.Load)+float64(p.RestBetweenSeconds)) +
			(rounds-1)*float64(p.RestAfterSeconds) + supersetSetup
	}
	seconds += float64(sessionEntrySeconds * (len(r.Warmup) + len(r.Cooldown)))
	return math.Round(seconds/60*10) / 10
}

// difficultyFor labels the session from average RPE and total rep volume,
// one tier lower when recovery is poor or fair.
func difficultyFor(exercises []domain.PrescribedExercise, rc domain.RecoveryClassification) domain.Difficulty {
	if len(exercises) == 0 {
		return domain.DifficultyBeginner
	}
	rpe, volume := 0.0, 0.0
	for _, pe := range exercises {
		rpe += pe.Load.RPE
		volume += setVolume(pe.Load)
	}
	rpe /= float64(len(exercises))

	tier := 0
	switch {
	case rpe >= 8.5:
		tier = 3
	case rpe >= 7.5:
		tier = 2
	case rpe >= 6.5:
		tier = 1
	}
	if volume > highVolumeReps {
		tier++
	}
	if rc == domain.RecoveryPoor || rc == domain.RecoveryFair {
		tier--
	}
	return domain.DifficultyTiers[clampInt(tier, 0, len(domain.DifficultyTiers)-1)]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
