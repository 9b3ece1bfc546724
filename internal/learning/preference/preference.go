// Package preference blends explicit, implicit and performance signals into a
// per-exercise preference score in [-10, 10].
package preference

import (
	"sort"

	"musclemap/prescription-engine/internal/domain"
)

const (
	MinScore = -10.0
	MaxScore = 10.0

	explicitWeight  = 10.0
	implicitWeight  = 5.0
	enjoymentFactor = 1.5 // (enjoyment-3) * 1.5 -> [-3, +3]
)

// Signal names a contribution to a preference score.
type Signal string

const (
	SignalFavorite        Signal = "favorite"
	SignalDisliked        Signal = "disliked"
	SignalEnjoyed         Signal = "enjoyed"
	SignalImplicitDislike Signal = "implicit_dislike"
	SignalEnjoyment       Signal = "enjoyment"
	SignalConsistent      Signal = "consistent_success"
	SignalStruggling      Signal = "struggling"
	SignalMastered        Signal = "mastered"
	SignalStuckLearning   Signal = "stuck_learning"
)

// ExercisePreference is the score for one exercise and the signals that moved it.
type ExercisePreference struct {
	ExerciseID string   `json:"exerciseId"`
	Score      float64  `json:"score"`
	Signals    []Signal `json:"signals,omitempty"`
}

// Profile is a user's preference over every exercise with any signal.
type Profile struct {
	Exercises []ExercisePreference `json:"exercises"`
	Enjoyed   []string             `json:"enjoyed"`
	Disliked  []string             `json:"disliked"`
}

// Score returns the preference score of one exercise. training and perf may be nil;
// with no signal at all the score is neutral (0).
func Score(exerciseID string, training *domain.TrainingProfile, perf *domain.UserExercisePerformance) float64 {
	return Explain(exerciseID, training, perf).Score
}

// Explain is Score plus the list of signals that contributed.
func Explain(exerciseID string, training *domain.TrainingProfile, perf *domain.UserExercisePerformance) ExercisePreference {
	p := ExercisePreference{ExerciseID: exerciseID}
	add := func(delta float64, s Signal) {
		p.Score = clamp(p.Score + delta)
		p.Signals = append(p.Signals, s)
	}

	// Explicit, strongest.
	if training != nil {
		if contains(training.Preferences.FavoriteExercises, exerciseID) {
			add(explicitWeight, SignalFavorite)
		}
		if contains(training.Preferences.DislikedExercises, exerciseID) {
			add(-explicitWeight, SignalDisliked)
		}
	}
	if perf == nil {
		return p
	}

	// Implicit, from history.
	sessions := perf.Timeline.TotalSessions
	enjoyment := perf.Feedback.Enjoyment
	if enjoyment >= 4 && sessions >= 3 {
		add(implicitWeight, SignalEnjoyed)
	}
	lowEnjoyment := enjoyment > 0 && enjoyment <= 2
	if (lowEnjoyment || perf.Timeline.ConsecutiveSuccessSessions == 0) && sessions >= 2 {
		add(-implicitWeight, SignalImplicitDislike)
	}

	// Direct performance nudges.
	if enjoyment > 0 {
		add(float64(enjoyment-3)*enjoymentFactor, SignalEnjoyment)
	}
	if perf.Timeline.ConsecutiveSuccessSessions >= 5 {
		add(2, SignalConsistent)
	}
	if perf.Timeline.ConsecutiveSuccessSessions == 0 && sessions >= 3 {
		add(-2, SignalStruggling)
	}
	switch {
	case perf.Skill == domain.SkillMastered:
		add(2, SignalMastered)
	case perf.Skill == domain.SkillLearning && sessions >= 10:
		add(-1, SignalStuckLearning)
	}
	return p
}

// BuildProfile scores every exercise that is a favorite, a dislike, or has history.
// Output is sorted by score descending, then id.
func BuildProfile(training *domain.TrainingProfile, perfs map[string]*domain.UserExercisePerformance) Profile {
	ids := map[string]struct{}{}
	if training != nil {
		for _, id := range training.Preferences.FavoriteExercises {
			ids[id] = struct{}{}
		}
		for _, id := range training.Preferences.DislikedExercises {
			ids[id] = struct{}{}
		}
	}
	for id := range perfs {
		ids[id] = struct{}{}
	}

	prof := Profile{Exercises: make([]ExercisePreference, 0, len(ids)), Enjoyed: []string{}, Disliked: []string{}}
	for id := range ids {
		ep := Explain(id, training, perfs[id])
		prof.Exercises = append(prof.Exercises, ep)
		for _, s := range ep.Signals {
			switch s {
			case SignalEnjoyed:
				prof.Enjoyed = append(prof.Enjoyed, id)
			case SignalImplicitDislike:
				prof.Disliked = append(prof.Disliked, id)
			}
		}
	}
	sort.Slice(prof.Exercises, func(i, j int) bool {
		a, b := prof.Exercises[i], prof.Exercises[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ExerciseID < b.ExerciseID
	})
	sort.Strings(prof.Enjoyed)
	sort.Strings(prof.Disliked)
	return prof
}

func clamp(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
