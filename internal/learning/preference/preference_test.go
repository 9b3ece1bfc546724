package preference

import (
	"testing"

	"musclemap/prescription-engine/internal/domain"
)

func perf(sessions, consecutive, enjoyment int, skill domain.SkillProgression) *domain.UserExercisePerformance {
	return &domain.UserExercisePerformance{
		Skill:    skill,
		Feedback: domain.SubjectiveFeedback{Enjoyment: enjoyment},
		Timeline: domain.PerformanceTimeline{TotalSessions: sessions, ConsecutiveSuccessSessions: consecutive},
	}
}

func TestScore(t *testing.T) {
	training := &domain.TrainingProfile{Preferences: domain.TrainingPreferences{
		FavoriteExercises: []string{"fav"},
		DislikedExercises: []string{"hate"},
	}}
	cases := []struct {
		name string
		id   string
		perf *domain.UserExercisePerformance
		want float64
	}{
		{"no signal is neutral", "x", nil, 0},
		{"favorite", "fav", nil, 10},
		{"favorite stays clamped", "fav", perf(6, 6, 5, domain.SkillMastered), 10},
		{"dislike", "hate", nil, -10},
		// enjoyed +5, enjoyment (5-3)*1.5=+3, consistent +2
		{"enjoyed and consistent", "x", perf(6, 6, 5, domain.SkillCompetent), 10},
		// enjoyed +5, enjoyment +1.5
		{"enjoyed", "x", perf(3, 1, 4, domain.SkillCompetent), 6.5},
		// implicit dislike -5, enjoyment -3, struggling -2
		{"disliked and struggling", "x", perf(4, 0, 1, domain.SkillCompetent), -10},
		// stuck learning -1, neutral enjoyment 0
		{"stuck learning", "x", perf(12, 2, 3, domain.SkillLearning), -1},
		{"mastered", "x", perf(1, 1, 0, domain.SkillMastered), 2},
	}
	for _, tc := range cases {
		got := Score(tc.id, training, tc.perf)
		if got != tc.want {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
		if got < MinScore || got > MaxScore {
			t.Fatalf("%s: score %v outside [-10,10]", tc.name, got)
		}
	}
}

func TestBuildProfile(t *testing.T) {
	training := &domain.TrainingProfile{Preferences: domain.TrainingPreferences{FavoriteExercises: []string{"a"}}}
	perfs := map[string]*domain.UserExercisePerformance{
		"b": perf(4, 4, 5, domain.SkillProficient),
		"c": perf(3, 0, 2, domain.SkillLearning),
	}
	prof := BuildProfile(training, perfs)
	if len(prof.Exercises) != 3 {
		t.Fatalf("exercises: want=3 got=%d", len(prof.Exercises))
	}
	if prof.Exercises[0].ExerciseID != "a" || prof.Exercises[2].ExerciseID != "c" {
		t.Fatalf("order: got=%+v", prof.Exercises)
	}
	if len(prof.Enjoyed) != 1 || prof.Enjoyed[0] != "b" {
		t.Fatalf("enjoyed: want=[b] got=%v", prof.Enjoyed)
	}
	if len(prof.Disliked) != 1 || prof.Disliked[0] != "c" {
		t.Fatalf("disliked: want=[c] got=%v", prof.Disliked)
	}
}
