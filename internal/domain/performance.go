package domain

import "time"

type StrengthEstimates struct {
	Estimated1RM    float64 `bson:"estimated1RM,omitempty" json:"estimated1RM,omitempty"`
	RecentMaxWeight float64 `bson:"recentMaxWeight,omitempty" json:"recentMaxWeight,omitempty"`
	MaxWeightEver   float64 `bson:"maxWeightEver,omitempty" json:"maxWeightEver,omitempty"`
	RecentMaxReps   int     `bson:"recentMaxReps,omitempty" json:"recentMaxReps,omitempty"`
}

type VolumeStats struct {
	TotalSets    int         `bson:"totalSets" json:"totalSets"`
	TotalReps    int         `bson:"totalReps" json:"totalReps"`
	TotalTonnage float64     `bson:"totalTonnage" json:"totalTonnage"`
	MonthlyTrend VolumeTrend `bson:"monthlyTrend,omitempty" json:"monthlyTrend,omitempty"`
}

// SubjectiveFeedback ratings are 1-5; zero means never rated.
type SubjectiveFeedback struct {
	Enjoyment           int `bson:"enjoyment,omitempty" json:"enjoyment,omitempty"`
	PerceivedDifficulty int `bson:"perceivedDifficulty,omitempty" json:"perceivedDifficulty,omitempty"`
	JointStress         int `bson:"jointStress,omitempty" json:"jointStress,omitempty"`
}

type PerformanceTimeline struct {
	TotalSessions              int       `bson:"totalSessions" json:"totalSessions"`
	ConsecutiveSuccessSessions int       `bson:"consecutiveSuccessSessions" json:"consecutiveSuccessSessions"`
	FirstPerformed             time.Time `bson:"firstPerformed" json:"firstPerformed"`
	LastPerformed              time.Time `bson:"lastPerformed" json:"lastPerformed"`
}

// UserExercisePerformance is the per user x exercise record, updated after every logged session.
type UserExercisePerformance struct {
	UserID     string              `bson:"userId" json:"userId"`
	ExerciseID string              `bson:"exerciseId" json:"exerciseId"`
	Strength   StrengthEstimates   `bson:"strength" json:"strength"`
	Volume     VolumeStats         `bson:"volume" json:"volume"`
	Skill      SkillProgression    `bson:"skill" json:"skill"`
	Feedback   SubjectiveFeedback  `bson:"feedback" json:"feedback"`
	Timeline   PerformanceTimeline `bson:"timeline" json:"timeline"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SetLog is one logged working set, reported by the host after a workout.
type SetLog struct {
	UserID     string    `json:"userId"`
	ExerciseID string    `json:"exerciseId"`
	Reps       int       `json:"reps"`
	WeightKg   float64   `json:"weightKg"`
	Success    bool      `json:"success"` // all prescribed reps completed at target RPE
	NewSession bool      `json:"newSession"`
	LoggedAt   time.Time `json:"loggedAt"`

	Estimated1RM        *float64          `json:"estimated1RM,omitempty"`
	Skill               *SkillProgression `json:"skill,omitempty"`
	Enjoyment           *int              `json:"enjoyment,omitempty"`
	PerceivedDifficulty *int              `json:"perceivedDifficulty,omitempty"`
	JointStress         *int              `json:"jointStress,omitempty"`
}

// MuscleVolume maps a muscle id to its tracked recent training volume.
type MuscleVolume map[string]float64
