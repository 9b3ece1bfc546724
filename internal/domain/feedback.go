package domain

import "time"

type Substitution struct {
	OriginalExerciseID   string `bson:"originalExerciseId" json:"originalExerciseId" binding:"required"`
	SubstituteExerciseID string `bson:"substituteExerciseId,omitempty" json:"substituteExerciseId,omitempty"`
	Reason               string `bson:"reason,omitempty" json:"reason,omitempty"`
}

type ExerciseFeedback struct {
	ExerciseID  string `bson:"exerciseId" json:"exerciseId" binding:"required"`
	TooEasy     bool   `bson:"tooEasy" json:"tooEasy"`
	TooHard     bool   `bson:"tooHard" json:"tooHard"`
	CausedPain  bool   `bson:"causedPain" json:"causedPain"`
	WouldRepeat bool   `bson:"wouldRepeat" json:"wouldRepeat"`
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// PrescriptionFeedback is what the user reports after performing a prescription.
type PrescriptionFeedback struct {
	ID                  string             `bson:"_id" json:"id"`
	UserID              string             `bson:"userId" json:"userId"`
	PrescriptionID      string             `bson:"prescriptionId" json:"prescriptionId"`
	ExercisesCompleted  int                `bson:"exercisesCompleted" json:"exercisesCompleted"`
	ExercisesSkipped    int                `bson:"exercisesSkipped" json:"exercisesSkipped"`
	Substitutions       []Substitution     `bson:"substitutions,omitempty" json:"substitutions,omitempty"`
	PerceivedDifficulty int                `bson:"perceivedDifficulty,omitempty" json:"perceivedDifficulty,omitempty"` // 1-10
	PerceivedTime       string             `bson:"perceivedTime,omitempty" json:"perceivedTime,omitempty"`             // "too_short", "just_right", "too_long"
	FatigueLevel        int                `bson:"fatigueLevel,omitempty" json:"fatigueLevel,omitempty"`               // 1-10
	SorenessLevel       int                `bson:"sorenessLevel,omitempty" json:"sorenessLevel,omitempty"`             // 1-10
	OverallSatisfaction int                `bson:"overallSatisfaction" json:"overallSatisfaction"`                     // 1-5
	ExerciseFeedback    []ExerciseFeedback `bson:"exerciseFeedback,omitempty" json:"exerciseFeedback,omitempty"`
	SubmittedAt         time.Time          `bson:"submittedAt" json:"submittedAt"`
}

// SubstitutedExercise reports whether the user swapped out the given exercise.
func (f *PrescriptionFeedback) SubstitutedExercise(exerciseID string) bool {
	for _, s := range f.Substitutions {
		if s.OriginalExerciseID == exerciseID {
			return true
		}
	}
	return false
}

// FeedbackWithPrescription joins a feedback row with the prescription it rates.
// Prescription is nil when the originating prescription is no longer stored.
type FeedbackWithPrescription struct {
	Feedback     PrescriptionFeedback
	Prescription *PrescriptionResult
}
