package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScoreBreakdown holds one value per weighted factor plus the three bonus factors.
// Factors may be negative. Total is the plain sum and is never clamped.
type ScoreBreakdown struct {
	EquipmentMatch         float64 `bson:"equipmentMatch" json:"equipmentMatch"`
	GoalEffectiveness      float64 `bson:"goalEffectiveness" json:"goalEffectiveness"`
	MuscleTargetMatch      float64 `bson:"muscleTargetMatch" json:"muscleTargetMatch"`
	BiomechanicalFit       float64 `bson:"biomechanicalFit" json:"biomechanicalFit"`
	SkillAppropriate       float64 `bson:"skillAppropriate" json:"skillAppropriate"`
	UserPreference         float64 `bson:"userPreference" json:"userPreference"`
	PerformanceHistory     float64 `bson:"performanceHistory" json:"performanceHistory"`
	RecoveryAppropriate    float64 `bson:"recoveryAppropriate" json:"recoveryAppropriate"`
	InjurySafe             float64 `bson:"injurySafe" json:"injurySafe"`
	JointStressAcceptable  float64 `bson:"jointStressAcceptable" json:"jointStressAcceptable"`
	PeriodizationAlignment float64 `bson:"periodizationAlignment" json:"periodizationAlignment"`
	VarietyOptimization    float64 `bson:"varietyOptimization" json:"varietyOptimization"`
	MovementPatternBalance float64 `bson:"movementPatternBalance" json:"movementPatternBalance"`
	MetabolicConditioning  float64 `bson:"metabolicConditioning" json:"metabolicConditioning"`
	StabilityDemand        float64 `bson:"stabilityDemand" json:"stabilityDemand"`
	EnvironmentFit         float64 `bson:"environmentFit" json:"environmentFit"`

	// Bonus factors, roughly -5..+5 each, added without weight scaling.
	ProgressionOpportunity float64 `bson:"progressionOpportunity" json:"progressionOpportunity"`
	TimeEfficiency         float64 `bson:"timeEfficiency" json:"timeEfficiency"`
	EquipmentOptimization  float64 `bson:"equipmentOptimization" json:"equipmentOptimization"`

	Total float64 `bson:"total" json:"total"`
}

// Sum recomputes Total from every factor field.
func (s *ScoreBreakdown) Sum() float64 {
	s.Total = s.EquipmentMatch + s.GoalEffectiveness + s.MuscleTargetMatch +
		s.BiomechanicalFit + s.SkillAppropriate + s.UserPreference + s.PerformanceHistory +
		s.RecoveryAppropriate + s.InjurySafe + s.JointStressAcceptable +
		s.PeriodizationAlignment + s.VarietyOptimization + s.MovementPatternBalance +
		s.MetabolicConditioning + s.StabilityDemand + s.EnvironmentFit +
		s.ProgressionOpportunity + s.TimeEfficiency + s.EquipmentOptimization
	return s.Total
}

// RepScheme is a rep target: a single count, a range, or a timed hold in seconds.
// It renders as "5", "8-12" or "30-60s".
type RepScheme struct {
	Min   int  `bson:"min" json:"-"`
	Max   int  `bson:"max" json:"-"`
	Timed bool `bson:"timed" json:"-"`
}

func Reps(n int) RepScheme { return RepScheme{Min: n, Max: n} }

func RepRange(lo, hi int) RepScheme { return RepScheme{Min: lo, Max: hi} }

func HoldSeconds(lo, hi int) RepScheme { return RepScheme{Min: lo, Max: hi, Timed: true} }

// Numeric reports whether the scheme is a single untimed rep count.
func (r RepScheme) Numeric() bool { return !r.Timed && r.Min == r.Max && r.Min > 0 }

// Midpoint is the average target, used for volume and duration estimates.
func (r RepScheme) Midpoint() float64 { return float64(r.Min+r.Max) / 2 }

func (r RepScheme) String() string {
	suffix := ""
	if r.Timed {
		suffix = "s"
	}
	if r.Min == r.Max {
		return strconv.Itoa(r.Min) + suffix
	}
	return fmt.Sprintf("%d-%d%s", r.Min, r.Max, suffix)
}

// ParseRepScheme is the inverse of String.
func ParseRepScheme(s string) (RepScheme, error) {
	s = strings.TrimSpace(s)
	var r RepScheme
	if strings.HasSuffix(s, "s") {
		r.Timed = true
		s = strings.TrimSuffix(s, "s")
	}
	loRaw, hiRaw, isRange := strings.Cut(s, "-")
	lo, err := strconv.Atoi(loRaw)
	if err != nil {
		return RepScheme{}, fmt.Errorf("invalid rep scheme %q: %w", s, err)
	}
	hi := lo
	if isRange {
		if hi, err = strconv.Atoi(hiRaw); err != nil {
			return RepScheme{}, fmt.Errorf("invalid rep scheme %q: %w", s, err)
		}
	}
	r.Min, r.Max = lo, hi
	return r, nil
}

func (r RepScheme) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

func (r *RepScheme) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRepScheme(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// LoadRecommendation is the set/rep/intensity prescription for one exercise.
type LoadRecommendation struct {
	Sets            int       `bson:"sets" json:"sets"`
	Reps            RepScheme `bson:"reps" json:"reps"`
	RPE             float64   `bson:"rpe" json:"rpe"`
	PercentageOf1RM float64   `bson:"percentageOf1RM,omitempty" json:"percentageOf1RM,omitempty"`
	SuggestedWeight float64   `bson:"suggestedWeight,omitempty" json:"suggestedWeight,omitempty"`
	RestSeconds     int       `bson:"restSeconds" json:"restSeconds"`
	Tempo           string    `bson:"tempo,omitempty" json:"tempo,omitempty"` // eccentric-pauseBottom-concentric-pauseTop
	Notes           []string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

type SubstituteKind string

const (
	SubstituteRegression SubstituteKind = "regression"
	SubstituteLateral    SubstituteKind = "lateral"
)

type Substitute struct {
	ExerciseID   string         `bson:"exerciseId" json:"exerciseId"`
	Name         string         `bson:"name" json:"name"`
	Kind         SubstituteKind `bson:"kind" json:"kind"`
	Similarity   float64        `bson:"similarity" json:"similarity"` // 0-1
	WhenToPrefer string         `bson:"whenToPrefer" json:"whenToPrefer"`
}

// PrescribedExercise is one main-session entry.
type PrescribedExercise struct {
	ExerciseID      string             `bson:"exerciseId" json:"exerciseId"`
	Name            string             `bson:"name" json:"name"`
	MovementPattern MovementPattern    `bson:"movementPattern" json:"movementPattern"`
	PrimaryMuscles  []string           `bson:"primaryMuscles" json:"primaryMuscles"`
	Order           int                `bson:"order" json:"order"`
	Score           ScoreBreakdown     `bson:"score" json:"score"`
	Load            LoadRecommendation `bson:"load" json:"load"`
	Substitutes     []Substitute       `bson:"substitutes,omitempty" json:"substitutes,omitempty"`
	SupersetGroup   string             `bson:"supersetGroup,omitempty" json:"supersetGroup,omitempty"`
	DemoVideoURL    string             `bson:"-" json:"demoVideoUrl,omitempty"`
}

// SessionEntry is a fixed-format warmup or cooldown item.
type SessionEntry struct {
	ExerciseID      string          `bson:"exerciseId" json:"exerciseId"`
	Name            string          `bson:"name" json:"name"`
	MovementPattern MovementPattern `bson:"movementPattern" json:"movementPattern"`
	Sets            int             `bson:"sets" json:"sets"`
	Reps            RepScheme       `bson:"reps" json:"reps"`
	RPE             float64         `bson:"rpe" json:"rpe"`
	RestSeconds     int             `bson:"restSeconds" json:"restSeconds"`
	Reason          string          `bson:"reason,omitempty" json:"reason,omitempty"`
}

type SupersetPair struct {
	Group              string `bson:"group" json:"group"`
	FirstExerciseID    string `bson:"firstExerciseId" json:"firstExerciseId"`
	SecondExerciseID   string `bson:"secondExerciseId" json:"secondExerciseId"`
	RestBetweenSeconds int    `bson:"restBetweenSeconds" json:"restBetweenSeconds"`
	RestAfterSeconds   int    `bson:"restAfterSeconds" json:"restAfterSeconds"`
	Rationale          string `bson:"rationale" json:"rationale"`
}

type GenerationMetadata struct {
	AlgorithmVersion   string    `bson:"algorithmVersion" json:"algorithmVersion"`
	GeneratedAt        time.Time `bson:"generatedAt" json:"generatedAt"`
	PrimaryGoal        Goal      `bson:"primaryGoal" json:"primaryGoal"`
	TargetCount        int       `bson:"targetCount" json:"targetCount"`
	CandidatesScored   int       `bson:"candidatesScored" json:"candidatesScored"`
	CandidatesRejected int       `bson:"candidatesRejected" json:"candidatesRejected"`
	RecoveryAdjusted   bool      `bson:"recoveryAdjusted" json:"recoveryAdjusted"`
	PersonalizedWeight bool      `bson:"personalizedWeights" json:"personalizedWeights"`
	WeightConfidence   float64   `bson:"weightConfidence,omitempty" json:"weightConfidence,omitempty"`
}

// PrescriptionResult is a complete, ordered training session.
type PrescriptionResult struct {
	ID             string                  `bson:"_id" json:"id"`
	UserID         string                  `bson:"userId" json:"userId"`
	Exercises      []PrescribedExercise    `bson:"exercises" json:"exercises"`
	Warmup         []SessionEntry          `bson:"warmup" json:"warmup"`
	Cooldown       []SessionEntry          `bson:"cooldown" json:"cooldown"`
	Supersets      []SupersetPair          `bson:"supersets,omitempty" json:"supersets,omitempty"`
	MuscleCoverage map[string]float64      `bson:"muscleCoverage" json:"muscleCoverage"`
	PatternBalance map[MovementPattern]int `bson:"patternBalance" json:"patternBalance"`
	ActualDuration float64                 `bson:"actualDuration" json:"actualDuration"` // minutes
	Difficulty     Difficulty              `bson:"difficulty" json:"difficulty"`
	Metadata       GenerationMetadata      `bson:"metadata" json:"metadata"`
	CreatedAt      time.Time               `bson:"createdAt" json:"createdAt"`
}

// ExerciseByID looks up a main exercise of the result.
func (p *PrescriptionResult) ExerciseByID(id string) (*PrescribedExercise, bool) {
	for i := range p.Exercises {
		if p.Exercises[i].ExerciseID == id {
			return &p.Exercises[i], true
		}
	}
	return nil, false
}
