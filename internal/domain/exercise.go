// internal/domain/exercise.go
package domain

import (
	"sort"
	"time"
)

// MuscleActivation tags a muscle with how strongly an exercise recruits it (0-100).
type MuscleActivation struct {
	MuscleID   string  `bson:"muscleId" json:"muscleId" yaml:"muscle"`
	Activation float64 `bson:"activation" json:"activation" yaml:"activation"`
}

type MuscleActivations struct {
	Primary     []MuscleActivation `bson:"primary" json:"primary" yaml:"primary"`
	Secondary   []MuscleActivation `bson:"secondary,omitempty" json:"secondary,omitempty" yaml:"secondary"`
	Stabilizers []MuscleActivation `bson:"stabilizers,omitempty" json:"stabilizers,omitempty" yaml:"stabilizers"`
}

// BiomechanicalProfile describes how load travels through the body.
type BiomechanicalProfile struct {
	LoadingPattern  string                 `bson:"loadingPattern,omitempty" json:"loadingPattern,omitempty" yaml:"loading_pattern"`   // e.g. "axial", "bilateral", "unilateral"
	ResistanceCurve string                 `bson:"resistanceCurve,omitempty" json:"resistanceCurve,omitempty" yaml:"resistance_curve"` // "ascending", "descending", "bell", "flat"
	JointStress     map[string]StressLevel `bson:"jointStress,omitempty" json:"jointStress,omitempty" yaml:"joint_stress"`             // joint -> stress
}

// PerformanceMetrics are catalog ratings, each on a 1-10 scale except LearningCurveSessions.
type PerformanceMetrics struct {
	CNSLoad               int `bson:"cnsLoad" json:"cnsLoad" yaml:"cns_load"`
	MetabolicDemand       int `bson:"metabolicDemand" json:"metabolicDemand" yaml:"metabolic_demand"`
	TechnicalComplexity   int `bson:"technicalComplexity" json:"technicalComplexity" yaml:"technical_complexity"`
	LearningCurveSessions int `bson:"learningCurveSessions" json:"learningCurveSessions" yaml:"learning_curve_sessions"`
	BalanceRequirement    int `bson:"balanceRequirement" json:"balanceRequirement" yaml:"balance_requirement"`
}

type RecoveryProfile struct {
	TypicalSorenessHours float64            `bson:"typicalSorenessHours" json:"typicalSorenessHours" yaml:"typical_soreness_hours"`
	MinimumRecoveryHours float64            `bson:"minimumRecoveryHours" json:"minimumRecoveryHours" yaml:"minimum_recovery_hours"`
	MuscleRecoveryFactor map[string]float64 `bson:"muscleRecoveryFactor,omitempty" json:"muscleRecoveryFactor,omitempty" yaml:"muscle_recovery_factor"`
}

// EffectivenessRatings score the exercise 0-10 per training goal.
type EffectivenessRatings struct {
	ByGoal   map[Goal]float64 `bson:"byGoal" json:"byGoal" yaml:"by_goal"`
	Evidence EvidenceLevel    `bson:"evidence,omitempty" json:"evidence,omitempty" yaml:"evidence"`
}

type EquipmentProfile struct {
	Required      []string `bson:"required,omitempty" json:"required,omitempty" yaml:"required"`
	Optional      []string `bson:"optional,omitempty" json:"optional,omitempty" yaml:"optional"`
	SpaceRequired string   `bson:"spaceRequired,omitempty" json:"spaceRequired,omitempty" yaml:"space_required"` // "minimal", "moderate", "large"
	NoiseLevel    string   `bson:"noiseLevel,omitempty" json:"noiseLevel,omitempty" yaml:"noise_level"`          // "quiet", "moderate", "loud"
	HomeSafe      bool     `bson:"homeSafe" json:"homeSafe" yaml:"home_safe"`
	SetupSeconds  int      `bson:"setupSeconds,omitempty" json:"setupSeconds,omitempty" yaml:"setup_seconds"`
}

// ProgressionTree links to other catalog entries by id. The links form a graph
// that is not guaranteed to be acyclic.
type ProgressionTree struct {
	Regressions       []string `bson:"regressions,omitempty" json:"regressions,omitempty" yaml:"regressions"`
	Progressions      []string `bson:"progressions,omitempty" json:"progressions,omitempty" yaml:"progressions"`
	LateralVariations []string `bson:"lateralVariations,omitempty" json:"lateralVariations,omitempty" yaml:"lateral_variations"`
}

type Contraindications struct {
	InjuryTypes    []string `bson:"injuryTypes,omitempty" json:"injuryTypes,omitempty" yaml:"injury_types"`
	ConditionTypes []string `bson:"conditionTypes,omitempty" json:"conditionTypes,omitempty" yaml:"condition_types"`
	MinAge         int      `bson:"minAge,omitempty" json:"minAge,omitempty" yaml:"min_age"`
	MaxAge         int      `bson:"maxAge,omitempty" json:"maxAge,omitempty" yaml:"max_age"`
	PregnancySafe  bool     `bson:"pregnancySafe" json:"pregnancySafe" yaml:"pregnancy_safe"`
}

// ExerciseMetadata represents a single exercise definition in the catalog.
// It is owned by the catalog and treated as read-only by the engine.
type ExerciseMetadata struct {
	ID              string          `bson:"_id" json:"id" yaml:"id"`
	Name            string          `bson:"name" json:"name" yaml:"name"`
	Category        string          `bson:"category,omitempty" json:"category,omitempty" yaml:"category"`
	MovementPattern MovementPattern `bson:"movementPattern" json:"movementPattern" yaml:"movement_pattern"`

	Muscles           MuscleActivations    `bson:"muscles" json:"muscles" yaml:"muscles"`
	Biomechanics      BiomechanicalProfile `bson:"biomechanics" json:"biomechanics" yaml:"biomechanics"`
	Performance       PerformanceMetrics   `bson:"performance" json:"performance" yaml:"performance"`
	Recovery          RecoveryProfile      `bson:"recovery" json:"recovery" yaml:"recovery"`
	Effectiveness     EffectivenessRatings `bson:"effectiveness" json:"effectiveness" yaml:"effectiveness"`
	Equipment         EquipmentProfile     `bson:"equipment" json:"equipment" yaml:"equipment"`
	Progressions      ProgressionTree      `bson:"progressions" json:"progressions" yaml:"progressions"`
	Contraindications Contraindications    `bson:"contraindications" json:"contraindications" yaml:"contraindications"`

	VideoObjectKey string    `bson:"videoObjectKey,omitempty" json:"-" yaml:"video_object_key"` // Key of the demo video in media storage
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt" yaml:"-"`
}

// PrimaryMuscleIDs returns the ids of the primary muscles in catalog order.
func (e *ExerciseMetadata) PrimaryMuscleIDs() []string {
	ids := make([]string, 0, len(e.Muscles.Primary))
	for _, m := range e.Muscles.Primary {
		ids = append(ids, m.MuscleID)
	}
	return ids
}

func (e *ExerciseMetadata) SecondaryMuscleIDs() []string {
	ids := make([]string, 0, len(e.Muscles.Secondary))
	for _, m := range e.Muscles.Secondary {
		ids = append(ids, m.MuscleID)
	}
	return ids
}

// HighStressJoints returns the joints rated high stress, sorted by name.
func (e *ExerciseMetadata) HighStressJoints() []string {
	var joints []string
	for joint, level := range e.Biomechanics.JointStress {
		if level == StressHigh {
			joints = append(joints, joint)
		}
	}
	sort.Strings(joints)
	return joints
}

// EffectivenessFor returns the 0-10 rating for a goal, defaulting to 5 when unrated.
func (e *ExerciseMetadata) EffectivenessFor(g Goal) float64 {
	if v, ok := e.Effectiveness.ByGoal[g]; ok {
		return v
	}
	return 5
}

// EffectiveSetupSeconds falls back to 30s per required item when the catalog has no figure.
func (e *ExerciseMetadata) EffectiveSetupSeconds() int {
	if e.Equipment.SetupSeconds > 0 {
		return e.Equipment.SetupSeconds
	}
	return 30 * len(e.Equipment.Required)
}
