package domain

import "time"

// Factor names one of the weighted scoring factors.
type Factor string

const (
	FactorEquipmentMatch         Factor = "equipmentMatch"
	FactorGoalEffectiveness      Factor = "goalEffectiveness"
	FactorMuscleTargetMatch      Factor = "muscleTargetMatch"
	FactorBiomechanicalFit       Factor = "biomechanicalFit"
	FactorSkillAppropriate       Factor = "skillAppropriate"
	FactorUserPreference         Factor = "userPreference"
	FactorPerformanceHistory     Factor = "performanceHistory"
	FactorRecoveryAppropriate    Factor = "recoveryAppropriate"
	FactorInjurySafe             Factor = "injurySafe"
	FactorJointStressAcceptable  Factor = "jointStressAcceptable"
	FactorPeriodizationAlignment Factor = "periodizationAlignment"
	FactorVarietyOptimization    Factor = "varietyOptimization"
	FactorMovementPatternBalance Factor = "movementPatternBalance"
	FactorMetabolicConditioning  Factor = "metabolicConditioning"
	FactorStabilityDemand        Factor = "stabilityDemand"
	FactorEnvironmentFit         Factor = "environmentFit"
)

// AllFactors lists the weighted factors in breakdown order.
var AllFactors = []Factor{
	FactorEquipmentMatch, FactorGoalEffectiveness, FactorMuscleTargetMatch,
	FactorBiomechanicalFit, FactorSkillAppropriate, FactorUserPreference, FactorPerformanceHistory,
	FactorRecoveryAppropriate, FactorInjurySafe, FactorJointStressAcceptable,
	FactorPeriodizationAlignment, FactorVarietyOptimization, FactorMovementPatternBalance,
	FactorMetabolicConditioning, FactorStabilityDemand, FactorEnvironmentFit,
}

func (f Factor) Valid() bool {
	for _, known := range AllFactors {
		if f == known {
			return true
		}
	}
	return false
}

// IntensityRange is a preferred RPE band.
type IntensityRange struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// AdaptiveUserWeights are the learned per-user overrides of the scoring defaults.
// Confidence only increases.
type AdaptiveUserWeights struct {
	UserID             string             `bson:"_id" json:"userId"`
	WeightModifiers    map[Factor]float64 `bson:"weightModifiers" json:"weightModifiers"`
	PreferredPatterns  []MovementPattern  `bson:"preferredPatterns,omitempty" json:"preferredPatterns,omitempty"`
	AvoidedPatterns    []MovementPattern  `bson:"avoidedPatterns,omitempty" json:"avoidedPatterns,omitempty"`
	PreferredIntensity IntensityRange     `bson:"preferredIntensity" json:"preferredIntensity"`
	Confidence         float64            `bson:"confidence" json:"confidence"`
	SamplesUsed        int                `bson:"samplesUsed" json:"samplesUsed"`
	LastUpdated        time.Time          `bson:"lastUpdated" json:"lastUpdated"`
}
