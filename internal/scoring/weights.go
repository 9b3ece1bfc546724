package scoring

import "musclemap/prescription-engine/internal/domain"

// Weights maps every factor to its maximum contribution.
type Weights map[domain.Factor]float64

// Max returns the weight of f, zero when unset.
func (w Weights) Max(f domain.Factor) float64 { return w[f] }

// defaultWeights caps the four categories at 50 (core), 25 (personalization),
// 20 (recovery/safety) and 10 (periodization/variety). The context factors
// default to 0 and only count once an override activates them.
var defaultWeights = map[domain.Factor]float64{
	domain.FactorEquipmentMatch:    25,
	domain.FactorGoalEffectiveness: 15,
	domain.FactorMuscleTargetMatch: 10,

	domain.FactorBiomechanicalFit:   8,
	domain.FactorSkillAppropriate:   7,
	domain.FactorUserPreference:     5,
	domain.FactorPerformanceHistory: 5,

	domain.FactorRecoveryAppropriate:   8,
	domain.FactorInjurySafe:            7,
	domain.FactorJointStressAcceptable: 5,

	domain.FactorPeriodizationAlignment: 4,
	domain.FactorVarietyOptimization:    3,
	domain.FactorMovementPatternBalance: 3,

	domain.FactorMetabolicConditioning: 0,
	domain.FactorStabilityDemand:       0,
	domain.FactorEnvironmentFit:        0,
}

var goalOverrides = map[domain.Goal]map[domain.Factor]float64{
	domain.GoalStrength: {
		domain.FactorGoalEffectiveness: 20,
		domain.FactorSkillAppropriate:  10,
	},
	domain.GoalHypertrophy: {
		domain.FactorMuscleTargetMatch:  15,
		domain.FactorPerformanceHistory: 7,
	},
	domain.GoalPower: {
		domain.FactorGoalEffectiveness:   20,
		domain.FactorRecoveryAppropriate: 10,
	},
	domain.GoalEndurance: {
		domain.FactorVarietyOptimization:   5,
		domain.FactorMetabolicConditioning: 8,
	},
	domain.GoalFatLoss: {
		domain.FactorMetabolicConditioning: 10,
		domain.FactorVarietyOptimization:   5,
	},
	domain.GoalMobility: {
		domain.FactorJointStressAcceptable: 8,
		domain.FactorInjurySafe:            10,
	},
	domain.GoalRehabilitation: {
		domain.FactorInjurySafe:            12,
		domain.FactorJointStressAcceptable: 8,
		domain.FactorStabilityDemand:       6,
		domain.FactorSkillAppropriate:      10,
	},
	domain.GoalGeneralFitness: {
		domain.FactorVarietyOptimization:    5,
		domain.FactorMovementPatternBalance: 5,
	},
}

const offSiteEnvironmentWeight = 5

// DefaultWeights returns a fresh copy of the engine defaults.
func DefaultWeights() Weights {
	w := make(Weights, len(defaultWeights))
	for f, v := range defaultWeights {
		w[f] = v
	}
	return w
}

// ResolveWeights layers defaults, goal overrides (largest wins across goals),
// the off-site environment override, and finally the learned per-user modifiers.
func ResolveWeights(user *domain.UserContext, adaptive *domain.AdaptiveUserWeights) Weights {
	w := DefaultWeights()
	if user != nil {
		overridden := map[domain.Factor]float64{}
		for _, g := range goalsOf(user) {
			for f, v := range goalOverrides[g] {
				if cur, ok := overridden[f]; !ok || v > cur {
					overridden[f] = v
				}
			}
		}
		for f, v := range overridden {
			w[f] = v
		}
		if user.Location != "" && user.Location != domain.LocationGym && w[domain.FactorEnvironmentFit] < offSiteEnvironmentWeight {
			w[domain.FactorEnvironmentFit] = offSiteEnvironmentWeight
		}
	}
	if adaptive != nil {
		for f, v := range adaptive.WeightModifiers {
			if f.Valid() && v >= 0 {
				w[f] = v
			}
		}
	}
	return w
}

func goalsOf(user *domain.UserContext) []domain.Goal {
	if len(user.Goals) == 0 {
		return []domain.Goal{domain.GoalGeneralFitness}
	}
	return user.Goals
}
