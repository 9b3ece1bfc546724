package scoring

import "musclemap/prescription-engine/internal/domain"

// Bonus factors are added to the total without weight scaling.
const bonusLimit = 5.0

func (f factorCtx) progressionOpportunity() float64 {
	perf := f.in.Performance
	if perf == nil {
		return 0
	}
	score := 0.0
	switch perf.Volume.MonthlyTrend {
	case domain.TrendIncreasing:
		score += 3
	case domain.TrendPlateau:
		score -= 3
	case domain.TrendDecreasing:
		score -= 2
	}
	if perf.Timeline.ConsecutiveSuccessSessions >= 3 {
		score += 2
	}
	switch e := perf.Feedback.Enjoyment; {
	case e >= 4:
		score++
	case e > 0 && e <= 2:
		score -= 2
	}
	return clamp(score, -bonusLimit, bonusLimit)
}

func (f factorCtx) timeEfficiency() float64 {
	score := 0.0
	setup := f.ex.EffectiveSetupSeconds()
	switch t := f.user.TimeAvailable; {
	case t > 0 && t <= 30:
		if setup > 120 {
			score -= 4
		} else if setup > 60 {
			score -= 2
		}
	case t > 0 && t <= 45:
		if setup > 120 {
			score -= 2
		}
	}
	// Low-CNS work supersets well under any budget.
	if cns := f.ex.Performance.CNSLoad; cns > 0 && cns <= 4 {
		score += 2
	}
	return clamp(score, -bonusLimit, bonusLimit)
}

func (f factorCtx) equipmentOptimization() float64 {
	eq := f.ex.Equipment
	score := 0.0
	if len(eq.Required) == 0 {
		score += 2
	}
	optional := 0
	for _, item := range eq.Optional {
		if hasEquipment([]string{item}, f.user.AvailableEquipment) && !alwaysAvailable[normalize(item)] {
			optional++
		}
	}
	if optional > 3 {
		optional = 3
	}
	score += float64(optional)
	if len(eq.Required) >= 3 {
		score--
	}
	return clamp(score, -bonusLimit, bonusLimit)
}
