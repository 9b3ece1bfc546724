package domain

// MovementPattern is the dominant biomechanical motion of an exercise.
type MovementPattern string

const (
	PatternSquat          MovementPattern = "squat"
	PatternHipHinge       MovementPattern = "hip_hinge"
	PatternLunge          MovementPattern = "lunge"
	PatternHorizontalPush MovementPattern = "horizontal_push"
	PatternVerticalPush   MovementPattern = "vertical_push"
	PatternHorizontalPull MovementPattern = "horizontal_pull"
	PatternVerticalPull   MovementPattern = "vertical_pull"
	PatternCarry          MovementPattern = "carry"
	PatternRotation       MovementPattern = "rotation"
	PatternAntiRotation   MovementPattern = "anti_rotation"
	PatternFlexion        MovementPattern = "flexion"
	PatternExtension      MovementPattern = "extension"
	PatternLateralFlexion MovementPattern = "lateral_flexion"
	PatternIsolation      MovementPattern = "isolation"
	PatternPlyometric     MovementPattern = "plyometric"
	PatternOlympic        MovementPattern = "olympic"
	PatternMobility       MovementPattern = "mobility"
	PatternStability      MovementPattern = "stability"
)

// AllMovementPatterns lists every pattern in catalog order.
var AllMovementPatterns = []MovementPattern{
	PatternSquat, PatternHipHinge, PatternLunge,
	PatternHorizontalPush, PatternVerticalPush, PatternHorizontalPull, PatternVerticalPull,
	PatternCarry, PatternRotation, PatternAntiRotation,
	PatternFlexion, PatternExtension, PatternLateralFlexion, PatternIsolation,
	PatternPlyometric, PatternOlympic, PatternMobility, PatternStability,
}

func (p MovementPattern) Valid() bool {
	for _, known := range AllMovementPatterns {
		if p == known {
			return true
		}
	}
	return false
}

// IsIsolation reports whether the pattern trains a single joint action.
func (p MovementPattern) IsIsolation() bool {
	switch p {
	case PatternIsolation, PatternFlexion, PatternExtension, PatternLateralFlexion:
		return true
	}
	return false
}

// IsRecoveryWork covers patterns prescribed as holds rather than loaded sets.
func (p MovementPattern) IsRecoveryWork() bool {
	return p == PatternMobility || p == PatternStability
}

// Goal is a training objective. The first goal of a context is the primary goal.
type Goal string

const (
	GoalStrength       Goal = "strength"
	GoalHypertrophy    Goal = "hypertrophy"
	GoalPower          Goal = "power"
	GoalEndurance      Goal = "endurance"
	GoalFatLoss        Goal = "fat_loss"
	GoalMobility       Goal = "mobility"
	GoalRehabilitation Goal = "rehabilitation"
	GoalGeneralFitness Goal = "general_fitness"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalStrength, GoalHypertrophy, GoalPower, GoalEndurance, GoalFatLoss,
		GoalMobility, GoalRehabilitation, GoalGeneralFitness:
		return true
	}
	return false
}

// TrainingPhase is the periodization stage of the current block.
type TrainingPhase string

const (
	PhaseAccumulation    TrainingPhase = "accumulation"
	PhaseIntensification TrainingPhase = "intensification"
	PhaseRealization     TrainingPhase = "realization"
	PhaseDeload          TrainingPhase = "deload"
	PhaseMaintenance     TrainingPhase = "maintenance"
)

func (p TrainingPhase) Valid() bool {
	switch p {
	case PhaseAccumulation, PhaseIntensification, PhaseRealization, PhaseDeload, PhaseMaintenance:
		return true
	}
	return false
}

// RecoveryClassification is the coarse readiness bucket of a recovery score.
type RecoveryClassification string

const (
	RecoveryPoor      RecoveryClassification = "poor"
	RecoveryFair      RecoveryClassification = "fair"
	RecoveryGood      RecoveryClassification = "good"
	RecoveryExcellent RecoveryClassification = "excellent"
)

func (r RecoveryClassification) Valid() bool {
	switch r {
	case RecoveryPoor, RecoveryFair, RecoveryGood, RecoveryExcellent:
		return true
	}
	return false
}

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceElite        ExperienceLevel = "elite"
)

func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced, ExperienceElite:
		return true
	}
	return false
}

// SkillProgression labels technical competency on one exercise.
// The sequence is learning -> competent -> proficient -> mastered.
type SkillProgression string

const (
	SkillLearning   SkillProgression = "learning"
	SkillCompetent  SkillProgression = "competent"
	SkillProficient SkillProgression = "proficient"
	SkillMastered   SkillProgression = "mastered"
)

type StressLevel string

const (
	StressLow      StressLevel = "low"
	StressModerate StressLevel = "moderate"
	StressHigh     StressLevel = "high"
)

type InjurySeverity string

const (
	SeverityMild     InjurySeverity = "mild"
	SeverityModerate InjurySeverity = "moderate"
	SeveritySevere   InjurySeverity = "severe"
)

type InjuryStatus string

const (
	InjuryActive     InjuryStatus = "active"
	InjuryRecovering InjuryStatus = "recovering"
	InjuryHealed     InjuryStatus = "healed"
)

// VolumeTrend is the month-over-month direction of training volume on an exercise.
type VolumeTrend string

const (
	TrendIncreasing VolumeTrend = "increasing"
	TrendStable     VolumeTrend = "stable"
	TrendDecreasing VolumeTrend = "decreasing"
	TrendPlateau    VolumeTrend = "plateau"
)

type EvidenceLevel string

const (
	EvidenceHigh      EvidenceLevel = "high"
	EvidenceModerate  EvidenceLevel = "moderate"
	EvidenceLow       EvidenceLevel = "low"
	EvidenceAnecdotal EvidenceLevel = "anecdotal"
)

type Location string

const (
	LocationGym     Location = "gym"
	LocationHome    Location = "home"
	LocationOutdoor Location = "outdoor"
	LocationHotel   Location = "hotel"
	LocationOffice  Location = "office"
)

func (l Location) Valid() bool {
	switch l {
	case LocationGym, LocationHome, LocationOutdoor, LocationHotel, LocationOffice:
		return true
	}
	return false
}

// Difficulty is the session-level label attached to a prescription.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyElite        Difficulty = "elite"
)

// DifficultyTiers is ordered easiest first.
var DifficultyTiers = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyElite}
