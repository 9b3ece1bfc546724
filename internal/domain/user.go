package domain

import "time"

// Role type to distinguish between API callers.
type Role string

// Define constants for roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// MobilityProfile holds measured joint ranges in degrees. Zero means "not measured".
type MobilityProfile struct {
	ShoulderFlexionDeg   float64 `bson:"shoulderFlexionDeg,omitempty" json:"shoulderFlexionDeg,omitempty"`
	HipFlexionDeg        float64 `bson:"hipFlexionDeg,omitempty" json:"hipFlexionDeg,omitempty"`
	AnkleDorsiflexionDeg float64 `bson:"ankleDorsiflexionDeg,omitempty" json:"ankleDorsiflexionDeg,omitempty"`
	ThoracicRotationDeg  float64 `bson:"thoracicRotationDeg,omitempty" json:"thoracicRotationDeg,omitempty"`
}

// Biomechanics captures segment-length ratios and mobility. Ratios of zero are unknown.
type Biomechanics struct {
	FemurToTorsoRatio      float64         `bson:"femurToTorsoRatio,omitempty" json:"femurToTorsoRatio,omitempty"`
	ArmSpanToHeightRatio   float64         `bson:"armSpanToHeightRatio,omitempty" json:"armSpanToHeightRatio,omitempty"`
	TorsoToLegRatio        float64         `bson:"torsoToLegRatio,omitempty" json:"torsoToLegRatio,omitempty"`
	Mobility               MobilityProfile `bson:"mobility" json:"mobility"`
	StrengthCurveAnomalies []string        `bson:"strengthCurveAnomalies,omitempty" json:"strengthCurveAnomalies,omitempty"` // e.g. "weak_lockout", "weak_bottom"
}

type TrainingPreferences struct {
	FavoriteExercises []string          `bson:"favoriteExercises,omitempty" json:"favoriteExercises,omitempty"`
	DislikedExercises []string          `bson:"dislikedExercises,omitempty" json:"dislikedExercises,omitempty"`
	PreferredPatterns []MovementPattern `bson:"preferredPatterns,omitempty" json:"preferredPatterns,omitempty"`
}

type TrainingProfile struct {
	Experience     ExperienceLevel         `bson:"experience" json:"experience"`
	Proficiency    map[MovementPattern]int `bson:"proficiency,omitempty" json:"proficiency,omitempty"`       // 1-5 per pattern
	EstimatedMaxes map[string]float64      `bson:"estimatedMaxes,omitempty" json:"estimatedMaxes,omitempty"` // exercise id -> 1RM kg
	TotalWorkouts  int                     `bson:"totalWorkouts" json:"totalWorkouts"`
	YearsTraining  float64                 `bson:"yearsTraining" json:"yearsTraining"`
	Preferences    TrainingPreferences     `bson:"preferences" json:"preferences"`
}

type Injury struct {
	ID                       string            `bson:"id" json:"id"`
	Type                     string            `bson:"type" json:"type"` // e.g. "lower_back_strain"
	Severity                 InjurySeverity    `bson:"severity" json:"severity"`
	Status                   InjuryStatus      `bson:"status" json:"status"`
	AffectedJoints           []string          `bson:"affectedJoints,omitempty" json:"affectedJoints,omitempty"`
	ContraindicatedMovements []MovementPattern `bson:"contraindicatedMovements,omitempty" json:"contraindicatedMovements,omitempty"`
	OnsetDate                *time.Time        `bson:"onsetDate,omitempty" json:"onsetDate,omitempty"`
}

func (i Injury) IsActive() bool { return i.Status == InjuryActive }

type HealthProfile struct {
	Age               int               `bson:"age,omitempty" json:"age,omitempty"`
	Sex               string            `bson:"sex,omitempty" json:"sex,omitempty"`
	Injuries          []Injury          `bson:"injuries,omitempty" json:"injuries,omitempty"`
	Limitations       []string          `bson:"limitations,omitempty" json:"limitations,omitempty"`             // general conditions, matched against exercise condition types
	Contraindications []MovementPattern `bson:"contraindications,omitempty" json:"contraindications,omitempty"` // explicit "never prescribe" patterns
	Pregnant          bool              `bson:"pregnant,omitempty" json:"pregnant,omitempty"`
	SleepQuality      int               `bson:"sleepQuality,omitempty" json:"sleepQuality,omitempty"` // 1-5
	StressLevel       int               `bson:"stressLevel,omitempty" json:"stressLevel,omitempty"`   // 1-5
	Occupation        string            `bson:"occupation,omitempty" json:"occupation,omitempty"`     // "sedentary", "active", "manual"
}

// ActiveInjuries returns injuries whose status is active.
func (h *HealthProfile) ActiveInjuries() []Injury {
	if h == nil {
		return nil
	}
	var out []Injury
	for _, inj := range h.Injuries {
		if inj.IsActive() {
			out = append(out, inj)
		}
	}
	return out
}

// RecoveryScore is computed elsewhere and consumed as an opaque input.
type RecoveryScore struct {
	Score                int                    `bson:"score" json:"score"` // 0-100
	Classification       RecoveryClassification `bson:"classification" json:"classification"`
	RecommendedIntensity string                 `bson:"recommendedIntensity,omitempty" json:"recommendedIntensity,omitempty"`
	ComputedAt           time.Time              `bson:"computedAt" json:"computedAt"`
}

// UserProfile is the long-lived part of a user's context, owned by the host.
type UserProfile struct {
	UserID       string           `bson:"_id" json:"userId"`
	Biomechanics *Biomechanics    `bson:"biomechanics,omitempty" json:"biomechanics,omitempty"`
	Training     *TrainingProfile `bson:"training,omitempty" json:"training,omitempty"`
	Health       *HealthProfile   `bson:"health,omitempty" json:"health,omitempty"`
	UpdatedAt    time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// UserContext is the per-request snapshot the engine scores against.
type UserContext struct {
	UserID       string           `json:"userId"`
	Biomechanics *Biomechanics    `json:"biomechanics,omitempty"`
	Training     *TrainingProfile `json:"training,omitempty"`
	Health       *HealthProfile   `json:"health,omitempty"`

	// --- Request-scoped ---
	AvailableEquipment []string       `json:"availableEquipment"`
	Location           Location       `json:"location,omitempty"`
	TimeAvailable      int            `json:"timeAvailable"` // minutes
	Goals              []Goal         `json:"goals"`
	Phase              TrainingPhase  `json:"phase,omitempty"`
	Recovery           *RecoveryScore `json:"recoveryScore,omitempty"`
}

// PrimaryGoal returns the first goal, or general fitness when none were given.
func (u *UserContext) PrimaryGoal() Goal {
	if len(u.Goals) == 0 {
		return GoalGeneralFitness
	}
	return u.Goals[0]
}

// Experience defaults to beginner when no training profile is known.
func (u *UserContext) Experience() ExperienceLevel {
	if u.Training == nil || !u.Training.Experience.Valid() {
		return ExperienceBeginner
	}
	return u.Training.Experience
}

func (u *UserContext) RecoveryClass() RecoveryClassification {
	if u.Recovery == nil || !u.Recovery.Classification.Valid() {
		return RecoveryGood
	}
	return u.Recovery.Classification
}

func (u *UserContext) Age() int {
	if u.Health == nil {
		return 0
	}
	return u.Health.Age
}

// ContextFromProfile copies the long-lived profile sections into a fresh context.
func ContextFromProfile(p *UserProfile) *UserContext {
	if p == nil {
		return &UserContext{}
	}
	return &UserContext{
		UserID:       p.UserID,
		Biomechanics: p.Biomechanics,
		Training:     p.Training,
		Health:       p.Health,
	}
}
