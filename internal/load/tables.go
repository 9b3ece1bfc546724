package load

import "musclemap/prescription-engine/internal/domain"

type goalBase struct {
	sets int
	reps domain.RepScheme
	rpe  float64
	rest int // seconds
}

var goalBases = map[domain.Goal]goalBase{
	domain.GoalStrength:       {sets: 4, reps: domain.Reps(5), rpe: 8, rest: 180},
	domain.GoalHypertrophy:    {sets: 3, reps: domain.RepRange(8, 12), rpe: 7.5, rest: 90},
	domain.GoalPower:          {sets: 5, reps: domain.Reps(3), rpe: 8, rest: 180},
	domain.GoalEndurance:      {sets: 3, reps: domain.RepRange(15, 20), rpe: 6.5, rest: 45},
	domain.GoalFatLoss:        {sets: 3, reps: domain.RepRange(12, 15), rpe: 7, rest: 45},
	domain.GoalMobility:       {sets: 2, reps: domain.HoldSeconds(30, 60), rpe: 5, rest: 30},
	domain.GoalRehabilitation: {sets: 2, reps: domain.RepRange(12, 15), rpe: 5, rest: 60},
	domain.GoalGeneralFitness: {sets: 3, reps: domain.Reps(10), rpe: 7, rest: 75},
}

type phaseMultiplier struct {
	volume, intensity, rest float64
}

var phaseMultipliers = map[domain.TrainingPhase]phaseMultiplier{
	domain.PhaseAccumulation:    {volume: 1.2, intensity: 0.95, rest: 0.9},
	domain.PhaseIntensification: {volume: 1.0, intensity: 1.05, rest: 1.1},
	domain.PhaseRealization:     {volume: 0.7, intensity: 1.1, rest: 1.25},
	domain.PhaseDeload:          {volume: 0.5, intensity: 0.75, rest: 1.0},
	domain.PhaseMaintenance:     {volume: 0.85, intensity: 1.0, rest: 1.0},
}

type recoveryAdjustment struct {
	sets, rpeDelta, rest float64
}

var recoveryAdjustments = map[domain.RecoveryClassification]recoveryAdjustment{
	domain.RecoveryPoor:      {sets: 0.6, rpeDelta: -2, rest: 1.3},
	domain.RecoveryFair:      {sets: 0.8, rpeDelta: -1, rest: 1.15},
	domain.RecoveryGood:      {sets: 1, rpeDelta: 0, rest: 1},
	domain.RecoveryExcellent: {sets: 1, rpeDelta: 0.5, rest: 0.9},
}

// %1RM by rep count (rows) and RPE 6..10 in half steps (columns).
var (
	tableReps = [...]int{1, 2, 3, 4, 5, 6, 8, 10, 12, 15}
	tableRPE  = [...]float64{6, 6.5, 7, 7.5, 8, 8.5, 9, 9.5, 10}

	percentTable = [len(tableReps)][len(tableRPE)]float64{
		//  @6   @6.5    @7  @7.5    @8  @8.5    @9  @9.5    @10
		{86.3, 87.8, 89.2, 90.7, 92.2, 93.9, 95.5, 97.8, 100.0}, // 1
		{83.7, 85.0, 86.3, 87.8, 89.2, 90.7, 92.2, 93.9, 95.5},  // 2
		{81.1, 82.4, 83.7, 85.0, 86.3, 87.8, 89.2, 90.7, 92.2},  // 3
		{78.6, 79.9, 81.1, 82.4, 83.7, 85.0, 86.3, 87.8, 89.2},  // 4
		{76.2, 77.4, 78.6, 79.9, 81.1, 82.4, 83.7, 85.0, 86.3},  // 5
		{73.9, 75.1, 76.2, 77.4, 78.6, 79.9, 81.1, 82.4, 83.7},  // 6
		{68.0, 69.4, 70.7, 72.3, 73.9, 75.1, 76.2, 77.4, 78.6},  // 8
		{62.6, 64.0, 65.3, 66.7, 68.0, 69.4, 70.7, 72.3, 73.9},  // 10
		{57.4, 58.7, 59.9, 61.3, 62.6, 64.0, 65.3, 66.7, 68.0},  // 12
		{50.3, 51.5, 52.6, 53.8, 55.0, 56.2, 57.4, 58.7, 59.9},  // 15
	}
)

// hypertrophy tempo, eccentric-pauseBottom-concentric-pauseTop
var hypertrophyTempo = map[domain.MovementPattern]string{
	domain.PatternSquat:          "3-1-1-0",
	domain.PatternHipHinge:       "3-1-1-0",
	domain.PatternLunge:          "3-1-1-0",
	domain.PatternHorizontalPush: "3-0-1-0",
	domain.PatternVerticalPush:   "3-0-1-0",
	domain.PatternHorizontalPull: "2-1-1-1",
	domain.PatternVerticalPull:   "2-1-1-1",
	domain.PatternIsolation:      "3-0-2-1",
	domain.PatternFlexion:        "3-0-2-1",
	domain.PatternExtension:      "3-0-2-1",
}

const defaultTempo = "2-0-2-0"

// AgonistAntagonistPairs are the movement-pattern pairs that superset with minimal rest.
var AgonistAntagonistPairs = [][2]domain.MovementPattern{
	{domain.PatternHorizontalPush, domain.PatternHorizontalPull},
	{domain.PatternVerticalPush, domain.PatternVerticalPull},
	{domain.PatternSquat, domain.PatternHipHinge},
	{domain.PatternFlexion, domain.PatternExtension},
	{domain.PatternRotation, domain.PatternAntiRotation},
}
