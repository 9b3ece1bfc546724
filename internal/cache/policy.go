package cache

import "time"

// Entity is a cached entity type. Every key lives under exactly one entity.
type Entity string

const (
	EntityUserContext      Entity = "userContext"
	EntityExerciseMetadata Entity = "exerciseMetadata"
	EntityUserPerformance  Entity = "userPerformance"
	EntityMuscleStats      Entity = "muscleStats"
	EntityUserWeights      Entity = "userWeights"
	EntityRecoveryScore    Entity = "recoveryScore"
)

// Event is a named domain event that invalidates one or more entities.
type Event string

const (
	EventProfileUpdate      Event = "profile_update"
	EventInjuryUpdate       Event = "injury_update"
	EventLimitationUpdate   Event = "limitation_update"
	EventBiomechanicsUpdate Event = "biomechanics_update"
	EventExerciseUpdate     Event = "exercise_update"
	EventAdminExerciseEdit  Event = "admin_exercise_edit"
	EventWorkoutComplete    Event = "workout_complete"
	EventSetLogged          Event = "set_logged"
	EventFeedbackSubmitted  Event = "feedback_submitted"
	EventWeightUpdate       Event = "weight_update"
	EventSleepLogged        Event = "sleep_logged"
)

// Policy is the TTL pair and invalidation triggers of one entity type.
type Policy struct {
	DurableTTL time.Duration
	LocalTTL   time.Duration
	Events     []Event

	// CollectionKey caches the entity's full list. Dropping any single key
	// drops it too, since the list embeds every record.
	CollectionKey string
}

// CatalogKey holds the whole exercise catalog under exerciseMetadata.
const CatalogKey = "catalog"

var policies = map[Entity]Policy{
	EntityUserContext: {
		DurableTTL: 24 * time.Hour,
		LocalTTL:   time.Hour,
		Events:     []Event{EventProfileUpdate, EventInjuryUpdate, EventLimitationUpdate, EventBiomechanicsUpdate},
	},
	EntityExerciseMetadata: {
		DurableTTL: 7 * 24 * time.Hour,
		LocalTTL:   24 * time.Hour,
		Events:     []Event{EventExerciseUpdate, EventAdminExerciseEdit},

		CollectionKey: CatalogKey,
	},
	EntityUserPerformance: {
		DurableTTL: time.Hour,
		LocalTTL:   10 * time.Minute,
		Events:     []Event{EventWorkoutComplete, EventSetLogged},
	},
	EntityMuscleStats: {
		DurableTTL: time.Hour,
		LocalTTL:   10 * time.Minute,
		Events:     []Event{EventWorkoutComplete},
	},
	EntityUserWeights: {
		DurableTTL: 24 * time.Hour,
		LocalTTL:   time.Hour,
		Events:     []Event{EventFeedbackSubmitted, EventWeightUpdate},
	},
	EntityRecoveryScore: {
		DurableTTL: 6 * time.Hour,
		LocalTTL:   30 * time.Minute,
		Events:     []Event{EventSleepLogged, EventWorkoutComplete},
	},
}

// Entities lists every entity type in a stable order.
var Entities = []Entity{
	EntityUserContext, EntityExerciseMetadata, EntityUserPerformance,
	EntityMuscleStats, EntityUserWeights, EntityRecoveryScore,
}

// PolicyFor returns the policy of an entity type.
func PolicyFor(e Entity) (Policy, bool) {
	p, ok := policies[e]
	return p, ok
}

// EntitiesFor returns the entity types an event invalidates, in Entities order.
func EntitiesFor(ev Event) []Entity {
	var out []Entity
	for _, e := range Entities {
		for _, trigger := range policies[e].Events {
			if trigger == ev {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// KnownEvent reports whether any entity listens for ev.
func KnownEvent(ev Event) bool {
	return len(EntitiesFor(ev)) > 0
}
