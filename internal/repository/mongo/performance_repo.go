package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/repository"
)

const performanceCollectionName = "exercise_performance"

// mongoPerformanceRepository implements repository.PerformanceRepository
type mongoPerformanceRepository struct {
	collection *mongo.Collection
}

// NewMongoPerformanceRepository creates a new performance repository backed by MongoDB.
func NewMongoPerformanceRepository(db *mongo.Database) repository.PerformanceRepository {
	return &mongoPerformanceRepository{
		collection: db.Collection(performanceCollectionName),
	}
}

// ListByUser retrieves every exercise record for a user.
func (r *mongoPerformanceRepository) ListByUser(ctx context.Context, userID string) ([]*domain.UserExercisePerformance, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domain.UserExercisePerformance
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	// Check for cursor errors after iteration
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoPerformanceRepository) Get(ctx context.Context, userID, exerciseID string) (*domain.UserExercisePerformance, error) {
	var perf domain.UserExercisePerformance
	filter := bson.M{"userId": userID, "exerciseId": exerciseID}
	err := r.collection.FindOne(ctx, filter).Decode(&perf)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &perf, nil
}

// Upsert writes the full record keyed by (userId, exerciseId).
func (r *mongoPerformanceRepository) Upsert(ctx context.Context, perf *domain.UserExercisePerformance) error {
	if perf.UserID == "" || perf.ExerciseID == "" {
		return errors.New("performance requires userId and exerciseId")
	}
	perf.UpdatedAt = time.Now().UTC()
	filter := bson.M{"userId": perf.UserID, "exerciseId": perf.ExerciseID}
	_, err := r.collection.ReplaceOne(ctx, filter, perf, options.Replace().SetUpsert(true))
	return err
}

// EnsurePerformanceIndexes creates necessary indexes for the performance collection.
func EnsurePerformanceIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One record per user x exercise
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
