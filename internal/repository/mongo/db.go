package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"musclemap/prescription-engine/internal/repository"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The initial connection can succeed while the server is unresponsive.
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection this package owns.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		name string
		fn   func(context.Context, *mongo.Collection) error
	}{
		{exerciseCollectionName, EnsureExerciseIndexes},
		{performanceCollectionName, EnsurePerformanceIndexes},
		{feedbackCollectionName, EnsureFeedbackIndexes},
		{prescriptionCollectionName, EnsurePrescriptionIndexes},
	}
	for _, s := range steps {
		if err := s.fn(ctx, db.Collection(s.name)); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}
	return nil
}

// NewStore wires every MongoDB repository against one database.
func NewStore(db *mongo.Database) repository.Store {
	return repository.Store{
		Exercises:     NewMongoExerciseRepository(db),
		Profiles:      NewMongoProfileRepository(db),
		Performance:   NewMongoPerformanceRepository(db),
		MuscleStats:   NewMongoMuscleStatsRepository(db),
		Weights:       NewMongoWeightsRepository(db),
		Feedback:      NewMongoFeedbackRepository(db),
		Prescriptions: NewMongoPrescriptionRepository(db),
	}
}
