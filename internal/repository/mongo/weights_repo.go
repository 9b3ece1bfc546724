package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/repository"
)

const weightsCollectionName = "adaptive_weights"

type mongoWeightsRepository struct {
	collection *mongo.Collection
}

// NewMongoWeightsRepository creates a repository for learned per-user weights.
func NewMongoWeightsRepository(db *mongo.Database) repository.WeightsRepository {
	return &mongoWeightsRepository{
		collection: db.Collection(weightsCollectionName),
	}
}

func (r *mongoWeightsRepository) Get(ctx context.Context, userID string) (*domain.AdaptiveUserWeights, error) {
	var w domain.AdaptiveUserWeights
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Upsert replaces the user's weights document.
func (r *mongoWeightsRepository) Upsert(ctx context.Context, w *domain.AdaptiveUserWeights) error {
	if w.UserID == "" {
		return repository.ErrInvalidID
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": w.UserID}, w, options.Replace().SetUpsert(true))
	return err
}
