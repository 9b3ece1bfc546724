package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/repository"
)

const muscleStatsCollectionName = "muscle_stats"

// mongoMuscleStatsRepository implements repository.MuscleStatsRepository.
// Each user has one document holding a muscle -> volume map.
type mongoMuscleStatsRepository struct {
	collection *mongo.Collection
}

func NewMongoMuscleStatsRepository(db *mongo.Database) repository.MuscleStatsRepository {
	return &mongoMuscleStatsRepository{
		collection: db.Collection(muscleStatsCollectionName),
	}
}

type muscleStatsDocument struct {
	UserID    string              `bson:"_id"`
	Volume    domain.MuscleVolume `bson:"volume"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

// AddVolume increments each muscle's volume atomically, creating the document on first use.
func (r *mongoMuscleStatsRepository) AddVolume(ctx context.Context, userID string, delta domain.MuscleVolume) error {
	if userID == "" {
		return repository.ErrInvalidID
	}
	inc := bson.M{}
	for muscle, v := range delta {
		// field paths cannot carry these characters
		if muscle == "" || strings.ContainsAny(muscle, ".$") {
			continue
		}
		inc["volume."+muscle] = v
	}
	if len(inc) == 0 {
		return nil
	}
	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

// GetVolume returns an empty map for users without logged sets.
func (r *mongoMuscleStatsRepository) GetVolume(ctx context.Context, userID string) (domain.MuscleVolume, error) {
	var doc muscleStatsDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.MuscleVolume{}, nil
		}
		return nil, err
	}
	if doc.Volume == nil {
		doc.Volume = domain.MuscleVolume{}
	}
	return doc.Volume, nil
}
