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

const (
	profileCollectionName  = "user_profiles"
	recoveryCollectionName = "recovery_scores"
)

// mongoProfileRepository implements the repository.ProfileRepository interface using MongoDB.
type mongoProfileRepository struct {
	profiles *mongo.Collection
	recovery *mongo.Collection
}

// NewMongoProfileRepository creates a new instance of mongoProfileRepository.
// It expects a connected *mongo.Database instance.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		profiles: db.Collection(profileCollectionName),
		recovery: db.Collection(recoveryCollectionName),
	}
}

// GetProfile retrieves a user's long-lived profile.
func (r *mongoProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *mongoProfileRepository) UpsertProfile(ctx context.Context, profile *domain.UserProfile) error {
	if profile.UserID == "" {
		return repository.ErrInvalidID
	}
	profile.UpdatedAt = time.Now().UTC()
	_, err := r.profiles.ReplaceOne(ctx, bson.M{"_id": profile.UserID}, profile, options.Replace().SetUpsert(true))
	return err
}

// recoveryDocument keeps only the latest score per user.
type recoveryDocument struct {
	UserID string               `bson:"_id"`
	Score  domain.RecoveryScore `bson:"score"`
}

// GetRecoveryScore returns the latest recovery score recorded for the user.
func (r *mongoProfileRepository) GetRecoveryScore(ctx context.Context, userID string) (*domain.RecoveryScore, error) {
	var doc recoveryDocument
	err := r.recovery.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc.Score, nil
}

func (r *mongoProfileRepository) SaveRecoveryScore(ctx context.Context, userID string, score *domain.RecoveryScore) error {
	if userID == "" {
		return repository.ErrInvalidID
	}
	doc := recoveryDocument{UserID: userID, Score: *score}
	_, err := r.recovery.ReplaceOne(ctx, bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	return err
}
