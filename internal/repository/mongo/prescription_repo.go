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

const prescriptionCollectionName = "prescriptions"

// mongoPrescriptionRepository implements repository.PrescriptionRepository
type mongoPrescriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoPrescriptionRepository creates a new prescription repository.
func NewMongoPrescriptionRepository(db *mongo.Database) repository.PrescriptionRepository {
	return &mongoPrescriptionRepository{
		collection: db.Collection(prescriptionCollectionName),
	}
}

// Create inserts a generated prescription. The id is assigned by the caller.
func (r *mongoPrescriptionRepository) Create(ctx context.Context, p *domain.PrescriptionResult) error {
	if p.ID == "" || p.UserID == "" {
		return errors.New("prescription requires id and userId")
	}
	_, err := r.collection.InsertOne(ctx, p)
	return err
}

// GetByID retrieves a prescription by its ID.
func (r *mongoPrescriptionRepository) GetByID(ctx context.Context, id string) (*domain.PrescriptionResult, error) {
	var p domain.PrescriptionResult
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// EnsurePrescriptionIndexes creates necessary indexes for the prescriptions collection.
func EnsurePrescriptionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
