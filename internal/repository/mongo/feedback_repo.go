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

const feedbackCollectionName = "prescription_feedback"

// mongoFeedbackRepository implements repository.FeedbackRepository
type mongoFeedbackRepository struct {
	collection    *mongo.Collection
	prescriptions *mongo.Collection
}

// NewMongoFeedbackRepository creates a new feedback repository backed by MongoDB.
func NewMongoFeedbackRepository(db *mongo.Database) repository.FeedbackRepository {
	return &mongoFeedbackRepository{
		collection:    db.Collection(feedbackCollectionName),
		prescriptions: db.Collection(prescriptionCollectionName),
	}
}

// Create inserts a new feedback record as submitted.
func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *domain.PrescriptionFeedback) error {
	if feedback.ID == "" || feedback.UserID == "" || feedback.PrescriptionID == "" {
		return errors.New("feedback requires id, userId and prescriptionId")
	}
	if feedback.SubmittedAt.IsZero() {
		feedback.SubmittedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, feedback)
	return err
}

// ListSinceWithPrescriptions loads the feedback window, then resolves the
// referenced prescriptions with a single $in query.
func (r *mongoFeedbackRepository) ListSinceWithPrescriptions(ctx context.Context, userID string, since time.Time) ([]domain.FeedbackWithPrescription, error) {
	filter := bson.M{"userId": userID, "submittedAt": bson.M{"$gte": since}}
	findOptions := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feedback []domain.PrescriptionFeedback
	if err = cursor.All(ctx, &feedback); err != nil {
		return nil, err
	}
	if len(feedback) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(feedback))
	for _, f := range feedback {
		ids = append(ids, f.PrescriptionID)
	}
	pcur, err := r.prescriptions.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer pcur.Close(ctx)

	var prescriptions []domain.PrescriptionResult
	if err = pcur.All(ctx, &prescriptions); err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.PrescriptionResult, len(prescriptions))
	for i := range prescriptions {
		byID[prescriptions[i].ID] = &prescriptions[i]
	}

	out := make([]domain.FeedbackWithPrescription, 0, len(feedback))
	for _, f := range feedback {
		out = append(out, domain.FeedbackWithPrescription{Feedback: f, Prescription: byID[f.PrescriptionID]})
	}
	return out, nil
}

// EnsureFeedbackIndexes creates necessary indexes for the feedback collection.
func EnsureFeedbackIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Learning window scans
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "submittedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "prescriptionId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
