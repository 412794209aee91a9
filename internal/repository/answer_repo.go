package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopcheck/internal/model"
)

// AnswerRepo handles MongoDB operations for answers. Answers are
// append-only: the interface deliberately has no update or delete.
type AnswerRepo interface {
	Create(ctx context.Context, answer *model.Answer) (string, error)
	ListByReport(ctx context.Context, reportID string) ([]*model.Answer, error)
	SumPoints(ctx context.Context, reportID string) (int, error)
}

type answerRepo struct {
	collection *mongo.Collection
}

// NewAnswerRepo creates a new answer repository
func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{
		collection: db.Collection("answers"),
	}
}

func (r *answerRepo) Create(ctx context.Context, answer *model.Answer) (string, error) {
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, answer)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	answer.ID = oid.Hex()
	return answer.ID, nil
}

func (r *answerRepo) ListByReport(ctx context.Context, reportID string) ([]*model.Answer, error) {
	opts := options.Find().SetSort(bson.M{"answeredAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"reportId": reportID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []*model.Answer
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// SumPoints totals the points of every answer bound to the report.
// Answers of soft-deleted questions still count; history is never
// filtered at scoring time.
func (r *answerRepo) SumPoints(ctx context.Context, reportID string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"reportId": reportID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$points"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}
