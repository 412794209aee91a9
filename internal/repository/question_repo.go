package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopcheck/internal/model"
)

// QuestionRepo handles MongoDB operations for checklist questions.
// Deleting a question only flips isDeleted: historical answers keep
// referencing it, so there is no hard per-question delete.
type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) (string, error)
	GetByID(ctx context.Context, id string) (*model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	SoftDelete(ctx context.Context, id string) error
	ListActive(ctx context.Context, checklistID string) ([]model.Question, error)
	ListAll(ctx context.Context, checklistID string) ([]model.Question, error)
	CountActive(ctx context.Context, checklistID string) (int, error)
	DeleteByChecklist(ctx context.Context, checklistID string) error
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) (string, error) {
	result, err := r.collection.InsertOne(ctx, question)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	question.ID = oid.Hex()
	return question.ID, nil
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var question model.Question
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	question.ID = id
	return &question, nil
}

func (r *questionRepo) Update(ctx context.Context, question *model.Question) error {
	oid, err := primitive.ObjectIDFromHex(question.ID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"text":       question.Text,
		"type":       question.Type,
		"needsPhoto": question.NeedsPhoto,
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *questionRepo) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"isDeleted": true}})
	return err
}

func (r *questionRepo) ListActive(ctx context.Context, checklistID string) ([]model.Question, error) {
	return r.list(ctx, bson.M{"checklistId": checklistID, "isDeleted": false})
}

func (r *questionRepo) ListAll(ctx context.Context, checklistID string) ([]model.Question, error) {
	return r.list(ctx, bson.M{"checklistId": checklistID})
}

func (r *questionRepo) list(ctx context.Context, filter bson.M) ([]model.Question, error) {
	opts := options.Find().SetSort(bson.M{"order": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) CountActive(ctx context.Context, checklistID string) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"checklistId": checklistID, "isDeleted": false})
	return int(count), err
}

// DeleteByChecklist removes every question of a checklist. Only called
// when the checklist itself is deleted, which the service layer guards
// behind a zero-reports check.
func (r *questionRepo) DeleteByChecklist(ctx context.Context, checklistID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"checklistId": checklistID})
	return err
}
