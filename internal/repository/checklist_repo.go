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

// ChecklistRepo handles MongoDB operations for checklist templates
type ChecklistRepo interface {
	Create(ctx context.Context, checklist *model.Checklist) (string, error)
	GetByID(ctx context.Context, id string) (*model.Checklist, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Checklist, error)
	Update(ctx context.Context, checklist *model.Checklist) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.Checklist, error)
	ListByShops(ctx context.Context, shops []string) ([]*model.Checklist, error)
	ListForWorker(ctx context.Context, shopID, position string) ([]*model.Checklist, error)
	CountByShops(ctx context.Context, shops []string) (int, error)
}

type checklistRepo struct {
	collection *mongo.Collection
}

// NewChecklistRepo creates a new checklist repository
func NewChecklistRepo(db *mongo.Database) ChecklistRepo {
	return &checklistRepo{
		collection: db.Collection("checklists"),
	}
}

func (r *checklistRepo) Create(ctx context.Context, checklist *model.Checklist) (string, error) {
	checklist.CreatedAt = time.Now()
	checklist.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, checklist)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	checklist.ID = oid.Hex()
	return checklist.ID, nil
}

func (r *checklistRepo) GetByID(ctx context.Context, id string) (*model.Checklist, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var checklist model.Checklist
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&checklist)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	checklist.ID = id
	return &checklist, nil
}

func (r *checklistRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Checklist, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checklists []*model.Checklist
	if err := cursor.All(ctx, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

func (r *checklistRepo) Update(ctx context.Context, checklist *model.Checklist) error {
	oid, err := primitive.ObjectIDFromHex(checklist.ID)
	if err != nil {
		return err
	}

	checklist.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":          checklist.Title,
		"shopId":         checklist.ShopID,
		"targetPosition": checklist.TargetPosition,
		"updatedAt":      checklist.UpdatedAt,
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *checklistRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *checklistRepo) List(ctx context.Context) ([]*model.Checklist, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checklists []*model.Checklist
	if err := cursor.All(ctx, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

func (r *checklistRepo) ListByShops(ctx context.Context, shops []string) ([]*model.Checklist, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"shopId": bson.M{"$in": shops}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checklists []*model.Checklist
	if err := cursor.All(ctx, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

// ListForWorker applies the assignment filter: a checklist matches when
// its shop is unset or equals the worker's shop, and its target position
// is unset or equals the worker's position.
func (r *checklistRepo) ListForWorker(ctx context.Context, shopID, position string) ([]*model.Checklist, error) {
	filter := bson.M{
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"shopId": shopID},
				bson.M{"shopId": bson.M{"$in": bson.A{"", nil}}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"targetPosition": position},
				bson.M{"targetPosition": bson.M{"$in": bson.A{"", nil}}},
			}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checklists []*model.Checklist
	if err := cursor.All(ctx, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

func (r *checklistRepo) CountByShops(ctx context.Context, shops []string) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"shopId": bson.M{"$in": shops}})
	return int(count), err
}
