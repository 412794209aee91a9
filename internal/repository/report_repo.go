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

// ReportRepo handles MongoDB operations for reports
type ReportRepo interface {
	Create(ctx context.Context, report *model.Report) (string, error)
	GetByID(ctx context.Context, id string) (*model.Report, error)
	SetScore(ctx context.Context, id string, percent int) error
	CountByChecklist(ctx context.Context, checklistID string) (int, error)
	ListByChecklist(ctx context.Context, checklistID string, limit int) ([]*model.Report, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Report, error)
	ListAll(ctx context.Context) ([]*model.Report, error)
	ChecklistIDsSince(ctx context.Context, since time.Time) ([]string, error)
	CompletedChecklistIDs(ctx context.Context, userID string, since time.Time) ([]string, error)
	ShopMonthlyStats(ctx context.Context, since time.Time) ([]model.ShopMonthlyStat, error)
	CountByShopsSince(ctx context.Context, shops []string, since time.Time) (int, error)
	LastCreatedByShops(ctx context.Context, shops []string) (*time.Time, error)
	AvgNonZeroScore(ctx context.Context, checklistID string) (int, error)
	LastCreatedByChecklist(ctx context.Context, checklistID string) (*time.Time, error)
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{
		collection: db.Collection("reports"),
	}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) (string, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	report.ID = oid.Hex()
	return report.ID, nil
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var report model.Report
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	report.ID = id
	return &report, nil
}

// SetScore is the single write a report sees after creation.
func (r *reportRepo) SetScore(ctx context.Context, id string, percent int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"scorePercent": percent}})
	return err
}

func (r *reportRepo) CountByChecklist(ctx context.Context, checklistID string) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"checklistId": checklistID})
	return int(count), err
}

func (r *reportRepo) ListByChecklist(ctx context.Context, checklistID string, limit int) ([]*model.Report, error) {
	return r.list(ctx, bson.M{"checklistId": checklistID}, limit)
}

func (r *reportRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Report, error) {
	return r.list(ctx, bson.M{"userId": userID}, limit)
}

func (r *reportRepo) ListAll(ctx context.Context) ([]*model.Report, error) {
	return r.list(ctx, bson.M{}, 0)
}

func (r *reportRepo) list(ctx context.Context, filter bson.M, limit int) ([]*model.Report, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*model.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) ChecklistIDsSince(ctx context.Context, since time.Time) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "checklistId", bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		return nil, err
	}
	return toStrings(values), nil
}

func (r *reportRepo) CompletedChecklistIDs(ctx context.Context, userID string, since time.Time) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "checklistId", bson.M{
		"userId":    userID,
		"createdAt": bson.M{"$gte": since},
	})
	if err != nil {
		return nil, err
	}
	return toStrings(values), nil
}

// userLookup joins the report's userId (stored as the user's hex id)
// back to the users collection.
func userLookup() bson.M {
	return bson.M{
		"from": "users",
		"let":  bson.M{"uid": "$userId"},
		"pipeline": bson.A{
			bson.M{"$match": bson.M{"$expr": bson.M{
				"$eq": bson.A{bson.M{"$toString": "$_id"}, "$$uid"},
			}}},
		},
		"as": "user",
	}
}

func (r *reportRepo) ShopMonthlyStats(ctx context.Context, since time.Time) ([]model.ShopMonthlyStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$lookup", Value: userLookup()}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$user.shopId",
			"avgScore":    bson.M{"$avg": "$scorePercent"},
			"reportCount": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []model.ShopMonthlyStat
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *reportRepo) CountByShopsSince(ctx context.Context, shops []string, since time.Time) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$lookup", Value: userLookup()}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$match", Value: bson.M{"user.shopId": bson.M{"$in": shops}}}},
		{{Key: "$count", Value: "count"}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		Count int `bson:"count"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Count, nil
}

func (r *reportRepo) LastCreatedByShops(ctx context.Context, shops []string) (*time.Time, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: userLookup()}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$match", Value: bson.M{"user.shopId": bson.M{"$in": shops}}}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
		{{Key: "$limit", Value: 1}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []model.Report
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0].CreatedAt, nil
}

func (r *reportRepo) AvgNonZeroScore(ctx context.Context, checklistID string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"checklistId":  checklistID,
			"scorePercent": bson.M{"$gt": 0},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"avgScore": bson.M{"$avg": "$scorePercent"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		AvgScore float64 `bson:"avgScore"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return int(out[0].AvgScore), nil
}

func (r *reportRepo) LastCreatedByChecklist(ctx context.Context, checklistID string) (*time.Time, error) {
	opts := options.FindOne().SetSort(bson.M{"createdAt": -1})

	var report model.Report
	err := r.collection.FindOne(ctx, bson.M{"checklistId": checklistID}, opts).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report.CreatedAt, nil
}
