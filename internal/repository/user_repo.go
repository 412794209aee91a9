package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopcheck/internal/model"
)

// UserRepo handles MongoDB operations for users and admin-shop links
type UserRepo interface {
	Create(ctx context.Context, user *model.User) (string, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByChatID(ctx context.Context, chatID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	ListByShop(ctx context.Context, shopID string) ([]*model.User, error)
	DistinctPositions(ctx context.Context) ([]string, error)
	DistinctWorkerShops(ctx context.Context) ([]string, error)

	AttachShop(ctx context.Context, adminChatID int64, shopName string) error
	ListAdminShops(ctx context.Context, adminChatID int64) ([]string, error)
	DetachAllShops(ctx context.Context, adminChatID int64) error
}

type userRepo struct {
	users      *mongo.Collection
	adminShops *mongo.Collection
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{
		users:      db.Collection("users"),
		adminShops: db.Collection("admin_shops"),
	}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) (string, error) {
	// chatId is the conversation identity; one user per chat
	existing, err := r.GetByChatID(ctx, user.ChatID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	result, err := r.users.InsertOne(ctx, user)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	user.ID = oid.Hex()
	return user.ID, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

func (r *userRepo) GetByChatID(ctx context.Context, chatID int64) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"chatId": chatID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"chatId":   user.ChatID,
		"fullName": user.FullName,
		"role":     user.Role,
		"shopId":   user.ShopID,
		"position": user.Position,
	}}
	_, err = r.users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.users.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *userRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.M{"fullName": 1})
	cursor, err := r.users.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) ListByShop(ctx context.Context, shopID string) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.M{"fullName": 1})
	cursor, err := r.users.Find(ctx, bson.M{"shopId": shopID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) DistinctPositions(ctx context.Context) ([]string, error) {
	values, err := r.users.Distinct(ctx, "position", bson.M{"role": model.RoleWorker})
	if err != nil {
		return nil, err
	}
	return toStrings(values), nil
}

func (r *userRepo) DistinctWorkerShops(ctx context.Context) ([]string, error) {
	values, err := r.users.Distinct(ctx, "shopId", bson.M{
		"role":   model.RoleWorker,
		"shopId": bson.M{"$ne": ""},
	})
	if err != nil {
		return nil, err
	}
	return toStrings(values), nil
}

func (r *userRepo) AttachShop(ctx context.Context, adminChatID int64, shopName string) error {
	filter := bson.M{"adminChatId": adminChatID, "shopName": shopName}
	update := bson.M{"$setOnInsert": filter}
	opts := options.Update().SetUpsert(true)
	_, err := r.adminShops.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *userRepo) ListAdminShops(ctx context.Context, adminChatID int64) ([]string, error) {
	cursor, err := r.adminShops.Find(ctx, bson.M{"adminChatId": adminChatID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []model.AdminShop
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	shops := make([]string, 0, len(links))
	for _, l := range links {
		shops = append(shops, l.ShopName)
	}
	return shops, nil
}

func (r *userRepo) DetachAllShops(ctx context.Context, adminChatID int64) error {
	_, err := r.adminShops.DeleteMany(ctx, bson.M{"adminChatId": adminChatID})
	return err
}

func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
