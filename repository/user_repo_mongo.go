package repository

import (
	"context"
	"errors"
	"time"

	"invoicepro/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepo struct {
	DB *mongo.Database
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{DB: db}
}

// nextID hands out increasing numeric ids from the counters collection so
// users keep the same id shape as in Postgres.
func (r *MongoUserRepo) nextID(ctx context.Context) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := r.DB.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": "app_user"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	return out.Seq, err
}

func (r *MongoUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	user.ID = id

	_, err = r.DB.Collection("app_user").InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *MongoUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	user := &models.AppUser{}
	err := r.DB.Collection("app_user").FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
