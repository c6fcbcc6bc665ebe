package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	URL      string
	Database string
}

func NewMongoDB(url, database string) *MongoDB {
	return &MongoDB{URL: url, Database: database}
}

func (m *MongoDB) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URL))
	if err != nil {
		return err
	}
	m.Client = client
	return m.Client.Ping(ctx, nil)
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) DB() *mongo.Database {
	return m.Client.Database(m.Database)
}

// EnsureIndexes creates the unique indexes the user and drive collections
// rely on. It is the Mongo counterpart of the Postgres migrations.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := map[string]string{
		"app_user":     "email",
		"drive_folder": "name",
	}
	for coll, field := range unique {
		_, err := m.DB().Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("index %s.%s: %w", coll, field, err)
		}
	}
	return nil
}
