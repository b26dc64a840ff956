package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrleocoder/coderbds/internal/repository"
)

// EnsureIndexes creates the indexes the repositories rely on. Creating an
// index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		repository.CollUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repository.CollTransactions: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "transaction_type", Value: 1}}},
		},
		repository.CollMemberPosts: {
			{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		repository.CollProperties: {
			{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		repository.CollLands: {
			{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		repository.CollSims: {
			{Keys: bson.D{{Key: "network", Value: 1}, {Key: "price", Value: 1}}},
		},
		repository.CollNews: {
			{Keys: bson.D{{Key: "slug", Value: 1}}},
			{Keys: bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("EnsureIndexes %s: %w", coll, err)
		}
	}
	return nil
}
