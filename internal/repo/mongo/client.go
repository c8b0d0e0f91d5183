package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection     = "users"
	biodatasCollection  = "biodatas"
	favoritesCollection = "favorites"
	storiesCollection   = "successStories"

	indexUserEmail       = "uniq_email"
	indexBiodataOwner    = "uniq_owner"
	indexBiodataSequence = "uniq_biodata_id"
	indexFavoritePair    = "uniq_owner_target"
)

func NewClient(ctx context.Context, uri string, connectTimeout time.Duration) (*mongo.Client, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return client, nil
}

func Ping(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return fmt.Errorf("mongo client is nil")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique indexes the stores rely on for
// duplicate detection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return fmt.Errorf("mongo database is nil")
	}

	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUserEmail)},
		},
		biodatasCollection: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexBiodataOwner)},
			{Keys: bson.D{{Key: "biodataId", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexBiodataSequence)},
			{Keys: bson.D{{Key: "premiumStatus", Value: 1}, {Key: "age", Value: 1}}, Options: options.Index().SetName("idx_premium_age")},
			{Keys: bson.D{{Key: "biodataType", Value: 1}, {Key: "age", Value: 1}}, Options: options.Index().SetName("idx_type_age")},
		},
		favoritesCollection: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "targetProfileId", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexFavoritePair)},
		},
		storiesCollection: {
			{Keys: bson.D{{Key: "marriageDate", Value: -1}}, Options: options.Index().SetName("idx_marriage_date")},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}

	return nil
}

func isDuplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

func pageBounds(page, limit int) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	return int64((page - 1) * limit), int64(limit)
}
