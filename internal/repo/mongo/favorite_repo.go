package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

type favoriteDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID           string             `bson:"ownerId"`
	TargetProfileID   string             `bson:"targetProfileId"`
	TargetSequenceID  int64              `bson:"targetSequenceId"`
	Name              string             `bson:"name"`
	ProfileImage      string             `bson:"profileImage"`
	Age               int                `bson:"age"`
	Occupation        string             `bson:"occupation"`
	PermanentDivision string             `bson:"permanentDivision"`
	AddedAt           time.Time          `bson:"addedAt"`
}

func (d favoriteDoc) toModel() model.Favorite {
	return model.Favorite{
		ID:                d.ID.Hex(),
		OwnerID:           d.OwnerID,
		TargetProfileID:   d.TargetProfileID,
		TargetSequenceID:  d.TargetSequenceID,
		Name:              d.Name,
		ProfileImage:      d.ProfileImage,
		Age:               d.Age,
		Occupation:        d.Occupation,
		PermanentDivision: d.PermanentDivision,
		AddedAt:           d.AddedAt,
	}
}

type FavoriteRepo struct {
	coll *mongo.Collection
}

func NewFavoriteRepo(db *mongo.Database) *FavoriteRepo {
	if db == nil {
		return &FavoriteRepo{}
	}
	return &FavoriteRepo{coll: db.Collection(favoritesCollection)}
}

func (r *FavoriteRepo) Insert(ctx context.Context, fav model.Favorite) (model.Favorite, error) {
	if r.coll == nil {
		return model.Favorite{}, fmt.Errorf("mongo collection is nil")
	}

	doc := favoriteDoc{
		OwnerID:           fav.OwnerID,
		TargetProfileID:   fav.TargetProfileID,
		TargetSequenceID:  fav.TargetSequenceID,
		Name:              fav.Name,
		ProfileImage:      fav.ProfileImage,
		Age:               fav.Age,
		Occupation:        fav.Occupation,
		PermanentDivision: fav.PermanentDivision,
		AddedAt:           fav.AddedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if isDuplicateOn(err, indexFavoritePair) {
			return model.Favorite{}, apperr.ErrDuplicateFavorite
		}
		return model.Favorite{}, fmt.Errorf("insert favorite: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toModel(), nil
}

func (r *FavoriteRepo) Exists(ctx context.Context, ownerID, targetProfileID string) (bool, error) {
	if r.coll == nil {
		return false, fmt.Errorf("mongo collection is nil")
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"ownerId": ownerID, "targetProfileId": targetProfileID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count favorite: %w", err)
	}
	return n > 0, nil
}

func (r *FavoriteRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Favorite, error) {
	if r.coll == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	cursor, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID}, options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	return decodeFavorites(ctx, cursor)
}

// DeleteOwned removes a favorite only if it belongs to ownerID.
func (r *FavoriteRepo) DeleteOwned(ctx context.Context, ownerID, favoriteID string) error {
	if r.coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	oid, err := primitive.ObjectIDFromHex(favoriteID)
	if err != nil {
		return apperr.ErrFavoriteNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": ownerID})
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.ErrFavoriteNotFound
	}
	return nil
}

// ListBatch pages through favorites in id order for the orphan sweep.
func (r *FavoriteRepo) ListBatch(ctx context.Context, afterID string, limit int) ([]model.Favorite, error) {
	if r.coll == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	filter := bson.M{}
	if afterID != "" {
		oid, err := primitive.ObjectIDFromHex(afterID)
		if err != nil {
			return nil, fmt.Errorf("parse cursor id: %w", err)
		}
		filter["_id"] = bson.M{"$gt": oid}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find favorites batch: %w", err)
	}
	return decodeFavorites(ctx, cursor)
}

func (r *FavoriteRepo) DeleteByTargets(ctx context.Context, targetProfileIDs []string) (int64, error) {
	if r.coll == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	if len(targetProfileIDs) == 0 {
		return 0, nil
	}

	res, err := r.coll.DeleteMany(ctx, bson.M{"targetProfileId": bson.M{"$in": targetProfileIDs}})
	if err != nil {
		return 0, fmt.Errorf("delete orphan favorites: %w", err)
	}
	return res.DeletedCount, nil
}

func decodeFavorites(ctx context.Context, cursor *mongo.Cursor) ([]model.Favorite, error) {
	var docs []favoriteDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}

	items := make([]model.Favorite, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}
