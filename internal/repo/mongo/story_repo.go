package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

type storyDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	SelfSequenceID    int64              `bson:"selfBiodataId"`
	PartnerSequenceID int64              `bson:"partnerBiodataId"`
	CoupleImage       string             `bson:"coupleImage"`
	Review            string             `bson:"review"`
	Rating            int                `bson:"rating"`
	MarriageDate      time.Time          `bson:"marriageDate"`
	CreatedBy         string             `bson:"createdBy"`
	CreatedAt         time.Time          `bson:"createdAt"`
}

func (d storyDoc) toModel() model.SuccessStory {
	return model.SuccessStory{
		ID:                d.ID.Hex(),
		SelfSequenceID:    d.SelfSequenceID,
		PartnerSequenceID: d.PartnerSequenceID,
		CoupleImage:       d.CoupleImage,
		Review:            d.Review,
		Rating:            d.Rating,
		MarriageDate:      d.MarriageDate,
		CreatedBy:         d.CreatedBy,
		CreatedAt:         d.CreatedAt,
	}
}

type StoryRepo struct {
	coll *mongo.Collection
}

func NewStoryRepo(db *mongo.Database) *StoryRepo {
	if db == nil {
		return &StoryRepo{}
	}
	return &StoryRepo{coll: db.Collection(storiesCollection)}
}

func (r *StoryRepo) Insert(ctx context.Context, story model.SuccessStory) (model.SuccessStory, error) {
	if r.coll == nil {
		return model.SuccessStory{}, fmt.Errorf("mongo collection is nil")
	}

	doc := storyDoc{
		SelfSequenceID:    story.SelfSequenceID,
		PartnerSequenceID: story.PartnerSequenceID,
		CoupleImage:       story.CoupleImage,
		Review:            story.Review,
		Rating:            story.Rating,
		MarriageDate:      story.MarriageDate,
		CreatedBy:         story.CreatedBy,
		CreatedAt:         story.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return model.SuccessStory{}, fmt.Errorf("insert success story: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toModel(), nil
}

func (r *StoryRepo) List(ctx context.Context, limit int) ([]model.SuccessStory, error) {
	if r.coll == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	opts := options.Find().SetSort(bson.D{{Key: "marriageDate", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find success stories: %w", err)
	}

	var docs []storyDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode success stories: %w", err)
	}

	items := make([]model.SuccessStory, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}
