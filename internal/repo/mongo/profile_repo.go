package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

type contactDoc struct {
	Email        string `bson:"email"`
	MobileNumber string `bson:"mobileNumber"`
}

type profileDoc struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID               string             `bson:"ownerId"`
	SequenceID            int64              `bson:"biodataId"`
	BiodataType           string             `bson:"biodataType"`
	Name                  string             `bson:"name"`
	ProfileImage          string             `bson:"profileImage"`
	DateOfBirth           string             `bson:"dateOfBirth"`
	Age                   int                `bson:"age"`
	Height                string             `bson:"height"`
	Weight                string             `bson:"weight"`
	Occupation            string             `bson:"occupation"`
	Race                  string             `bson:"race"`
	FatherName            string             `bson:"fatherName"`
	MotherName            string             `bson:"motherName"`
	PermanentDivision     string             `bson:"permanentDivision"`
	PresentDivision       string             `bson:"presentDivision"`
	ExpectedPartnerAge    string             `bson:"expectedPartnerAge"`
	ExpectedPartnerHeight string             `bson:"expectedPartnerHeight"`
	ExpectedPartnerWeight string             `bson:"expectedPartnerWeight"`
	Contact               *contactDoc        `bson:"contactInfo,omitempty"`
	PremiumStatus         string             `bson:"premiumStatus,omitempty"`
	IsPremium             bool               `bson:"isPremium"`
	PremiumRequestedAt    *time.Time         `bson:"premiumRequestedAt,omitempty"`
	PremiumApprovedAt     *time.Time         `bson:"premiumApprovedAt,omitempty"`
	PremiumRejectedAt     *time.Time         `bson:"premiumRejectedAt,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt"`
}

func (d profileDoc) toModel() model.Profile {
	p := model.Profile{
		ID:                 d.ID.Hex(),
		OwnerID:            d.OwnerID,
		SequenceID:         d.SequenceID,
		PremiumStatus:      enums.PremiumStatus(d.PremiumStatus).Normalize(),
		IsPremium:          d.IsPremium,
		PremiumRequestedAt: d.PremiumRequestedAt,
		PremiumApprovedAt:  d.PremiumApprovedAt,
		PremiumRejectedAt:  d.PremiumRejectedAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	p.ProfileDetails = model.ProfileDetails{
		BiodataType:           enums.BiodataType(d.BiodataType),
		Name:                  d.Name,
		ProfileImage:          d.ProfileImage,
		DateOfBirth:           d.DateOfBirth,
		Age:                   d.Age,
		Height:                d.Height,
		Weight:                d.Weight,
		Occupation:            d.Occupation,
		Race:                  d.Race,
		FatherName:            d.FatherName,
		MotherName:            d.MotherName,
		PermanentDivision:     d.PermanentDivision,
		PresentDivision:       d.PresentDivision,
		ExpectedPartnerAge:    d.ExpectedPartnerAge,
		ExpectedPartnerHeight: d.ExpectedPartnerHeight,
		ExpectedPartnerWeight: d.ExpectedPartnerWeight,
	}
	if d.Contact != nil {
		p.Contact = &model.ContactInfo{Email: d.Contact.Email, MobileNumber: d.Contact.MobileNumber}
	}
	return p
}

// detailsSet is the $set document for owner edits. It never names the
// sequence id, owner or any premium field.
func detailsSet(details model.ProfileDetails, now time.Time) bson.M {
	set := bson.M{
		"biodataType":           string(details.BiodataType),
		"name":                  details.Name,
		"profileImage":          details.ProfileImage,
		"dateOfBirth":           details.DateOfBirth,
		"age":                   details.Age,
		"height":                details.Height,
		"weight":                details.Weight,
		"occupation":            details.Occupation,
		"race":                  details.Race,
		"fatherName":            details.FatherName,
		"motherName":            details.MotherName,
		"permanentDivision":     details.PermanentDivision,
		"presentDivision":       details.PresentDivision,
		"expectedPartnerAge":    details.ExpectedPartnerAge,
		"expectedPartnerHeight": details.ExpectedPartnerHeight,
		"expectedPartnerWeight": details.ExpectedPartnerWeight,
		"updatedAt":             now,
	}
	if details.Contact != nil {
		set["contactInfo"] = contactDoc{Email: details.Contact.Email, MobileNumber: details.Contact.MobileNumber}
	}
	return set
}

func newProfileDoc(p model.Profile) profileDoc {
	doc := profileDoc{
		OwnerID:               p.OwnerID,
		SequenceID:            p.SequenceID,
		BiodataType:           string(p.BiodataType),
		Name:                  p.Name,
		ProfileImage:          p.ProfileImage,
		DateOfBirth:           p.DateOfBirth,
		Age:                   p.Age,
		Height:                p.Height,
		Weight:                p.Weight,
		Occupation:            p.Occupation,
		Race:                  p.Race,
		FatherName:            p.FatherName,
		MotherName:            p.MotherName,
		PermanentDivision:     p.PermanentDivision,
		PresentDivision:       p.PresentDivision,
		ExpectedPartnerAge:    p.ExpectedPartnerAge,
		ExpectedPartnerHeight: p.ExpectedPartnerHeight,
		ExpectedPartnerWeight: p.ExpectedPartnerWeight,
		PremiumStatus:         string(enums.PremiumStatusNone),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	if p.Contact != nil {
		doc.Contact = &contactDoc{Email: p.Contact.Email, MobileNumber: p.Contact.MobileNumber}
	}
	return doc
}

type ProfileRepo struct {
	coll *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) *ProfileRepo {
	if db == nil {
		return &ProfileRepo{}
	}
	return &ProfileRepo{coll: db.Collection(biodatasCollection)}
}

// MaxSequence returns the highest assigned biodata id, or 0 when empty.
func (r *ProfileRepo) MaxSequence(ctx context.Context) (int64, error) {
	if r.coll == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}

	opts := options.FindOne().
		SetSort(bson.D{{Key: "biodataId", Value: -1}}).
		SetProjection(bson.M{"biodataId": 1})

	var doc profileDoc
	if err := r.coll.FindOne(ctx, bson.M{}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("find max biodata id: %w", err)
	}
	return doc.SequenceID, nil
}

func (r *ProfileRepo) Insert(ctx context.Context, profile model.Profile) (model.Profile, error) {
	if r.coll == nil {
		return model.Profile{}, fmt.Errorf("mongo collection is nil")
	}

	doc := newProfileDoc(profile)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		switch {
		case isDuplicateOn(err, indexBiodataOwner):
			return model.Profile{}, apperr.ErrProfileExists
		case isDuplicateOn(err, indexBiodataSequence):
			return model.Profile{}, apperr.ErrSequenceCollision
		default:
			return model.Profile{}, fmt.Errorf("insert biodata: %w", err)
		}
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toModel(), nil
}

func (r *ProfileRepo) UpdateDetails(ctx context.Context, ownerID string, details model.ProfileDetails, now time.Time) (model.Profile, error) {
	if r.coll == nil {
		return model.Profile{}, fmt.Errorf("mongo collection is nil")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc profileDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"ownerId": ownerID}, bson.M{"$set": detailsSet(details, now)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Profile{}, apperr.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("update biodata: %w", err)
	}
	return doc.toModel(), nil
}

func (r *ProfileRepo) GetByOwner(ctx context.Context, ownerID string) (model.Profile, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID})
}

func (r *ProfileRepo) GetBySequence(ctx context.Context, sequenceID int64) (model.Profile, error) {
	return r.findOne(ctx, bson.M{"biodataId": sequenceID})
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (model.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Profile{}, apperr.ErrProfileNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ProfileRepo) findOne(ctx context.Context, filter bson.M) (model.Profile, error) {
	if r.coll == nil {
		return model.Profile{}, fmt.Errorf("mongo collection is nil")
	}

	var doc profileDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Profile{}, apperr.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("find biodata: %w", err)
	}
	return doc.toModel(), nil
}

func (r *ProfileRepo) Search(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, int64, error) {
	if r.coll == nil {
		return nil, 0, fmt.Errorf("mongo collection is nil")
	}

	query := searchFilter(filter)
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count biodatas: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "biodataId", Value: 1}})
	if filter.Limit > 0 {
		skip, limit := pageBounds(filter.Page, filter.Limit)
		opts.SetSkip(skip).SetLimit(limit)
	}

	items, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProfileRepo) ListPremium(ctx context.Context, order model.SortOrder) ([]model.Profile, error) {
	direction := 1
	if order == model.SortDesc {
		direction = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "age", Value: direction}, {Key: "biodataId", Value: 1}})
	return r.find(ctx, bson.M{"premiumStatus": string(enums.PremiumStatusApproved)}, opts)
}

func (r *ProfileRepo) ListByPremiumStatus(ctx context.Context, status enums.PremiumStatus) ([]model.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "premiumRequestedAt", Value: 1}})
	return r.find(ctx, bson.M{"premiumStatus": string(status)}, opts)
}

func (r *ProfileRepo) ListAll(ctx context.Context, page, limit int) ([]model.Profile, int64, error) {
	if r.coll == nil {
		return nil, 0, fmt.Errorf("mongo collection is nil")
	}

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count biodatas: %w", err)
	}

	skip, lim := pageBounds(page, limit)
	opts := options.Find().SetSort(bson.D{{Key: "biodataId", Value: 1}}).SetSkip(skip).SetLimit(lim)
	items, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// TransitionPremium applies a premium status change only while the stored
// status is one of from. It reports whether a document was modified.
func (r *ProfileRepo) TransitionPremium(ctx context.Context, ref model.ProfileRef, from []enums.PremiumStatus, to enums.PremiumStatus, at time.Time) (bool, error) {
	if r.coll == nil {
		return false, fmt.Errorf("mongo collection is nil")
	}

	filter, err := premiumTransitionFilter(ref, from)
	if err != nil {
		return false, nil
	}

	set := bson.M{"premiumStatus": string(to), "updatedAt": at}
	switch to {
	case enums.PremiumStatusPending:
		set["premiumRequestedAt"] = at
	case enums.PremiumStatusApproved:
		set["isPremium"] = true
		set["premiumApprovedAt"] = at
	case enums.PremiumStatusRejected:
		set["isPremium"] = false
		set["premiumRejectedAt"] = at
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("transition premium status: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *ProfileRepo) Counts(ctx context.Context) (model.ProfileCounts, error) {
	if r.coll == nil {
		return model.ProfileCounts{}, fmt.Errorf("mongo collection is nil")
	}

	var counts model.ProfileCounts
	var err error
	if counts.Total, err = r.coll.EstimatedDocumentCount(ctx); err != nil {
		return model.ProfileCounts{}, fmt.Errorf("count biodatas: %w", err)
	}
	if counts.Male, err = r.coll.CountDocuments(ctx, bson.M{"biodataType": string(enums.BiodataTypeMale)}); err != nil {
		return model.ProfileCounts{}, fmt.Errorf("count male biodatas: %w", err)
	}
	if counts.Female, err = r.coll.CountDocuments(ctx, bson.M{"biodataType": string(enums.BiodataTypeFemale)}); err != nil {
		return model.ProfileCounts{}, fmt.Errorf("count female biodatas: %w", err)
	}
	if counts.Premium, err = r.coll.CountDocuments(ctx, bson.M{"premiumStatus": string(enums.PremiumStatusApproved)}); err != nil {
		return model.ProfileCounts{}, fmt.Errorf("count premium biodatas: %w", err)
	}
	return counts, nil
}

// ExistingIDs returns the subset of ids that still name a profile.
func (r *ProfileRepo) ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	if r.coll == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	existing := make(map[string]struct{}, len(oids))
	if len(oids) == 0 {
		return existing, nil
	}

	values, err := r.coll.Distinct(ctx, "_id", bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("distinct biodata ids: %w", err)
	}
	for _, v := range values {
		if oid, ok := v.(primitive.ObjectID); ok {
			existing[oid.Hex()] = struct{}{}
		}
	}
	return existing, nil
}

func (r *ProfileRepo) SequenceExists(ctx context.Context, sequenceID int64) (bool, error) {
	if r.coll == nil {
		return false, fmt.Errorf("mongo collection is nil")
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"biodataId": sequenceID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count biodata by id: %w", err)
	}
	return n > 0, nil
}

func (r *ProfileRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Profile, error) {
	if r.coll == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find biodatas: %w", err)
	}

	var docs []profileDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode biodatas: %w", err)
	}

	items := make([]model.Profile, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}

func searchFilter(filter model.ProfileFilter) bson.M {
	query := bson.M{}

	age := bson.M{}
	if filter.MinAge > 0 {
		age["$gte"] = filter.MinAge
	}
	if filter.MaxAge > 0 {
		age["$lte"] = filter.MaxAge
	}
	if len(age) > 0 {
		query["age"] = age
	}
	if filter.BiodataType != "" {
		query["biodataType"] = string(filter.BiodataType)
	}
	if filter.PermanentDivision != "" {
		query["permanentDivision"] = filter.PermanentDivision
	}
	return query
}

// premiumTransitionFilter matches the referenced profile while its status is
// one of from. Profiles created before the status field existed count as none.
func premiumTransitionFilter(ref model.ProfileRef, from []enums.PremiumStatus) (bson.M, error) {
	filter := bson.M{}
	switch {
	case ref.OwnerID != "":
		filter["ownerId"] = ref.OwnerID
	case ref.SequenceID > 0:
		filter["biodataId"] = ref.SequenceID
	case ref.ID != "":
		oid, err := primitive.ObjectIDFromHex(ref.ID)
		if err != nil {
			return nil, err
		}
		filter["_id"] = oid
	default:
		return nil, fmt.Errorf("empty profile reference")
	}

	statuses := make([]string, 0, len(from))
	includesNone := false
	for _, status := range from {
		statuses = append(statuses, string(status))
		if status == enums.PremiumStatusNone {
			includesNone = true
		}
	}

	if includesNone {
		statuses = append(statuses, "")
		filter["$or"] = bson.A{
			bson.M{"premiumStatus": bson.M{"$in": statuses}},
			bson.M{"premiumStatus": bson.M{"$exists": false}},
		}
	} else {
		filter["premiumStatus"] = bson.M{"$in": statuses}
	}
	return filter, nil
}
