package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	PhotoURL  string             `bson:"photoURL,omitempty"`
	Role      string             `bson:"role,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDoc) toModel() model.User {
	role, ok := enums.ParseRole(d.Role)
	if !ok {
		role = enums.RoleUser
	}
	return model.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Name:      d.Name,
		PhotoURL:  d.PhotoURL,
		Role:      role,
		CreatedAt: d.CreatedAt,
	}
}

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	if db == nil {
		return &UserRepo{}
	}
	return &UserRepo{coll: db.Collection(usersCollection)}
}

// Upsert inserts the account unless one with the same email exists.
func (r *UserRepo) Upsert(ctx context.Context, user model.User) (model.User, bool, error) {
	if r.coll == nil {
		return model.User{}, false, fmt.Errorf("mongo collection is nil")
	}

	filter := bson.M{"email": user.Email}
	update := bson.M{"$setOnInsert": bson.M{
		"email":     user.Email,
		"name":      user.Name,
		"photoURL":  user.PhotoURL,
		"role":      string(enums.RoleUser),
		"createdAt": user.CreatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if isDuplicateOn(err, indexUserEmail) {
			stored, getErr := r.GetByEmail(ctx, user.Email)
			return stored, false, getErr
		}
		return model.User{}, false, fmt.Errorf("upsert user: %w", err)
	}

	stored, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return model.User{}, false, err
	}
	return stored, res.UpsertedCount == 1, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if r.coll == nil {
		return model.User{}, fmt.Errorf("mongo collection is nil")
	}

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, apperr.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return doc.toModel(), nil
}

func (r *UserRepo) List(ctx context.Context, search string) ([]model.User, error) {
	if r.coll == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	cursor, err := r.coll.Find(ctx, userSearchFilter(search), options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toModel())
	}
	return users, nil
}

func (r *UserRepo) SetRole(ctx context.Context, id string, role enums.Role) error {
	if r.coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": string(role)}})
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if r.coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrUserNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

func userSearchFilter(search string) bson.M {
	search = strings.TrimSpace(search)
	if search == "" {
		return bson.M{}
	}
	return bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}}
}
