package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	"github.com/ivankudzin/truecompanions/backend/internal/pkg/validate"
)

type Store interface {
	Insert(ctx context.Context, fav model.Favorite) (model.Favorite, error)
	Exists(ctx context.Context, ownerID, targetProfileID string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Favorite, error)
	DeleteOwned(ctx context.Context, ownerID, favoriteID string) error
}

type ProfileReader interface {
	GetByID(ctx context.Context, id string) (model.Profile, error)
}

type Service struct {
	store    Store
	profiles ProfileReader
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store Store, profiles ProfileReader) *Service {
	return &Service{
		store:    store,
		profiles: profiles,
		log:      zap.NewNop(),
		now:      time.Now,
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// Add saves a snapshot of the target profile into the owner's favorites.
func (s *Service) Add(ctx context.Context, ownerID, targetProfileID string) (model.Favorite, error) {
	if s.store == nil || s.profiles == nil {
		return model.Favorite{}, fmt.Errorf("favorites service dependencies are not configured")
	}
	ownerID = validate.NormalizeEmail(ownerID)
	targetProfileID = strings.ToLower(strings.TrimSpace(targetProfileID))
	if !primitive.IsValidObjectID(targetProfileID) {
		return model.Favorite{}, apperr.Invalid("malformed biodata object id")
	}

	target, err := s.profiles.GetByID(ctx, targetProfileID)
	if err != nil {
		if errors.Is(err, apperr.ErrProfileNotFound) {
			return model.Favorite{}, apperr.ErrInvalidTarget
		}
		return model.Favorite{}, fmt.Errorf("load favorite target: %w", err)
	}

	exists, err := s.store.Exists(ctx, ownerID, targetProfileID)
	if err != nil {
		return model.Favorite{}, fmt.Errorf("check favorite: %w", err)
	}
	if exists {
		return model.Favorite{}, apperr.ErrDuplicateFavorite
	}

	fav, err := s.store.Insert(ctx, model.Favorite{
		OwnerID:           ownerID,
		TargetProfileID:   targetProfileID,
		TargetSequenceID:  target.SequenceID,
		Name:              target.Name,
		ProfileImage:      target.ProfileImage,
		Age:               target.Age,
		Occupation:        target.Occupation,
		PermanentDivision: target.PermanentDivision,
		AddedAt:           s.now().UTC(),
	})
	if err != nil {
		return model.Favorite{}, fmt.Errorf("add favorite: %w", err)
	}
	return fav, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]model.Favorite, error) {
	if s.store == nil {
		return nil, fmt.Errorf("favorites service dependencies are not configured")
	}
	items, err := s.store.ListByOwner(ctx, validate.NormalizeEmail(ownerID))
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return items, nil
}

func (s *Service) Exists(ctx context.Context, ownerID, targetProfileID string) (bool, error) {
	if s.store == nil {
		return false, fmt.Errorf("favorites service dependencies are not configured")
	}
	targetProfileID = strings.ToLower(strings.TrimSpace(targetProfileID))
	if !primitive.IsValidObjectID(targetProfileID) {
		return false, apperr.Invalid("malformed biodata object id")
	}
	ok, err := s.store.Exists(ctx, validate.NormalizeEmail(ownerID), targetProfileID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return ok, nil
}

// Remove deletes one of the owner's favorites. Someone else's favorite is
// reported as not found.
func (s *Service) Remove(ctx context.Context, ownerID, favoriteID string) error {
	if s.store == nil {
		return fmt.Errorf("favorites service dependencies are not configured")
	}
	if err := s.store.DeleteOwned(ctx, validate.NormalizeEmail(ownerID), strings.TrimSpace(favoriteID)); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
