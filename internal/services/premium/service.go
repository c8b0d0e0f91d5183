package premium

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	"github.com/ivankudzin/truecompanions/backend/internal/pkg/validate"
)

type Store interface {
	GetByOwner(ctx context.Context, ownerID string) (model.Profile, error)
	ListByPremiumStatus(ctx context.Context, status enums.PremiumStatus) ([]model.Profile, error)
	TransitionPremium(ctx context.Context, ref model.ProfileRef, from []enums.PremiumStatus, to enums.PremiumStatus, at time.Time) (bool, error)
}

type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// RequestUpgrade moves the owner's profile to pending. The write only lands
// while the status is still one the read allowed, so a concurrent request
// loses with ErrRequestAlreadyPending.
func (s *Service) RequestUpgrade(ctx context.Context, ownerID string) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("premium service dependencies are not configured")
	}
	ownerID = validate.NormalizeEmail(ownerID)

	profile, err := s.store.GetByOwner(ctx, ownerID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("load biodata: %w", err)
	}

	current := profile.PremiumStatus.Normalize()
	transition, ok := enums.PremiumTransitionFor(current, enums.PremiumStatusPending)
	if !ok {
		switch current {
		case enums.PremiumStatusApproved:
			return model.Profile{}, apperr.ErrAlreadyPremium
		default:
			return model.Profile{}, apperr.ErrRequestAlreadyPending
		}
	}

	at := s.now().UTC()
	modified, err := s.store.TransitionPremium(ctx,
		model.ProfileRef{OwnerID: ownerID},
		enums.PremiumSources(enums.PremiumStatusPending),
		enums.PremiumStatusPending,
		at,
	)
	if err != nil {
		return model.Profile{}, fmt.Errorf("request premium: %w", err)
	}
	if !modified {
		return model.Profile{}, apperr.ErrRequestAlreadyPending
	}

	s.audit(transition, ownerID, profile.SequenceID)

	profile.PremiumStatus = enums.PremiumStatusPending
	profile.PremiumRequestedAt = &at
	profile.UpdatedAt = at
	return profile, nil
}

func (s *Service) Approve(ctx context.Context, actor string, ref model.ProfileRef) error {
	return s.decide(ctx, actor, ref, enums.PremiumStatusApproved)
}

func (s *Service) Reject(ctx context.Context, actor string, ref model.ProfileRef) error {
	return s.decide(ctx, actor, ref, enums.PremiumStatusRejected)
}

func (s *Service) decide(ctx context.Context, actor string, ref model.ProfileRef, to enums.PremiumStatus) error {
	if s.store == nil {
		return fmt.Errorf("premium service dependencies are not configured")
	}
	if ref.OwnerID == "" && ref.SequenceID <= 0 && ref.ID == "" {
		return apperr.ErrProfileNotModifiable
	}

	transition, _ := enums.PremiumTransitionFor(enums.PremiumStatusPending, to)
	modified, err := s.store.TransitionPremium(ctx, ref, enums.PremiumSources(to), to, s.now().UTC())
	if err != nil {
		return fmt.Errorf("%s premium: %w", transition, err)
	}
	if !modified {
		return apperr.ErrProfileNotModifiable
	}

	s.log.Info("audit",
		zap.String("action", "premium."+string(transition)),
		zap.String("actor", actor),
		zap.Int64("biodata_id", ref.SequenceID),
		zap.String("profile_id", ref.ID),
	)
	return nil
}

func (s *Service) ListPending(ctx context.Context) ([]model.Profile, error) {
	if s.store == nil {
		return nil, fmt.Errorf("premium service dependencies are not configured")
	}
	items, err := s.store.ListByPremiumStatus(ctx, enums.PremiumStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list premium requests: %w", err)
	}
	return items, nil
}

func (s *Service) audit(transition enums.PremiumTransition, owner string, seq int64) {
	s.log.Info("audit",
		zap.String("action", "premium."+string(transition)),
		zap.String("actor", owner),
		zap.Int64("biodata_id", seq),
	)
}

// ParseRef reads an operator supplied profile reference: a biodata id or a
// 24 character document id.
func ParseRef(raw string) (model.ProfileRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.ProfileRef{}, apperr.Invalid("biodata id is required")
	}
	if seq, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if seq <= 0 {
			return model.ProfileRef{}, apperr.Invalid("biodata id must be positive")
		}
		return model.ProfileRef{SequenceID: seq}, nil
	}
	if primitive.IsValidObjectID(raw) {
		return model.ProfileRef{ID: strings.ToLower(raw)}, nil
	}
	return model.ProfileRef{}, apperr.Invalid("malformed biodata id")
}

