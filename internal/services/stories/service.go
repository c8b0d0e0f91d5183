package stories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/rules"
	"github.com/ivankudzin/truecompanions/backend/internal/pkg/validate"
)

const listLimit = 100

type Store interface {
	Insert(ctx context.Context, story model.SuccessStory) (model.SuccessStory, error)
	List(ctx context.Context, limit int) ([]model.SuccessStory, error)
}

type ProfileChecker interface {
	SequenceExists(ctx context.Context, sequenceID int64) (bool, error)
}

type Limits struct {
	RatingMin       int
	RatingMax       int
	ReviewMaxLength int
}

type CreateInput struct {
	SelfSequenceID    int64
	PartnerSequenceID int64
	CoupleImage       string
	Review            string
	Rating            int
	MarriageDate      string
}

type Service struct {
	store    Store
	profiles ProfileChecker
	limits   Limits
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store Store, profiles ProfileChecker, limits Limits) *Service {
	if limits.RatingMin <= 0 {
		limits.RatingMin = 1
	}
	if limits.RatingMax < limits.RatingMin {
		limits.RatingMax = 5
	}
	if limits.ReviewMaxLength <= 0 {
		limits.ReviewMaxLength = 2000
	}
	return &Service{
		store:    store,
		profiles: profiles,
		limits:   limits,
		log:      zap.NewNop(),
		now:      time.Now,
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (model.SuccessStory, error) {
	if s.store == nil || s.profiles == nil {
		return model.SuccessStory{}, fmt.Errorf("stories service dependencies are not configured")
	}

	if in.SelfSequenceID <= 0 || in.PartnerSequenceID <= 0 {
		return model.SuccessStory{}, apperr.Invalid("both biodata ids are required")
	}
	if in.SelfSequenceID == in.PartnerSequenceID {
		return model.SuccessStory{}, apperr.Invalid("partner biodata id must differ from your own")
	}
	if in.Rating < s.limits.RatingMin || in.Rating > s.limits.RatingMax {
		return model.SuccessStory{}, apperr.Invalid(fmt.Sprintf("rating must be between %d and %d", s.limits.RatingMin, s.limits.RatingMax))
	}
	review := strings.TrimSpace(in.Review)
	if !validate.Required(review) {
		return model.SuccessStory{}, apperr.Invalid("review is required")
	}
	if !validate.MaxLen(review, s.limits.ReviewMaxLength) {
		return model.SuccessStory{}, apperr.Invalid("review is too long")
	}

	marriedAt := s.now().UTC()
	if raw := strings.TrimSpace(in.MarriageDate); raw != "" {
		parsed, ok := rules.ParseDate(raw)
		if !ok {
			return model.SuccessStory{}, apperr.Invalid("marriageDate must be YYYY-MM-DD")
		}
		marriedAt = parsed
	}

	for _, seq := range []int64{in.SelfSequenceID, in.PartnerSequenceID} {
		ok, err := s.profiles.SequenceExists(ctx, seq)
		if err != nil {
			return model.SuccessStory{}, fmt.Errorf("check biodata %d: %w", seq, err)
		}
		if !ok {
			return model.SuccessStory{}, apperr.ErrInvalidTarget
		}
	}

	story, err := s.store.Insert(ctx, model.SuccessStory{
		SelfSequenceID:    in.SelfSequenceID,
		PartnerSequenceID: in.PartnerSequenceID,
		CoupleImage:       strings.TrimSpace(in.CoupleImage),
		Review:            review,
		Rating:            in.Rating,
		MarriageDate:      marriedAt,
		CreatedBy:         validate.NormalizeEmail(callerID),
		CreatedAt:         s.now().UTC(),
	})
	if err != nil {
		return model.SuccessStory{}, fmt.Errorf("create success story: %w", err)
	}

	s.log.Info("success story created",
		zap.String("created_by", story.CreatedBy),
		zap.Int64("self_biodata_id", story.SelfSequenceID),
		zap.Int64("partner_biodata_id", story.PartnerSequenceID),
	)
	return story, nil
}

// List returns stories newest marriage first.
func (s *Service) List(ctx context.Context) ([]model.SuccessStory, error) {
	if s.store == nil {
		return nil, fmt.Errorf("stories service dependencies are not configured")
	}
	items, err := s.store.List(ctx, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list success stories: %w", err)
	}
	return items, nil
}
