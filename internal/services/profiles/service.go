package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/rules"
	"github.com/ivankudzin/truecompanions/backend/internal/pkg/validate"
)

type Store interface {
	MaxSequence(ctx context.Context) (int64, error)
	Insert(ctx context.Context, profile model.Profile) (model.Profile, error)
	UpdateDetails(ctx context.Context, ownerID string, details model.ProfileDetails, now time.Time) (model.Profile, error)
	GetByOwner(ctx context.Context, ownerID string) (model.Profile, error)
	GetBySequence(ctx context.Context, sequenceID int64) (model.Profile, error)
	Search(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, int64, error)
	ListPremium(ctx context.Context, order model.SortOrder) ([]model.Profile, error)
	ListAll(ctx context.Context, page, limit int) ([]model.Profile, int64, error)
}

type Limits struct {
	PageSizeDefault      int
	PageSizeMax          int
	AdminPageSizeDefault int
	MinAge               int
	MaxAge               int
	NameMaxLength        int
	ImageMaxLength       int
}

type Service struct {
	store  Store
	limits Limits
	log    *zap.Logger
	now    func() time.Time
}

func NewService(store Store, limits Limits) *Service {
	if limits.PageSizeDefault <= 0 {
		limits.PageSizeDefault = 6
	}
	if limits.PageSizeMax < limits.PageSizeDefault {
		limits.PageSizeMax = limits.PageSizeDefault
	}
	if limits.AdminPageSizeDefault <= 0 {
		limits.AdminPageSizeDefault = 20
	}
	if limits.MinAge <= 0 {
		limits.MinAge = 18
	}
	if limits.MaxAge < limits.MinAge {
		limits.MaxAge = 100
	}

	return &Service{
		store:  store,
		limits: limits,
		log:    zap.NewNop(),
		now:    time.Now,
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// Create stores the caller's only profile under the next biodata id. A
// concurrent create that takes the same id fails with ErrSequenceCollision
// and is not retried here.
func (s *Service) Create(ctx context.Context, ownerID string, in model.ProfileDetails) (model.Profile, error) {
	ownerID = validate.NormalizeEmail(ownerID)
	if ownerID == "" {
		return model.Profile{}, apperr.ErrUnauthorized
	}

	details, err := s.normalize(in)
	if err != nil {
		return model.Profile{}, err
	}

	if _, err := s.store.GetByOwner(ctx, ownerID); err == nil {
		return model.Profile{}, apperr.ErrProfileExists
	} else if !errors.Is(err, apperr.ErrProfileNotFound) {
		return model.Profile{}, fmt.Errorf("check existing biodata: %w", err)
	}

	maxSeq, err := s.store.MaxSequence(ctx)
	if err != nil {
		return model.Profile{}, fmt.Errorf("read max biodata id: %w", err)
	}

	now := s.now().UTC()
	created, err := s.store.Insert(ctx, model.Profile{
		OwnerID:        ownerID,
		SequenceID:     maxSeq + 1,
		ProfileDetails: details,
		PremiumStatus:  enums.PremiumStatusNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return model.Profile{}, fmt.Errorf("create biodata: %w", err)
	}

	s.log.Info("biodata created", zap.String("owner", ownerID), zap.Int64("biodata_id", created.SequenceID))
	return created, nil
}

func (s *Service) Update(ctx context.Context, ownerID string, in model.ProfileDetails) (model.Profile, error) {
	details, err := s.normalize(in)
	if err != nil {
		return model.Profile{}, err
	}

	updated, err := s.store.UpdateDetails(ctx, validate.NormalizeEmail(ownerID), details, s.now().UTC())
	if err != nil {
		return model.Profile{}, fmt.Errorf("update biodata: %w", err)
	}
	return updated, nil
}

func (s *Service) GetOwn(ctx context.Context, ownerID string) (model.Profile, error) {
	profile, err := s.store.GetByOwner(ctx, validate.NormalizeEmail(ownerID))
	if err != nil {
		return model.Profile{}, fmt.Errorf("get own biodata: %w", err)
	}
	return profile, nil
}

// Search lists profiles matching the filter with contact fields removed.
// Without page and limit every match is returned.
func (s *Service) Search(ctx context.Context, filter model.ProfileFilter) (model.ProfilePage, error) {
	if filter.MinAge < 0 || filter.MaxAge < 0 || (filter.MaxAge > 0 && filter.MinAge > filter.MaxAge) {
		return model.ProfilePage{}, apperr.Invalid("invalid age range")
	}
	if filter.BiodataType != "" {
		bt, ok := enums.ParseBiodataType(string(filter.BiodataType))
		if !ok {
			return model.ProfilePage{}, apperr.Invalid("biodataType must be Male or Female")
		}
		filter.BiodataType = bt
	}
	filter.PermanentDivision = strings.TrimSpace(filter.PermanentDivision)

	if filter.Page > 0 || filter.Limit > 0 {
		filter.Page, filter.Limit = rules.Page(filter.Page, filter.Limit, s.limits.PageSizeDefault, s.limits.PageSizeMax)
	}

	items, total, err := s.store.Search(ctx, filter)
	if err != nil {
		return model.ProfilePage{}, fmt.Errorf("search biodatas: %w", err)
	}

	return model.ProfilePage{
		Items: publicAll(items),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *Service) ListPremium(ctx context.Context, order model.SortOrder) ([]model.Profile, error) {
	if order != model.SortDesc {
		order = model.SortAsc
	}
	items, err := s.store.ListPremium(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("list premium biodatas: %w", err)
	}
	return publicAll(items), nil
}

func (s *Service) IsPremium(ctx context.Context, ownerID string) (bool, error) {
	profile, err := s.GetOwn(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return profile.IsPremium && profile.PremiumStatus == enums.PremiumStatusApproved, nil
}

// AdminList pages through every profile for operators.
func (s *Service) AdminList(ctx context.Context, page, limit int) (model.ProfilePage, error) {
	page, limit = rules.Page(page, limit, s.limits.AdminPageSizeDefault, s.limits.PageSizeMax*4)

	items, total, err := s.store.ListAll(ctx, page, limit)
	if err != nil {
		return model.ProfilePage{}, fmt.Errorf("list biodatas: %w", err)
	}
	return model.ProfilePage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *Service) normalize(in model.ProfileDetails) (model.ProfileDetails, error) {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.ProfileImage = strings.TrimSpace(in.ProfileImage)
	out.Occupation = strings.TrimSpace(in.Occupation)
	out.PermanentDivision = strings.TrimSpace(in.PermanentDivision)
	out.PresentDivision = strings.TrimSpace(in.PresentDivision)
	out.DateOfBirth = strings.TrimSpace(in.DateOfBirth)

	bt, ok := enums.ParseBiodataType(string(in.BiodataType))
	if !ok {
		return model.ProfileDetails{}, apperr.Invalid("biodataType must be Male or Female")
	}
	out.BiodataType = bt

	if !validate.Required(out.Name) {
		return model.ProfileDetails{}, apperr.Invalid("name is required")
	}
	if !validate.MaxLen(out.Name, s.limits.NameMaxLength) {
		return model.ProfileDetails{}, apperr.Invalid("name is too long")
	}
	if !validate.MaxLen(out.ProfileImage, s.limits.ImageMaxLength) {
		return model.ProfileDetails{}, apperr.Invalid("profileImage is too long")
	}

	if out.DateOfBirth != "" {
		birth, ok := rules.ParseDate(out.DateOfBirth)
		if !ok {
			return model.ProfileDetails{}, apperr.Invalid("dateOfBirth must be YYYY-MM-DD")
		}
		out.Age = rules.AgeYears(birth, s.now())
	}
	if out.Age < s.limits.MinAge || out.Age > s.limits.MaxAge {
		return model.ProfileDetails{}, apperr.Invalid(fmt.Sprintf("age must be between %d and %d", s.limits.MinAge, s.limits.MaxAge))
	}

	if in.Contact != nil {
		contact := model.ContactInfo{
			Email:        validate.NormalizeEmail(in.Contact.Email),
			MobileNumber: strings.TrimSpace(in.Contact.MobileNumber),
		}
		if contact.Email != "" && !validate.Email(contact.Email) {
			return model.ProfileDetails{}, apperr.Invalid("contactInfo.email is invalid")
		}
		out.Contact = &contact
	}

	return out, nil
}

func publicAll(items []model.Profile) []model.Profile {
	out := make([]model.Profile, 0, len(items))
	for _, item := range items {
		out = append(out, item.Public())
	}
	return out
}
