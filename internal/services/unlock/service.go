package unlock

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
	"github.com/ivankudzin/truecompanions/backend/internal/pkg/validate"
	"github.com/ivankudzin/truecompanions/backend/internal/services/rate"
)

type RequestStore interface {
	CreateWithPayment(ctx context.Context, req model.ContactUnlockRequest, payment model.Payment) (model.ContactUnlockRequest, error)
	Approve(ctx context.Context, id string, at time.Time) (model.ContactUnlockRequest, error)
	HasApproved(ctx context.Context, requesterID string, targetSequenceID int64) (bool, error)
	ListByRequester(ctx context.Context, requesterID string) ([]model.ContactUnlockRequest, error)
	ListAll(ctx context.Context, status enums.UnlockStatus) ([]model.ContactUnlockRequest, error)
	DeleteOwned(ctx context.Context, requesterID, id string) error
}

type ProfileReader interface {
	GetBySequence(ctx context.Context, sequenceID int64) (model.Profile, error)
}

type RateChecker interface {
	Check(ctx context.Context, action rate.Action, subject string) error
}

// Price is the server side amount charged for one unlock.
type Price struct {
	AmountCents int64
	Currency    string
}

type Service struct {
	requests RequestStore
	profiles ProfileReader
	limiter  RateChecker
	price    Price
	log      *zap.Logger
	now      func() time.Time
}

func NewService(requests RequestStore, profiles ProfileReader, limiter RateChecker, price Price) *Service {
	price.Currency = strings.ToLower(strings.TrimSpace(price.Currency))
	if price.Currency == "" {
		price.Currency = "usd"
	}
	return &Service{
		requests: requests,
		profiles: profiles,
		limiter:  limiter,
		price:    price,
		log:      zap.NewNop(),
		now:      time.Now,
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// CreateUnlockRequest records a pending request and its payment together.
// The charged amount always comes from the configured price.
func (s *Service) CreateUnlockRequest(ctx context.Context, requesterID string, targetSequenceID int64, paymentReference string) (model.ContactUnlockRequest, error) {
	if s.requests == nil || s.profiles == nil {
		return model.ContactUnlockRequest{}, fmt.Errorf("unlock service dependencies are not configured")
	}
	requesterID = validate.NormalizeEmail(requesterID)
	if requesterID == "" {
		return model.ContactUnlockRequest{}, apperr.ErrUnauthorized
	}
	if targetSequenceID <= 0 {
		return model.ContactUnlockRequest{}, apperr.Invalid("biodataId must be positive")
	}
	paymentReference = strings.TrimSpace(paymentReference)
	if paymentReference == "" {
		return model.ContactUnlockRequest{}, apperr.Invalid("transactionId is required")
	}

	if s.limiter != nil {
		if err := s.limiter.Check(ctx, rate.ActionUnlockRequest, requesterID); err != nil {
			return model.ContactUnlockRequest{}, err
		}
	}

	target, err := s.profiles.GetBySequence(ctx, targetSequenceID)
	if err != nil {
		if errors.Is(err, apperr.ErrProfileNotFound) {
			return model.ContactUnlockRequest{}, apperr.ErrInvalidTarget
		}
		return model.ContactUnlockRequest{}, fmt.Errorf("load target biodata: %w", err)
	}

	now := s.now().UTC()
	created, err := s.requests.CreateWithPayment(ctx,
		model.ContactUnlockRequest{
			RequesterID:      requesterID,
			TargetSequenceID: target.SequenceID,
			TargetName:       target.Name,
			Status:           enums.UnlockStatusPending,
			PaymentReference: paymentReference,
			AmountCents:      s.price.AmountCents,
			Currency:         s.price.Currency,
			CreatedAt:        now,
		},
		model.Payment{
			PayerID:          requesterID,
			Reference:        paymentReference,
			Purpose:          enums.PaymentPurposeContactUnlock,
			AmountCents:      s.price.AmountCents,
			Currency:         s.price.Currency,
			TargetSequenceID: target.SequenceID,
			CreatedAt:        now,
		},
	)
	if err != nil {
		return model.ContactUnlockRequest{}, fmt.Errorf("create contact request: %w", err)
	}

	s.log.Info("audit",
		zap.String("action", "unlock.create"),
		zap.String("actor", requesterID),
		zap.Int64("biodata_id", target.SequenceID),
		zap.String("request_id", created.ID),
	)
	return created, nil
}

func (s *Service) ApproveUnlockRequest(ctx context.Context, actor, requestID string) (model.ContactUnlockRequest, error) {
	if s.requests == nil {
		return model.ContactUnlockRequest{}, fmt.Errorf("unlock service dependencies are not configured")
	}
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return model.ContactUnlockRequest{}, apperr.ErrUnlockRequestNotFound
	}

	approved, err := s.requests.Approve(ctx, requestID, s.now().UTC())
	if err != nil {
		return model.ContactUnlockRequest{}, fmt.Errorf("approve contact request: %w", err)
	}

	s.log.Info("audit",
		zap.String("action", "unlock.approve"),
		zap.String("actor", actor),
		zap.String("target", approved.RequesterID),
		zap.Int64("biodata_id", approved.TargetSequenceID),
		zap.String("request_id", approved.ID),
	)
	return approved, nil
}

// ReadProfileWithVisibility returns the profile with contact fields only when
// the viewer may see them. An error while checking unlocks hides them.
func (s *Service) ReadProfileWithVisibility(ctx context.Context, viewer model.Viewer, targetSequenceID int64) (model.Profile, error) {
	if s.profiles == nil {
		return model.Profile{}, fmt.Errorf("unlock service dependencies are not configured")
	}
	if targetSequenceID <= 0 {
		return model.Profile{}, apperr.Invalid("biodataId must be positive")
	}

	profile, err := s.profiles.GetBySequence(ctx, targetSequenceID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("load biodata: %w", err)
	}

	if s.contactVisible(ctx, viewer, profile) {
		return profile, nil
	}
	return profile.Public(), nil
}

func (s *Service) contactVisible(ctx context.Context, viewer model.Viewer, profile model.Profile) bool {
	if enums.Can(viewer.Role, enums.CapViewContacts) {
		return true
	}
	viewerID := validate.NormalizeEmail(viewer.ID)
	if viewerID == "" {
		return false
	}
	if viewerID == profile.OwnerID {
		return true
	}
	if s.requests == nil {
		return false
	}

	ok, err := s.requests.HasApproved(ctx, viewerID, profile.SequenceID)
	if err != nil {
		s.log.Warn("unlock lookup failed, hiding contact",
			zap.String("viewer", viewerID),
			zap.Int64("biodata_id", profile.SequenceID),
			zap.Error(err),
		)
		return false
	}
	return ok
}

func (s *Service) ListMine(ctx context.Context, requesterID string) ([]model.ContactUnlockRequest, error) {
	if s.requests == nil {
		return nil, fmt.Errorf("unlock service dependencies are not configured")
	}
	items, err := s.requests.ListByRequester(ctx, validate.NormalizeEmail(requesterID))
	if err != nil {
		return nil, fmt.Errorf("list own contact requests: %w", err)
	}
	return items, nil
}

// ListAll returns every request, optionally narrowed to one status.
func (s *Service) ListAll(ctx context.Context, status string) ([]model.ContactUnlockRequest, error) {
	if s.requests == nil {
		return nil, fmt.Errorf("unlock service dependencies are not configured")
	}

	var filter enums.UnlockStatus
	switch enums.UnlockStatus(strings.ToLower(strings.TrimSpace(status))) {
	case "":
	case enums.UnlockStatusPending:
		filter = enums.UnlockStatusPending
	case enums.UnlockStatusApproved:
		filter = enums.UnlockStatusApproved
	default:
		return nil, apperr.Invalid("status must be pending or approved")
	}

	items, err := s.requests.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list contact requests: %w", err)
	}
	return items, nil
}

// DeleteMine withdraws one of the requester's own requests. The ledger
// payment is kept.
func (s *Service) DeleteMine(ctx context.Context, requesterID, requestID string) error {
	if s.requests == nil {
		return fmt.Errorf("unlock service dependencies are not configured")
	}
	requesterID = validate.NormalizeEmail(requesterID)
	if err := s.requests.DeleteOwned(ctx, requesterID, strings.TrimSpace(requestID)); err != nil {
		return fmt.Errorf("delete contact request: %w", err)
	}

	s.log.Info("audit",
		zap.String("action", "unlock.withdraw"),
		zap.String("actor", requesterID),
		zap.String("request_id", requestID),
	)
	return nil
}
