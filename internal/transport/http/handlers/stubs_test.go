package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	authsvc "github.com/ivankudzin/truecompanions/backend/internal/services/auth"
)

func withURLParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func asUser(r *http.Request, email string, role enums.Role) *http.Request {
	return r.WithContext(authsvc.WithIdentity(r.Context(), authsvc.Identity{
		UserID: email,
		SID:    "sid-" + email,
		Role:   role,
	}))
}

// profileStoreStub serves the profile, premium and unlock lookups from one
// in-memory slice.
type profileStoreStub struct {
	mu         sync.Mutex
	items      []model.Profile
	lastFilter model.ProfileFilter
}

func (s *profileStoreStub) MaxSequence(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var max int64
	for _, p := range s.items {
		if p.SequenceID > max {
			max = p.SequenceID
		}
	}
	return max, nil
}

func (s *profileStoreStub) Insert(_ context.Context, p model.Profile) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, p)
	return p, nil
}

func (s *profileStoreStub) UpdateDetails(_ context.Context, ownerID string, details model.ProfileDetails, now time.Time) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].OwnerID == ownerID {
			s.items[i].ProfileDetails = details
			s.items[i].UpdatedAt = now
			return s.items[i], nil
		}
	}
	return model.Profile{}, apperr.ErrProfileNotFound
}

func (s *profileStoreStub) GetByOwner(_ context.Context, ownerID string) (model.Profile, error) {
	return s.find(func(p model.Profile) bool { return p.OwnerID == ownerID })
}

func (s *profileStoreStub) GetBySequence(_ context.Context, seq int64) (model.Profile, error) {
	return s.find(func(p model.Profile) bool { return p.SequenceID == seq })
}

func (s *profileStoreStub) Search(_ context.Context, filter model.ProfileFilter) ([]model.Profile, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	out := append([]model.Profile(nil), s.items...)
	return out, int64(len(out)), nil
}

func (s *profileStoreStub) ListPremium(context.Context, model.SortOrder) ([]model.Profile, error) {
	return nil, nil
}

func (s *profileStoreStub) ListAll(_ context.Context, _, _ int) ([]model.Profile, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Profile(nil), s.items...), int64(len(s.items)), nil
}

func (s *profileStoreStub) ListByPremiumStatus(_ context.Context, status enums.PremiumStatus) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Profile
	for _, p := range s.items {
		if p.PremiumStatus.Normalize() == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *profileStoreStub) TransitionPremium(_ context.Context, ref model.ProfileRef, from []enums.PremiumStatus, to enums.PremiumStatus, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		p := &s.items[i]
		if (ref.OwnerID != "" && p.OwnerID != ref.OwnerID) || (ref.SequenceID != 0 && p.SequenceID != ref.SequenceID) {
			continue
		}
		for _, st := range from {
			if p.PremiumStatus.Normalize() == st {
				p.PremiumStatus = to
				p.IsPremium = to == enums.PremiumStatusApproved
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

func (s *profileStoreStub) find(match func(model.Profile) bool) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if match(p) {
			return p, nil
		}
	}
	return model.Profile{}, apperr.ErrProfileNotFound
}

type unlockStoreStub struct {
	mu       sync.Mutex
	requests []model.ContactUnlockRequest
	payments []model.Payment
}

func (s *unlockStoreStub) CreateWithPayment(_ context.Context, req model.ContactUnlockRequest, payment model.Payment) (model.ContactUnlockRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		if existing.RequesterID == req.RequesterID && existing.TargetSequenceID == req.TargetSequenceID {
			return model.ContactUnlockRequest{}, apperr.ErrDuplicateRequest
		}
	}
	req.ID = "req-" + req.RequesterID
	s.requests = append(s.requests, req)
	s.payments = append(s.payments, payment)
	return req, nil
}

func (s *unlockStoreStub) Approve(_ context.Context, id string, at time.Time) (model.ContactUnlockRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.requests {
		if s.requests[i].ID == id && s.requests[i].Status == enums.UnlockStatusPending {
			s.requests[i].Status = enums.UnlockStatusApproved
			s.requests[i].ApprovedAt = &at
			return s.requests[i], nil
		}
	}
	return model.ContactUnlockRequest{}, apperr.ErrUnlockRequestNotFound
}

func (s *unlockStoreStub) HasApproved(_ context.Context, requesterID string, seq int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.RequesterID == requesterID && r.TargetSequenceID == seq && r.Status == enums.UnlockStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (s *unlockStoreStub) ListByRequester(_ context.Context, requesterID string) ([]model.ContactUnlockRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ContactUnlockRequest
	for _, r := range s.requests {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *unlockStoreStub) ListAll(context.Context, enums.UnlockStatus) ([]model.ContactUnlockRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ContactUnlockRequest(nil), s.requests...), nil
}

func (s *unlockStoreStub) DeleteOwned(_ context.Context, requesterID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.requests {
		if r.ID == id && r.RequesterID == requesterID {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			return nil
		}
	}
	return apperr.ErrUnlockRequestNotFound
}
