package premium

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

func TestRequestUpgradeFromNone(t *testing.T) {
	store := newStoreStub(model.Profile{OwnerID: "a@example.com", SequenceID: 1, PremiumStatus: enums.PremiumStatusNone})
	svc := newTestService(store)

	profile, err := svc.RequestUpgrade(context.Background(), "A@example.com")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if profile.PremiumStatus != enums.PremiumStatusPending || profile.PremiumRequestedAt == nil {
		t.Fatalf("unexpected profile after request: %#v", profile)
	}
	if got := store.status(1); got != enums.PremiumStatusPending {
		t.Fatalf("stored status = %q", got)
	}
}

func TestRequestUpgradeTreatsMissingStatusAsNone(t *testing.T) {
	store := newStoreStub(model.Profile{OwnerID: "a@example.com", SequenceID: 1})
	svc := newTestService(store)

	if _, err := svc.RequestUpgrade(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
}

func TestRequestUpgradeConflicts(t *testing.T) {
	store := newStoreStub(
		model.Profile{OwnerID: "p@example.com", SequenceID: 1, PremiumStatus: enums.PremiumStatusPending},
		model.Profile{OwnerID: "v@example.com", SequenceID: 2, PremiumStatus: enums.PremiumStatusApproved, IsPremium: true},
	)
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.RequestUpgrade(ctx, "p@example.com"); !errors.Is(err, apperr.ErrRequestAlreadyPending) {
		t.Fatalf("expected pending conflict, got %v", err)
	}
	if _, err := svc.RequestUpgrade(ctx, "v@example.com"); !errors.Is(err, apperr.ErrAlreadyPremium) {
		t.Fatalf("expected already premium, got %v", err)
	}
	if _, err := svc.RequestUpgrade(ctx, "ghost@example.com"); !errors.Is(err, apperr.ErrProfileNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRejectedProfileMayRequestAgain(t *testing.T) {
	store := newStoreStub(model.Profile{OwnerID: "r@example.com", SequenceID: 3, PremiumStatus: enums.PremiumStatusPending})
	svc := newTestService(store)
	ctx := context.Background()

	if err := svc.Reject(ctx, "admin@example.com", model.ProfileRef{SequenceID: 3}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got := store.status(3); got != enums.PremiumStatusRejected {
		t.Fatalf("expected rejected, got %q", got)
	}
	if _, err := svc.RequestUpgrade(ctx, "r@example.com"); err != nil {
		t.Fatalf("re-request: %v", err)
	}
	if got := store.status(3); got != enums.PremiumStatusPending {
		t.Fatalf("expected pending after re-request, got %q", got)
	}
}

func TestApproveOnlyFromPending(t *testing.T) {
	store := newStoreStub(
		model.Profile{OwnerID: "n@example.com", SequenceID: 1, PremiumStatus: enums.PremiumStatusNone},
		model.Profile{OwnerID: "p@example.com", SequenceID: 2, PremiumStatus: enums.PremiumStatusPending},
	)
	svc := newTestService(store)
	ctx := context.Background()

	if err := svc.Approve(ctx, "admin", model.ProfileRef{SequenceID: 1}); !errors.Is(err, apperr.ErrProfileNotModifiable) {
		t.Fatalf("approve of none must not modify, got %v", err)
	}
	if err := svc.Reject(ctx, "admin", model.ProfileRef{SequenceID: 1}); !errors.Is(err, apperr.ErrProfileNotModifiable) {
		t.Fatalf("reject of none must not modify, got %v", err)
	}
	if err := svc.Approve(ctx, "admin", model.ProfileRef{SequenceID: 99}); !errors.Is(err, apperr.ErrProfileNotModifiable) {
		t.Fatalf("approve of unknown id must not modify, got %v", err)
	}

	if err := svc.Approve(ctx, "admin", model.ProfileRef{SequenceID: 2}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := store.byOwner["p@example.com"]; got.PremiumStatus != enums.PremiumStatusApproved || !got.IsPremium {
		t.Fatalf("unexpected approved profile: %#v", got)
	}
	if err := svc.Approve(ctx, "admin", model.ProfileRef{SequenceID: 2}); !errors.Is(err, apperr.ErrProfileNotModifiable) {
		t.Fatalf("second approve must not modify, got %v", err)
	}
	if err := svc.Reject(ctx, "admin", model.ProfileRef{SequenceID: 2}); !errors.Is(err, apperr.ErrProfileNotModifiable) {
		t.Fatalf("approved must be terminal, got %v", err)
	}
}

func TestConcurrentRequestsPendOnce(t *testing.T) {
	store := newStoreStub(model.Profile{OwnerID: "c@example.com", SequenceID: 5, PremiumStatus: enums.PremiumStatusNone})
	svc := newTestService(store)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RequestUpgrade(context.Background(), "c@example.com")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperr.ErrRequestAlreadyPending):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful request, got %d", succeeded)
	}
}

func TestListPending(t *testing.T) {
	store := newStoreStub(
		model.Profile{OwnerID: "a@example.com", SequenceID: 1, PremiumStatus: enums.PremiumStatusPending},
		model.Profile{OwnerID: "b@example.com", SequenceID: 2, PremiumStatus: enums.PremiumStatusApproved},
	)
	svc := newTestService(store)

	items, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(items) != 1 || items[0].SequenceID != 1 {
		t.Fatalf("unexpected pending list: %#v", items)
	}
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("42")
	if err != nil || ref.SequenceID != 42 {
		t.Fatalf("unexpected ref: %#v %v", ref, err)
	}
	ref, err = ParseRef("65F1A2B3C4D5E6F708091A2B")
	if err != nil || ref.ID != "65f1a2b3c4d5e6f708091a2b" {
		t.Fatalf("unexpected object ref: %#v %v", ref, err)
	}
	for _, raw := range []string{"", "0", "-3", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := ParseRef(raw); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("ParseRef(%q) expected validation error, got %v", raw, err)
		}
	}
}

func newTestService(store Store) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return svc
}

type storeStub struct {
	mu      sync.Mutex
	byOwner map[string]model.Profile
}

func newStoreStub(profiles ...model.Profile) *storeStub {
	s := &storeStub{byOwner: map[string]model.Profile{}}
	for _, p := range profiles {
		s.byOwner[p.OwnerID] = p
	}
	return s
}

func (s *storeStub) status(seq int64) enums.PremiumStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byOwner {
		if p.SequenceID == seq {
			return p.PremiumStatus
		}
	}
	return ""
}

func (s *storeStub) GetByOwner(_ context.Context, ownerID string) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byOwner[ownerID]
	if !ok {
		return model.Profile{}, apperr.ErrProfileNotFound
	}
	return p, nil
}

func (s *storeStub) ListByPremiumStatus(_ context.Context, status enums.PremiumStatus) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Profile, 0)
	for _, p := range s.byOwner {
		if p.PremiumStatus.Normalize() == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *storeStub) TransitionPremium(_ context.Context, ref model.ProfileRef, from []enums.PremiumStatus, to enums.PremiumStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, p := range s.byOwner {
		if ref.OwnerID != "" && owner != ref.OwnerID {
			continue
		}
		if ref.SequenceID > 0 && p.SequenceID != ref.SequenceID {
			continue
		}
		allowed := false
		for _, st := range from {
			if p.PremiumStatus.Normalize() == st {
				allowed = true
			}
		}
		if !allowed {
			return false, nil
		}
		p.PremiumStatus = to
		p.UpdatedAt = at
		switch to {
		case enums.PremiumStatusApproved:
			p.IsPremium = true
			p.PremiumApprovedAt = &at
		case enums.PremiumStatusRejected:
			p.IsPremium = false
			p.PremiumRejectedAt = &at
		case enums.PremiumStatusPending:
			p.PremiumRequestedAt = &at
		}
		s.byOwner[owner] = p
		return true, nil
	}
	return false, nil
}
