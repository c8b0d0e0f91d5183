package users

import (
	"context"
	"errors"
	"testing"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

func TestRegisterIsIdempotent(t *testing.T) {
	store := newUserStoreStub()
	svc := NewService(store)
	ctx := context.Background()

	user, created, err := svc.Register(ctx, RegisterInput{Email: "Nadia@Example.com", Name: "Nadia"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !created || user.Email != "nadia@example.com" || user.Role != enums.RoleUser {
		t.Fatalf("unexpected first registration: created=%v user=%#v", created, user)
	}

	again, created, err := svc.Register(ctx, RegisterInput{Email: "nadia@example.com", Name: "Other"})
	if err != nil {
		t.Fatalf("register again: %v", err)
	}
	if created {
		t.Fatalf("second registration must not create")
	}
	if again.Name != "Nadia" {
		t.Fatalf("existing account must be kept, got %#v", again)
	}
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	svc := NewService(newUserStoreStub())
	if _, _, err := svc.Register(context.Background(), RegisterInput{Email: "nope"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIsAdminOnlyForSelf(t *testing.T) {
	store := newUserStoreStub()
	store.users["boss@example.com"] = model.User{ID: "1", Email: "boss@example.com", Role: enums.RoleAdmin}
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.IsAdmin(ctx, "someone@example.com", "boss@example.com"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for other email, got %v", err)
	}

	admin, err := svc.IsAdmin(ctx, "boss@example.com", "Boss@Example.com")
	if err != nil {
		t.Fatalf("is admin: %v", err)
	}
	if !admin {
		t.Fatalf("expected admin=true")
	}
}

func TestSetRoleAndRoleLookup(t *testing.T) {
	store := newUserStoreStub()
	store.users["a@example.com"] = model.User{ID: "abc", Email: "a@example.com", Role: enums.RoleUser}
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.MakePremium(ctx, "boss@example.com", "abc"); err != nil {
		t.Fatalf("make premium: %v", err)
	}
	role, err := svc.Role(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("role: %v", err)
	}
	if role != enums.RolePremium {
		t.Fatalf("unexpected role: %s", role)
	}

	if err := svc.MakeAdmin(ctx, "boss@example.com", "missing"); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if err := svc.SetRole(ctx, "boss@example.com", "abc", enums.Role("owner")); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
	if _, err := svc.Role(ctx, "ghost@example.com"); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	store := newUserStoreStub()
	store.users["a@example.com"] = model.User{ID: "abc", Email: "a@example.com"}
	svc := NewService(store)

	if err := svc.Delete(context.Background(), "boss@example.com", "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "boss@example.com", "abc"); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

type userStoreStub struct {
	users map[string]model.User
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{users: map[string]model.User{}}
}

func (s *userStoreStub) Upsert(_ context.Context, user model.User) (model.User, bool, error) {
	if existing, ok := s.users[user.Email]; ok {
		return existing, false, nil
	}
	user.ID = "id-" + user.Email
	s.users[user.Email] = user
	return user, true, nil
}

func (s *userStoreStub) GetByEmail(_ context.Context, email string) (model.User, error) {
	user, ok := s.users[email]
	if !ok {
		return model.User{}, apperr.ErrUserNotFound
	}
	return user, nil
}

func (s *userStoreStub) List(_ context.Context, _ string) ([]model.User, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *userStoreStub) SetRole(_ context.Context, id string, role enums.Role) error {
	for email, u := range s.users {
		if u.ID == id {
			u.Role = role
			s.users[email] = u
			return nil
		}
	}
	return apperr.ErrUserNotFound
}

func (s *userStoreStub) Delete(_ context.Context, id string) error {
	for email, u := range s.users {
		if u.ID == id {
			delete(s.users, email)
			return nil
		}
	}
	return apperr.ErrUserNotFound
}
