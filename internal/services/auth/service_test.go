package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	redrepo "github.com/ivankudzin/truecompanions/backend/internal/repo/redis"
	authsvc "github.com/ivankudzin/truecompanions/backend/internal/services/auth"
)

func TestIssueTokenRequiresRegisteredAccount(t *testing.T) {
	svc, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := svc.IssueToken(ctx, "ghost@example.com"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown account, got %v", err)
	}
	if _, err := svc.IssueToken(ctx, "  "); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for blank email, got %v", err)
	}
}

func TestIssueAndValidateToken(t *testing.T) {
	svc, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	res, err := svc.IssueToken(ctx, " Rahima@Example.com ")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if res.AccessToken == "" || res.User.Email != "rahima@example.com" {
		t.Fatalf("unexpected issue result: %#v", res)
	}

	claims, err := svc.ValidateAccessToken(ctx, res.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != "rahima@example.com" || claims.Role != enums.RoleAdmin {
		t.Fatalf("unexpected claims: %#v", claims)
	}

	if _, err := svc.ValidateAccessToken(ctx, res.AccessToken+"x"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("tampered token must be unauthorized, got %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	res, err := svc.IssueToken(ctx, "rahima@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, res.AccessToken)
	if err != nil {
		t.Fatalf("validate access token before logout: %v", err)
	}

	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, res.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token should be unauthorized after logout, got err=%v", err)
	}
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	svc, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	other := authsvc.NewJWTManager("other-secret", time.Hour)
	token, _, err := other.GenerateAccessToken("rahima@example.com", "sid", enums.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := svc.ValidateAccessToken(context.Background(), token); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("foreign token must be unauthorized, got %v", err)
	}
}

type accountsStub struct {
	users map[string]model.User
}

func (s accountsStub) GetByEmail(_ context.Context, email string) (model.User, error) {
	user, ok := s.users[email]
	if !ok {
		return model.User{}, apperr.ErrUserNotFound
	}
	return user, nil
}

func newAuthServiceForTest(t *testing.T) (*authsvc.Service, func()) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	repo := redrepo.NewSessionRepo(client)
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	accounts := accountsStub{users: map[string]model.User{
		"rahima@example.com": {ID: "u1", Email: "rahima@example.com", Role: enums.RoleAdmin},
	}}
	svc := authsvc.NewService(jwtManager, repo, accounts, 24*time.Hour)

	cleanup := func() {
		_ = client.Close()
		mini.Close()
	}

	return svc, cleanup
}
