package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	"github.com/ivankudzin/truecompanions/backend/internal/infra/logger"
	redrepo "github.com/ivankudzin/truecompanions/backend/internal/repo/redis"
	authsvc "github.com/ivankudzin/truecompanions/backend/internal/services/auth"
)

type accountsStub struct {
	roles map[string]enums.Role
}

func (s accountsStub) GetByEmail(_ context.Context, email string) (model.User, error) {
	role, ok := s.roles[email]
	if !ok {
		return model.User{}, apperr.ErrUserNotFound
	}
	return model.User{Email: email, Role: role}, nil
}

func (s accountsStub) Role(ctx context.Context, email string) (enums.Role, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func newAuthFixture(t *testing.T, accounts accountsStub) *authsvc.Service {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	jwtManager := authsvc.NewJWTManager("test-secret", time.Hour)
	return authsvc.NewService(jwtManager, redrepo.NewSessionRepo(client), accounts, time.Hour)
}

func identityProbe(seen *authsvc.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := authsvc.IdentityFromContext(r.Context())
		*seen = identity
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddlewareResolvesCurrentRole(t *testing.T) {
	accounts := accountsStub{roles: map[string]enums.Role{"a@example.com": enums.RoleUser}}
	auth := newAuthFixture(t, accounts)

	issued, err := auth.IssueToken(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	// Promoted after the token was signed.
	accounts.roles["a@example.com"] = enums.RoleAdmin

	var seen authsvc.Identity
	req := httptest.NewRequest(http.MethodGet, "/admin-stats", nil)
	req.Header.Set("Authorization", "Bearer "+issued.AccessToken)
	rr := httptest.NewRecorder()
	AuthMiddleware(auth, accounts, zap.NewNop())(identityProbe(&seen)).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
	if seen.Role != enums.RoleAdmin || seen.UserID != "a@example.com" || seen.SID == "" {
		t.Fatalf("unexpected identity: %+v", seen)
	}
}

func TestAuthMiddlewareRejectsDeletedAccountAndLoggedOutSession(t *testing.T) {
	accounts := accountsStub{roles: map[string]enums.Role{"a@example.com": enums.RoleUser}}
	auth := newAuthFixture(t, accounts)

	issued, err := auth.IssueToken(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	call := func() int {
		var seen authsvc.Identity
		req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
		req.Header.Set("Authorization", "Bearer "+issued.AccessToken)
		rr := httptest.NewRecorder()
		AuthMiddleware(auth, accounts, nil)(identityProbe(&seen)).ServeHTTP(rr, req)
		return rr.Code
	}

	delete(accounts.roles, "a@example.com")
	if code := call(); code != http.StatusUnauthorized {
		t.Fatalf("deleted account: got %d want %d", code, http.StatusUnauthorized)
	}

	accounts.roles["a@example.com"] = enums.RoleUser
	if code := call(); code != http.StatusNoContent {
		t.Fatalf("restored account: got %d", code)
	}

	claims, err := auth.ValidateAccessToken(context.Background(), issued.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := auth.Logout(context.Background(), claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if code := call(); code != http.StatusUnauthorized {
		t.Fatalf("logged out session: got %d want %d", code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRequiresBearer(t *testing.T) {
	auth := newAuthFixture(t, accountsStub{roles: map[string]enums.Role{}})

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer not-a-jwt"} {
		var seen authsvc.Identity
		req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		AuthMiddleware(auth, accountsStub{}, nil)(identityProbe(&seen)).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: got %d want %d", header, rr.Code, http.StatusUnauthorized)
		}
	}
}

func TestRequireCapability(t *testing.T) {
	cases := []struct {
		name   string
		role   enums.Role
		attach bool
		want   int
	}{
		{name: "no identity", want: http.StatusUnauthorized},
		{name: "user", role: enums.RoleUser, attach: true, want: http.StatusForbidden},
		{name: "premium", role: enums.RolePremium, attach: true, want: http.StatusForbidden},
		{name: "admin", role: enums.RoleAdmin, attach: true, want: http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin-stats", nil)
			if tc.attach {
				req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
					UserID: "x@example.com",
					SID:    "sid-x",
					Role:   tc.role,
				}))
			}
			rr := httptest.NewRecorder()
			var seen authsvc.Identity
			RequireCapability(enums.CapOperate)(identityProbe(&seen)).ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("unexpected status: got %d want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestRequestLoggerAttachesRequestScopedLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := chi.NewRouter()
	ApplyMiddlewares(r, zap.New(core), []string{"http://localhost:5173"})
	r.Get("/probe", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/probe", nil))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	inside := logs.FilterMessage("inside handler").All()
	if len(inside) != 1 {
		t.Fatalf("handler log not captured: %d", len(inside))
	}
	if _, ok := inside[0].ContextMap()["request_id"]; !ok {
		t.Fatalf("request id missing from handler log")
	}

	access := logs.FilterMessage("http_request").All()
	if len(access) != 1 {
		t.Fatalf("expected one access log line, got %d", len(access))
	}
	if status := access[0].ContextMap()["status"]; status != int64(http.StatusTeapot) {
		t.Fatalf("unexpected logged status: %v", status)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := chi.NewRouter()
	ApplyMiddlewares(r, zap.NewNop(), []string{"http://localhost:5173"})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}
