package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	"github.com/ivankudzin/truecompanions/backend/internal/pkg/validate"
)

const (
	MinSessionTTL = time.Hour
	MaxSessionTTL = 30 * 24 * time.Hour
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	DeleteSession(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

type Service struct {
	jwt        *JWTManager
	sessions   SessionStore
	accounts   AccountStore
	sessionTTL time.Duration
	log        *zap.Logger
	now        func() time.Time
}

func NewService(jwtManager *JWTManager, sessions SessionStore, accounts AccountStore, sessionTTL time.Duration) *Service {
	if sessionTTL < MinSessionTTL {
		sessionTTL = MinSessionTTL
	}
	if sessionTTL > MaxSessionTTL {
		sessionTTL = MaxSessionTTL
	}

	return &Service{
		jwt:        jwtManager,
		sessions:   sessions,
		accounts:   accounts,
		sessionTTL: sessionTTL,
		log:        zap.NewNop(),
		now:        time.Now,
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// IssueToken opens a session for a registered account and signs an access
// token for it.
func (s *Service) IssueToken(ctx context.Context, email string) (AuthResult, error) {
	email = validate.NormalizeEmail(email)
	if email == "" {
		return AuthResult{}, apperr.Invalid("email is required")
	}
	if s.accounts == nil || s.sessions == nil {
		return AuthResult{}, fmt.Errorf("auth dependencies are not configured")
	}

	user, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("load account: %w", err)
	}

	sessionID, err := NewSessionID()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate session id: %w", err)
	}

	session := SessionRecord{
		SID:       sessionID,
		UserID:    user.Email,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.Email, sessionID, user.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	s.log.Debug("session issued", zap.String("user_id", user.Email), zap.String("sid", sessionID))

	return AuthResult{
		AccessToken:   accessToken,
		AccessExpires: accessExpires,
		User:          user,
	}, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteSession(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete all sessions: %w", err)
	}
	return nil
}

// ValidateAccessToken checks the signature and that the session behind the
// token is still live. Any lookup failure rejects the token.
func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AccessClaims{}, ErrUnauthorized
		}
		return AccessClaims{}, fmt.Errorf("get session: %w", err)
	}

	if session.UserID != claims.UserID {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().After(session.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}
