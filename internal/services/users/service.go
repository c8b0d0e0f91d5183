package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	"github.com/ivankudzin/truecompanions/backend/internal/pkg/validate"
)

type Store interface {
	Upsert(ctx context.Context, user model.User) (model.User, bool, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context, search string) ([]model.User, error)
	SetRole(ctx context.Context, id string, role enums.Role) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

type RegisterInput struct {
	Email    string
	Name     string
	PhotoURL string
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

// Register creates the account on first sign-in. Repeating it for a known
// email returns the stored account with created=false.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, bool, error) {
	email := validate.NormalizeEmail(in.Email)
	if !validate.Email(email) {
		return model.User{}, false, apperr.Invalid("a valid email is required")
	}
	name := strings.TrimSpace(in.Name)
	if !validate.MaxLen(name, 120) {
		return model.User{}, false, apperr.Invalid("name is too long")
	}

	user, created, err := s.store.Upsert(ctx, model.User{
		Email:     email,
		Name:      name,
		PhotoURL:  strings.TrimSpace(in.PhotoURL),
		Role:      enums.RoleUser,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return model.User{}, false, fmt.Errorf("register user: %w", err)
	}
	return user, created, nil
}

func (s *Service) List(ctx context.Context, search string) ([]model.User, error) {
	users, err := s.store.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) SetRole(ctx context.Context, actor, id string, role enums.Role) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Invalid("user id is required")
	}
	if _, ok := enums.ParseRole(string(role)); !ok || role == "" {
		return apperr.Invalid("unknown role")
	}

	if err := s.store.SetRole(ctx, id, role); err != nil {
		return fmt.Errorf("set user role: %w", err)
	}

	s.log.Info("audit",
		zap.String("action", "user.set_role"),
		zap.String("actor", actor),
		zap.String("target", id),
		zap.String("role", string(role)),
	)
	return nil
}

func (s *Service) MakeAdmin(ctx context.Context, actor, id string) error {
	return s.SetRole(ctx, actor, id, enums.RoleAdmin)
}

func (s *Service) MakePremium(ctx context.Context, actor, id string) error {
	return s.SetRole(ctx, actor, id, enums.RolePremium)
}

func (s *Service) Delete(ctx context.Context, actor, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Invalid("user id is required")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info("audit",
		zap.String("action", "user.delete"),
		zap.String("actor", actor),
		zap.String("target", id),
	)
	return nil
}

// IsAdmin answers only for the caller's own email.
func (s *Service) IsAdmin(ctx context.Context, caller, email string) (bool, error) {
	if validate.NormalizeEmail(email) != validate.NormalizeEmail(caller) {
		return false, apperr.ErrForbidden
	}

	role, err := s.Role(ctx, caller)
	if err != nil {
		return false, err
	}
	return enums.Can(role, enums.CapOperate), nil
}

// Role returns the current role of an account. Unknown accounts have none
// and fail with ErrUserNotFound.
func (s *Service) Role(ctx context.Context, email string) (enums.Role, error) {
	user, err := s.store.GetByEmail(ctx, validate.NormalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("resolve role: %w", err)
	}
	return user.Role, nil
}
