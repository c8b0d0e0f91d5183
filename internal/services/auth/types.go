package auth

import (
	"errors"
	"time"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

var (
	ErrInvalidInput    = apperr.ErrValidation
	ErrUnauthorized    = apperr.ErrUnauthorized
	ErrSessionNotFound = errors.New("session not found")
)

type SessionRecord struct {
	SID       string
	UserID    string
	ExpiresAt time.Time
}

type AccessClaims struct {
	UserID    string
	SID       string
	Role      enums.Role
	ExpiresAt time.Time
}

type AuthResult struct {
	AccessToken   string
	AccessExpires time.Time
	User          model.User
}
