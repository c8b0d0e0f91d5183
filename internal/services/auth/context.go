package auth

import (
	"context"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
)

type identityContextKey string

const identityKey identityContextKey = "auth_identity"

// Identity is the authenticated caller. Role is resolved from the account
// store per request, not taken from the token.
type Identity struct {
	UserID string
	SID    string
	Role   enums.Role
}

func (i Identity) Can(capability enums.Capability) bool {
	return enums.Can(i.Role, capability)
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
