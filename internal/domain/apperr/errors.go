package apperr

import "errors"

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidInput Kind = "invalid_input"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindRateLimited  Kind = "rate_limited"
	KindInternal     Kind = "internal"
)

// Error is a classified failure. Sentinels are compared by identity, so
// wrapping with fmt.Errorf("...: %w", err) keeps them matchable.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrProfileNotFound       = New(KindNotFound, "PROFILE_NOT_FOUND", "biodata not found")
	ErrAlreadyPremium        = New(KindConflict, "ALREADY_PREMIUM", "biodata is already premium")
	ErrRequestAlreadyPending = New(KindConflict, "PREMIUM_REQUEST_PENDING", "premium request already pending")
	ErrProfileNotModifiable  = New(KindNotFound, "PROFILE_NOT_MODIFIABLE", "biodata not found or not in a modifiable state")
	ErrInvalidTarget         = New(KindNotFound, "INVALID_TARGET", "target biodata not found")
	ErrDuplicateRequest      = New(KindConflict, "DUPLICATE_CONTACT_REQUEST", "contact request already exists for this biodata")
	ErrUnlockRequestNotFound = New(KindNotFound, "CONTACT_REQUEST_NOT_FOUND", "contact request not found or already approved")
	ErrPaymentReferenceUsed  = New(KindConflict, "PAYMENT_REFERENCE_USED", "payment reference already recorded")
	ErrDuplicateFavorite     = New(KindConflict, "DUPLICATE_FAVORITE", "biodata already in favorites")
	ErrFavoriteNotFound      = New(KindNotFound, "FAVORITE_NOT_FOUND", "favorite not found")
	ErrProfileExists         = New(KindConflict, "PROFILE_EXISTS", "biodata already exists for this account")
	ErrSequenceCollision     = New(KindConflict, "SEQUENCE_COLLISION", "biodata id was taken concurrently, retry")
	ErrUserNotFound          = New(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrForbidden             = New(KindForbidden, "FORBIDDEN", "forbidden access")
	ErrUnauthorized          = New(KindUnauthorized, "UNAUTHORIZED", "unauthorized access")
	ErrValidation            = New(KindInvalidInput, "VALIDATION_ERROR", "validation error")
	ErrRateLimited           = New(KindRateLimited, "RATE_LIMITED", "too many requests")
	ErrInternal              = New(KindInternal, "INTERNAL_ERROR", "internal server error")
)

// KindOf returns the kind of the first classified error in the chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As returns the classified error in the chain, or ErrInternal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal
}

// Invalid wraps ErrValidation with a specific message while keeping it
// matchable through errors.Is.
func Invalid(message string) error {
	return &detailed{base: ErrValidation, message: message}
}

type detailed struct {
	base    *Error
	message string
}

func (d *detailed) Error() string {
	return d.message
}

func (d *detailed) Unwrap() error {
	return d.base
}

// Message returns the client-facing message for err: the detail of an
// Invalid error, the sentinel message otherwise.
func Message(err error) string {
	var d *detailed
	if errors.As(err, &d) {
		return d.message
	}
	return As(err).Message
}
