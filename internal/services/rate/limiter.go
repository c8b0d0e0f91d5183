package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
)

type Action string

const (
	ActionUnlockRequest Action = "unlock"
	ActionPaymentIntent Action = "intent"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

type Rule struct {
	Limit  int
	Window time.Duration
}

type Limiter struct {
	store WindowStore
	rules map[Action]Rule
	log   *zap.Logger
}

// LimitedError carries the wait before the caller may retry.
type LimitedError struct {
	RetryAfterSec int64
}

func (e *LimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfterSec)
}

func (e *LimitedError) RetryAfterSeconds() int64 {
	return e.RetryAfterSec
}

func (e *LimitedError) Unwrap() error {
	return apperr.ErrRateLimited
}

func NewLimiter(store WindowStore, rules map[Action]Rule) *Limiter {
	cleaned := make(map[Action]Rule, len(rules))
	for action, rule := range rules {
		if rule.Limit > 0 && rule.Window > 0 {
			cleaned[action] = rule
		}
	}

	return &Limiter{
		store: store,
		rules: cleaned,
		log:   zap.NewNop(),
	}
}

func (l *Limiter) AttachLogger(log *zap.Logger) {
	if log != nil {
		l.log = log
	}
}

// Allow counts one attempt of action by subject. Actions without a rule are
// always allowed.
func (l *Limiter) Allow(ctx context.Context, action Action, subject string) (int64, bool, error) {
	if strings.TrimSpace(subject) == "" {
		return 0, false, fmt.Errorf("rate subject is required")
	}
	rule, ok := l.rules[action]
	if !ok {
		return 0, true, nil
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	count, ttl, err := l.store.IncrementWindow(ctx, windowKey(action, subject), rule.Window)
	if err != nil {
		return 0, false, err
	}
	if count > int64(rule.Limit) {
		return ceilSeconds(ttl), false, nil
	}

	return 0, true, nil
}

func (l *Limiter) RetryAfter(ctx context.Context, action Action, subject string) (int64, error) {
	rule, ok := l.rules[action]
	if !ok {
		return 0, nil
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}

	count, ttl, err := l.store.WindowState(ctx, windowKey(action, subject))
	if err != nil {
		return 0, err
	}
	if count >= int64(rule.Limit) {
		return ceilSeconds(ttl), nil
	}
	return 0, nil
}

// Check is Allow for request paths: a store failure is logged and the
// attempt is let through, a blocked attempt returns *LimitedError.
func (l *Limiter) Check(ctx context.Context, action Action, subject string) error {
	if l == nil {
		return nil
	}

	retryAfter, allowed, err := l.Allow(ctx, action, subject)
	if err != nil {
		l.log.Warn("rate limiter unavailable, allowing request",
			zap.String("action", string(action)),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return nil
	}
	if !allowed {
		return &LimitedError{RetryAfterSec: retryAfter}
	}
	return nil
}

func windowKey(action Action, subject string) string {
	return "rate:" + string(action) + ":" + strings.ToLower(subject)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
