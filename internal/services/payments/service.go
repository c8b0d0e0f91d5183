package payments

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	paymentsinfra "github.com/ivankudzin/truecompanions/backend/internal/infra/payments"
	"github.com/ivankudzin/truecompanions/backend/internal/pkg/validate"
	"github.com/ivankudzin/truecompanions/backend/internal/services/rate"
)

type LedgerStore interface {
	ListByPayer(ctx context.Context, payerID string) ([]model.Payment, error)
	ListAll(ctx context.Context) ([]model.Payment, error)
	Revenue(ctx context.Context) (int64, error)
}

type RateChecker interface {
	Check(ctx context.Context, action rate.Action, subject string) error
}

// Pricing maps each purchasable purpose to its server side amount.
type Pricing struct {
	UnlockPriceCents  int64
	Currency          string
	PaymentMethodType string
}

type Dependencies struct {
	Gateway paymentsinfra.Gateway
	Ledger  LedgerStore
	Limiter RateChecker
	Pricing Pricing
}

type Service struct {
	gateway paymentsinfra.Gateway
	ledger  LedgerStore
	limiter RateChecker
	pricing Pricing
	log     *zap.Logger
}

func NewService(deps Dependencies) *Service {
	pricing := deps.Pricing
	pricing.Currency = strings.ToLower(strings.TrimSpace(pricing.Currency))
	if pricing.Currency == "" {
		pricing.Currency = "usd"
	}
	if strings.TrimSpace(pricing.PaymentMethodType) == "" {
		pricing.PaymentMethodType = "card"
	}

	return &Service{
		gateway: deps.Gateway,
		ledger:  deps.Ledger,
		limiter: deps.Limiter,
		pricing: pricing,
		log:     zap.NewNop(),
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// CreateIntent opens a provider payment for the purpose. Clients never supply
// the amount.
func (s *Service) CreateIntent(ctx context.Context, callerID, purpose string) (model.PaymentIntent, error) {
	if s.gateway == nil {
		return model.PaymentIntent{}, fmt.Errorf("payment gateway is not configured")
	}
	callerID = validate.NormalizeEmail(callerID)
	if callerID == "" {
		return model.PaymentIntent{}, apperr.ErrUnauthorized
	}

	normalized, ok := enums.ParsePaymentPurpose(purpose)
	if !ok {
		return model.PaymentIntent{}, apperr.Invalid("unsupported payment purpose")
	}
	amount, err := s.amountFor(normalized)
	if err != nil {
		return model.PaymentIntent{}, err
	}

	if s.limiter != nil {
		if err := s.limiter.Check(ctx, rate.ActionPaymentIntent, callerID); err != nil {
			return model.PaymentIntent{}, err
		}
	}

	intent, err := s.gateway.CreateIntent(ctx, paymentsinfra.IntentRequest{
		AmountCents:       amount,
		Currency:          s.pricing.Currency,
		PaymentMethodType: s.pricing.PaymentMethodType,
		CustomerEmail:     callerID,
		Metadata: map[string]string{
			"purpose":      string(normalized),
			"payer":        callerID,
			"amount_cents": strconv.FormatInt(amount, 10),
		},
	})
	if err != nil {
		return model.PaymentIntent{}, fmt.Errorf("create payment intent: %w", err)
	}

	s.log.Info("payment intent created",
		zap.String("provider", s.gateway.Provider()),
		zap.String("payer", callerID),
		zap.String("purpose", string(normalized)),
		zap.Int64("amount_cents", amount),
		zap.String("intent_id", intent.ID),
	)

	return model.PaymentIntent{
		Provider:     s.gateway.Provider(),
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Purpose:      normalized,
		AmountCents:  amount,
		Currency:     s.pricing.Currency,
	}, nil
}

func (s *Service) ListMine(ctx context.Context, callerID string) ([]model.Payment, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("payment ledger is not configured")
	}
	items, err := s.ledger.ListByPayer(ctx, validate.NormalizeEmail(callerID))
	if err != nil {
		return nil, fmt.Errorf("list own payments: %w", err)
	}
	return items, nil
}

func (s *Service) ListAll(ctx context.Context) ([]model.Payment, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("payment ledger is not configured")
	}
	items, err := s.ledger.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return items, nil
}

// Revenue is the sum of every recorded payment in minor units.
func (s *Service) Revenue(ctx context.Context) (int64, error) {
	if s.ledger == nil {
		return 0, fmt.Errorf("payment ledger is not configured")
	}
	total, err := s.ledger.Revenue(ctx)
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}

func (s *Service) amountFor(purpose enums.PaymentPurpose) (int64, error) {
	switch purpose {
	case enums.PaymentPurposeContactUnlock:
		if s.pricing.UnlockPriceCents <= 0 {
			return 0, fmt.Errorf("unlock price is not configured")
		}
		return s.pricing.UnlockPriceCents, nil
	default:
		return 0, apperr.Invalid("unsupported payment purpose")
	}
}
