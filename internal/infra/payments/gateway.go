package payments

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	ProviderDev    = "dev"
	ProviderStripe = "stripe"
)

type IntentRequest struct {
	AmountCents       int64
	Currency          string
	PaymentMethodType string
	CustomerEmail     string
	Metadata          map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

type Gateway interface {
	Provider() string
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
}

type Config struct {
	Provider  string
	SecretKey string
}

// New selects the configured gateway.
func New(cfg Config, httpClient *http.Client) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderDev, "":
		return NewDevGateway(), nil
	case ProviderStripe:
		return NewStripeGateway(cfg.SecretKey, httpClient)
	default:
		return nil, fmt.Errorf("unknown payments provider %q", cfg.Provider)
	}
}
