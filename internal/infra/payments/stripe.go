package payments

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string, httpClient *http.Client) (*StripeGateway, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	api := &client.API{}
	api.Init(secretKey, stripe.NewBackends(httpClient))
	return &StripeGateway{api: api}, nil
}

func (g *StripeGateway) Provider() string {
	return ProviderStripe
}

func (g *StripeGateway) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	if req.AmountCents <= 0 || strings.TrimSpace(req.Currency) == "" {
		return Intent{}, fmt.Errorf("stripe intent requires amount and currency")
	}

	methodType := req.PaymentMethodType
	if methodType == "" {
		methodType = "card"
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.AmountCents),
		Currency:           stripe.String(strings.ToLower(req.Currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{methodType}),
	}
	if req.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(req.CustomerEmail)
	}
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("create stripe payment intent: %w", err)
	}

	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
