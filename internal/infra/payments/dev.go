package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DevGateway fabricates intents locally so the unlock flow can run without a
// payment provider account.
type DevGateway struct {
	newID func() string
}

func NewDevGateway() *DevGateway {
	return &DevGateway{newID: func() string { return uuid.NewString() }}
}

func (g *DevGateway) Provider() string {
	return ProviderDev
}

func (g *DevGateway) CreateIntent(_ context.Context, req IntentRequest) (Intent, error) {
	if req.AmountCents <= 0 || req.Currency == "" {
		return Intent{}, fmt.Errorf("dev intent requires amount and currency")
	}
	id := "pi_dev_" + g.newID()
	return Intent{ID: id, ClientSecret: id + "_secret"}, nil
}
