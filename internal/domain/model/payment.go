package model

import (
	"time"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
)

type Payment struct {
	ID               int64                `json:"id"`
	PayerID          string               `json:"email"`
	Reference        string               `json:"transactionId"`
	Purpose          enums.PaymentPurpose `json:"purpose"`
	AmountCents      int64                `json:"amountCents"`
	Currency         string               `json:"currency"`
	TargetSequenceID int64                `json:"biodataId"`
	CreatedAt        time.Time            `json:"createdAt"`
}

// PaymentIntent is what a provider hands back for the client to confirm.
type PaymentIntent struct {
	Provider     string               `json:"provider"`
	IntentID     string               `json:"intentId"`
	ClientSecret string               `json:"clientSecret"`
	Purpose      enums.PaymentPurpose `json:"purpose"`
	AmountCents  int64                `json:"amountCents"`
	Currency     string               `json:"currency"`
}
