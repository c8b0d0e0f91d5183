package model

import (
	"time"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
)

type ContactUnlockRequest struct {
	ID               string             `json:"_id"`
	RequesterID      string             `json:"requesterEmail"`
	TargetSequenceID int64              `json:"biodataId"`
	TargetName       string             `json:"name"`
	Status           enums.UnlockStatus `json:"status"`
	PaymentReference string             `json:"transactionId"`
	AmountCents      int64              `json:"amountCents"`
	Currency         string             `json:"currency"`
	CreatedAt        time.Time          `json:"createdAt"`
	ApprovedAt       *time.Time         `json:"approvedAt,omitempty"`
}
