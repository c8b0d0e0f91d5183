package dto

type PaymentIntentRequest struct {
	Purpose string `json:"purpose"`
	// Accepted for older clients and never read; the amount is priced
	// server side.
	Price any `json:"price,omitempty"`
}

type UnlockRequestCreate struct {
	BiodataID     int64  `json:"biodataId"`
	TransactionID string `json:"transactionId"`
}
