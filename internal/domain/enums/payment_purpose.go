package enums

import "strings"

type PaymentPurpose string

const (
	PaymentPurposeContactUnlock PaymentPurpose = "contact_unlock"
)

func ParsePaymentPurpose(raw string) (PaymentPurpose, bool) {
	switch PaymentPurpose(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentPurposeContactUnlock, "":
		return PaymentPurposeContactUnlock, true
	default:
		return "", false
	}
}

type UnlockStatus string

const (
	UnlockStatusPending  UnlockStatus = "pending"
	UnlockStatusApproved UnlockStatus = "approved"
)
