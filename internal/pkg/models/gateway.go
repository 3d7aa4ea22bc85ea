package models

import "github.com/google/uuid"

// ProviderStatus is the provider-reported status of a charge, normalized
// across gateways.
type ProviderStatus string

const (
	ProviderStatusPending    ProviderStatus = "pending"
	ProviderStatusAuthorized ProviderStatus = "authorized"
	ProviderStatusCaptured   ProviderStatus = "captured"
	ProviderStatusSettled    ProviderStatus = "settled"
	ProviderStatusFailed     ProviderStatus = "failed"
	ProviderStatusRefunded   ProviderStatus = "refunded"
	ProviderStatusVoided     ProviderStatus = "voided"
)

// ProviderRef is the provider-side handle for a charge together with its
// last reported status.
type ProviderRef struct {
	Provider  string         `json:"provider"`
	Reference string         `json:"reference"`
	Status    ProviderStatus `json:"status"`
}

// ChargeRequest is the normalized outbound charge call to a gateway.
type ChargeRequest struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	AmountMinor   int64     `json:"amount_minor"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
}
