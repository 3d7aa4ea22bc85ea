package payment

import (
	"context"

	"github.com/myreprise/payflow/internal/pkg/models"
)

// PaymentGateway is the capability interface normalizing provider-specific
// payment operations into a common model. One implementation per provider.
type PaymentGateway interface {
	// Name returns the provider name this adapter serves.
	Name() string

	// Charge initiates a charge and returns the provider-side reference.
	Charge(ctx context.Context, req *models.ChargeRequest) (*models.ProviderRef, error)

	// Capture commits a previously authorized charge.
	Capture(ctx context.Context, providerRef string) (*models.ProviderRef, error)

	// Void cancels an authorization before capture.
	Void(ctx context.Context, providerRef string) (*models.ProviderRef, error)

	// Refund reverses a captured or settled charge.
	Refund(ctx context.Context, providerRef string, amountMinor int64) (*models.ProviderRef, error)

	// Status queries the authoritative provider-side state, used by
	// reconciliation.
	Status(ctx context.Context, providerRef string) (*models.ProviderRef, error)

	// NormalizeWebhook converts a raw provider callback into a transition
	// event. Fails with models.ErrUnrecognizedPayload for unknown shapes.
	NormalizeWebhook(payload []byte) (*models.TransitionEvent, error)
}

// GatewayRegistry resolves provider names to their adapters.
type GatewayRegistry interface {
	// Get returns the adapter for the provider name, or
	// models.ErrProviderUnknown.
	Get(provider string) (PaymentGateway, error)
}

// NotificationGW publishes terminal-state notifications to the configured
// sink with at-least-once delivery.
type NotificationGW interface {
	PublishStateChange(ctx context.Context, notification *models.StateNotification) error
}

// WebhookVerifier validates the authenticity of inbound provider callbacks
// before they reach the state machine. Fails closed.
type WebhookVerifier interface {
	Verify(provider string, payload []byte, signatureHeader string) error
}
