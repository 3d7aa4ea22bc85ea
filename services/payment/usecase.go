package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/myreprise/payflow/internal/pkg/models"
)

// PaymentUC defines the interface for payment orchestration use cases
type PaymentUC interface {
	// InitiateCharge starts a new payment transaction, protected by the
	// caller-supplied idempotency key.
	InitiateCharge(ctx context.Context, cmd *models.ChargeCommand) (*models.CommandResult, error)

	// Capture converts an authorized charge into a committed one.
	Capture(ctx context.Context, transactionID uuid.UUID) (*models.CommandResult, error)

	// Void cancels an authorization before capture.
	Void(ctx context.Context, transactionID uuid.UUID) (*models.CommandResult, error)

	// Refund requests a refund of a captured or settled charge.
	Refund(ctx context.Context, transactionID uuid.UUID, amountMinor int64) (*models.CommandResult, error)

	// GetTransaction returns the materialized current-state view.
	GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error)

	// History returns the ordered transition event log.
	History(ctx context.Context, transactionID uuid.UUID) ([]*models.TransitionEvent, error)

	// ProcessWebhook verifies, normalizes, dedups and applies an inbound
	// provider callback.
	ProcessWebhook(ctx context.Context, provider string, payload []byte, signature string) error

	// ReconcileStale sweeps non-terminal transactions older than the grace
	// threshold against provider state. Returns the number checked.
	ReconcileStale(ctx context.Context) (int, error)
}
