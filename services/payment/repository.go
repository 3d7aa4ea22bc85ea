package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/myreprise/payflow/internal/pkg/models"
)

// LedgerRepo defines the interface for the transaction ledger.
// The ledger is append-only: current state is mutated exclusively through
// AppendEvent's optimistic concurrency check.
type LedgerRepo interface {
	// CreateTransaction persists a new transaction together with its first
	// transition event in one atomic write.
	CreateTransaction(ctx context.Context, txn *models.Transaction, event *models.TransitionEvent) error

	// AppendEvent validates the transition against the allowed-transition
	// table, applies it iff the event's from-state matches the current
	// state, and records the event durably. Returns the new state.
	// Fails with models.ErrInvalidTransition on a state mismatch and
	// models.ErrDuplicateEvent when the same cause+event identity was
	// already applied.
	AppendEvent(ctx context.Context, event *models.TransitionEvent) (models.TransactionState, error)

	// GetTransaction returns the materialized current-state view.
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)

	// GetByProviderRef resolves a provider-side reference to the local
	// transaction.
	GetByProviderRef(ctx context.Context, provider, providerRef string) (*models.Transaction, error)

	// History returns the ordered sequence of transition events.
	History(ctx context.Context, id uuid.UUID) ([]*models.TransitionEvent, error)

	// ListStale returns non-terminal transactions untouched since olderThan,
	// capped at limit, for the reconciliation sweep.
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*models.Transaction, error)

	// SetProviderRef records the provider-side reference on the materialized
	// view without a state transition. Used right after a charge call so
	// webhooks can resolve the transaction.
	SetProviderRef(ctx context.Context, id uuid.UUID, providerRef string) error

	// FlagForReview marks a transaction for manual review without mutating
	// its state.
	FlagForReview(ctx context.Context, id uuid.UUID, reason string) error

	// SaveUnrecognizedPayload stores a webhook payload no adapter could
	// normalize, for manual review.
	SaveUnrecognizedPayload(ctx context.Context, provider string, payload []byte) error
}

// IdempotencyRepo defines the interface for the idempotency store.
// A given key maps to exactly one outcome; replays return the cached result.
type IdempotencyRepo interface {
	// Reserve claims the key for execution. The returned record's status is
	// new (caller proceeds), in_progress (a racing caller holds it) or
	// completed (cached result attached). Fails with models.ErrKeyConflict
	// when a completed key is reserved with a different payload hash.
	Reserve(ctx context.Context, key, payloadHash string) (*models.IdempotencyRecord, error)

	// Complete stores the outcome for the key so replays are served from
	// cache.
	Complete(ctx context.Context, key string, result *models.CommandResult) error

	// Release drops an in-progress reservation after a failed attempt so the
	// client can retry.
	Release(ctx context.Context, key string) error
}
