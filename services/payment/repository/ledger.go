package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/myreprise/payflow/internal/pkg/models"
)

// LedgerRepository is the Postgres-backed transaction ledger. Transactions
// are a materialized view; transition events are the append-only source of
// truth, deduplicated on (transaction_id, cause, event_id).
type LedgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateTransaction persists a new transaction and its first transition
// event in one database transaction.
func (r *LedgerRepository) CreateTransaction(ctx context.Context, txn *models.Transaction, event *models.TransitionEvent) error {
	now := time.Now().UTC()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	event.CreatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertTxn := `
		INSERT INTO transactions (
			id, idempotency_key, amount_minor, currency, method, provider,
			provider_ref, state, review_required, review_reason, created_at, updated_at
		) VALUES (
			:id, :idempotency_key, :amount_minor, :currency, :method, :provider,
			:provider_ref, :state, :review_required, :review_reason, :created_at, :updated_at
		)
	`
	if _, err = tx.NamedExecContext(ctx, insertTxn, txn); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	insertEvent := `
		INSERT INTO transaction_events (
			id, transaction_id, from_state, to_state, event_type, cause,
			event_id, provider_ref, payload, created_at
		) VALUES (
			:id, :transaction_id, :from_state, :to_state, :event_type, :cause,
			:event_id, :provider_ref, :payload, :created_at
		)
	`
	if _, err = tx.NamedExecContext(ctx, insertEvent, event); err != nil {
		return fmt.Errorf("failed to insert transition event: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AppendEvent applies a transition event with an optimistic concurrency
// check: the materialized state row is updated only if it still matches the
// event's from-state. The event insert and state update share one database
// transaction, so a transition is durable before it is visible.
func (r *LedgerRepository) AppendEvent(ctx context.Context, event *models.TransitionEvent) (models.TransactionState, error) {
	toState, ok := models.NextState(event.FromState, event.EventType)
	if !ok {
		return "", fmt.Errorf("%w: %s does not accept %s",
			models.ErrInvalidTransition, event.FromState, event.EventType)
	}
	event.ToState = toState
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertEvent := `
		INSERT INTO transaction_events (
			id, transaction_id, from_state, to_state, event_type, cause,
			event_id, provider_ref, payload, created_at
		) VALUES (
			:id, :transaction_id, :from_state, :to_state, :event_type, :cause,
			:event_id, :provider_ref, :payload, :created_at
		)
		ON CONFLICT (transaction_id, cause, event_id) DO NOTHING
	`
	res, err := tx.NamedExecContext(ctx, insertEvent, event)
	if err != nil {
		return "", fmt.Errorf("failed to insert transition event: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to read rows affected: %w", err)
	}
	if inserted == 0 {
		return "", models.ErrDuplicateEvent
	}

	updateState := `
		UPDATE transactions
		SET state = $1,
			provider_ref = COALESCE(NULLIF($2, ''), provider_ref),
			updated_at = $3
		WHERE id = $4 AND state = $5
	`
	res, err = tx.ExecContext(ctx, updateState,
		toState, event.ProviderRef, event.CreatedAt, event.TransactionID, event.FromState)
	if err != nil {
		return "", fmt.Errorf("failed to update transaction state: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to read rows affected: %w", err)
	}
	if updated == 0 {
		// State moved under us; the caller must re-read and decide.
		return "", fmt.Errorf("%w: transaction %s is no longer in state %s",
			models.ErrInvalidTransition, event.TransactionID, event.FromState)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transition: %w", err)
	}

	return toState, nil
}

// GetTransaction retrieves the materialized current-state view
func (r *LedgerRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `
		SELECT id, idempotency_key, amount_minor, currency, method, provider,
			COALESCE(provider_ref, '') AS provider_ref, state, review_required,
			COALESCE(review_reason, '') AS review_reason, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`

	var txn models.Transaction
	if err := r.db.GetContext(ctx, &txn, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &txn, nil
}

// GetByProviderRef resolves a provider-side reference to the local transaction
func (r *LedgerRepository) GetByProviderRef(ctx context.Context, provider, providerRef string) (*models.Transaction, error) {
	query := `
		SELECT id, idempotency_key, amount_minor, currency, method, provider,
			COALESCE(provider_ref, '') AS provider_ref, state, review_required,
			COALESCE(review_reason, '') AS review_reason, created_at, updated_at
		FROM transactions
		WHERE provider = $1 AND provider_ref = $2
	`

	var txn models.Transaction
	if err := r.db.GetContext(ctx, &txn, query, provider, providerRef); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by provider ref: %w", err)
	}

	return &txn, nil
}

// History returns the ordered sequence of transition events for a transaction
func (r *LedgerRepository) History(ctx context.Context, id uuid.UUID) ([]*models.TransitionEvent, error) {
	query := `
		SELECT id, transaction_id, from_state, to_state, event_type, cause,
			event_id, COALESCE(provider_ref, '') AS provider_ref, payload, created_at
		FROM transaction_events
		WHERE transaction_id = $1
		ORDER BY created_at ASC, id ASC
	`

	var events []*models.TransitionEvent
	if err := r.db.SelectContext(ctx, &events, query, id); err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}

	return events, nil
}

// ListStale returns non-terminal transactions untouched since olderThan
func (r *LedgerRepository) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, idempotency_key, amount_minor, currency, method, provider,
			COALESCE(provider_ref, '') AS provider_ref, state, review_required,
			COALESCE(review_reason, '') AS review_reason, created_at, updated_at
		FROM transactions
		WHERE state NOT IN ('settled', 'failed', 'refunded', 'voided')
			AND review_required = FALSE
			AND updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2
	`

	var txns []*models.Transaction
	if err := r.db.SelectContext(ctx, &txns, query, olderThan, limit); err != nil {
		return nil, fmt.Errorf("failed to list stale transactions: %w", err)
	}

	return txns, nil
}

// SetProviderRef records the provider-side reference without a state change
func (r *LedgerRepository) SetProviderRef(ctx context.Context, id uuid.UUID, providerRef string) error {
	query := `
		UPDATE transactions
		SET provider_ref = $1, updated_at = $2
		WHERE id = $3
	`

	res, err := r.db.ExecContext(ctx, query, providerRef, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set provider ref: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return models.ErrTransactionNotFound
	}

	return nil
}

// FlagForReview marks a transaction for manual review without touching state
func (r *LedgerRepository) FlagForReview(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE transactions
		SET review_required = TRUE, review_reason = $1, updated_at = $2
		WHERE id = $3
	`

	res, err := r.db.ExecContext(ctx, query, reason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to flag transaction for review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return models.ErrTransactionNotFound
	}

	return nil
}

// SaveUnrecognizedPayload stores a webhook payload no adapter could normalize
func (r *LedgerRepository) SaveUnrecognizedPayload(ctx context.Context, provider string, payload []byte) error {
	query := `
		INSERT INTO unrecognized_payloads (id, provider, payload, received_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, uuid.New(), provider, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save unrecognized payload: %w", err)
	}

	return nil
}
