package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
)

// ProcessWebhook verifies, normalizes, dedups and applies an inbound provider
// callback. Verification failures reject the payload outright; everything
// past verification is acknowledged so the provider stops retrying, with
// anomalies stored or flagged for review instead of dropped.
func (uc *PaymentUsecase) ProcessWebhook(ctx context.Context, provider string, payload []byte, signature string) error {
	if err := uc.verifier.Verify(provider, payload, signature); err != nil {
		uc.logger.Warn("Rejected webhook with invalid signature",
			logger.String("provider", provider),
			logger.Err(err))
		return err
	}

	adapter, err := uc.gateways.Get(provider)
	if err != nil {
		return err
	}

	event, err := adapter.NormalizeWebhook(payload)
	if err != nil {
		if errors.Is(err, models.ErrUnrecognizedPayload) {
			if saveErr := uc.ledger.SaveUnrecognizedPayload(ctx, provider, payload); saveErr != nil {
				return saveErr
			}
			uc.logger.Warn("Stored unrecognized webhook payload for review",
				logger.String("provider", provider),
				logger.Err(err))
			return err
		}
		return err
	}

	// Fast-path dedup in the idempotency store; the ledger's unique event
	// constraint is the durable backstop.
	dedupKey := fmt.Sprintf("webhook:%s:%s", provider, event.EventID)
	record, err := uc.idem.Reserve(ctx, dedupKey, hashPayload(payload))
	if err != nil {
		return err
	}
	switch record.Status {
	case models.IdempotencyCompleted:
		uc.logger.Debug("Acknowledged duplicate webhook delivery",
			logger.String("provider", provider),
			logger.String("event_id", event.EventID))
		return nil
	case models.IdempotencyInProgress:
		// Original delivery is still applying this event.
		return nil
	}

	txn, err := uc.ledger.GetByProviderRef(ctx, provider, event.ProviderRef)
	if err != nil {
		uc.releaseReservation(ctx, dedupKey)
		if errors.Is(err, models.ErrTransactionNotFound) {
			if saveErr := uc.ledger.SaveUnrecognizedPayload(ctx, provider, payload); saveErr != nil {
				return saveErr
			}
			uc.logger.Warn("Stored webhook for unknown provider reference",
				logger.String("provider", provider),
				logger.String("provider_ref", event.ProviderRef))
			return err
		}
		return err
	}

	event.TransactionID = txn.ID
	event.FromState = txn.State

	newState, err := uc.ledger.AppendEvent(ctx, event)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateEvent):
			uc.completeWebhook(ctx, dedupKey, txn.ID, txn.State)
			return nil
		case errors.Is(err, models.ErrInvalidTransition):
			return uc.resolveConflictingWebhook(ctx, dedupKey, txn.ID, event)
		}
		uc.releaseReservation(ctx, dedupKey)
		return err
	}

	uc.completeWebhook(ctx, dedupKey, txn.ID, newState)
	uc.notifyTerminal(ctx, txn.ID, newState)

	uc.logger.Info("Applied webhook transition",
		logger.String("provider", provider),
		logger.String("transaction_id", txn.ID.String()),
		logger.String("event_type", string(event.EventType)),
		logger.String("new_state", string(newState)))

	return nil
}

// resolveConflictingWebhook handles an event the transition table rejected.
// A stale delivery whose effect is already visible is acknowledged silently;
// anything else flags the transaction for manual review and is acknowledged
// so the provider stops redelivering.
func (uc *PaymentUsecase) resolveConflictingWebhook(ctx context.Context, dedupKey string, transactionID uuid.UUID, event *models.TransitionEvent) error {
	current, err := uc.ledger.GetTransaction(ctx, transactionID)
	if err != nil {
		uc.releaseReservation(ctx, dedupKey)
		return err
	}

	if models.LeadsTo(event.EventType, current.State) {
		uc.logger.Debug("Acknowledged stale webhook, effect already applied",
			logger.String("transaction_id", transactionID.String()),
			logger.String("event_type", string(event.EventType)),
			logger.String("state", string(current.State)))
		uc.completeWebhook(ctx, dedupKey, transactionID, current.State)
		return nil
	}

	reason := fmt.Sprintf("conflicting webhook %s (%s) in state %s",
		event.EventType, event.EventID, current.State)
	if err := uc.ledger.FlagForReview(ctx, transactionID, reason); err != nil {
		uc.releaseReservation(ctx, dedupKey)
		return err
	}

	uc.logger.Warn("Flagged transaction for review on conflicting webhook",
		logger.String("transaction_id", transactionID.String()),
		logger.String("event_type", string(event.EventType)),
		logger.String("state", string(current.State)))

	uc.completeWebhook(ctx, dedupKey, transactionID, current.State)
	return nil
}

// completeWebhook marks the delivery applied so redeliveries short-circuit
func (uc *PaymentUsecase) completeWebhook(ctx context.Context, dedupKey string, transactionID uuid.UUID, state models.TransactionState) {
	result := &models.CommandResult{TransactionID: transactionID, State: state}
	if err := uc.idem.Complete(ctx, dedupKey, result); err != nil {
		uc.logger.Error("Failed to mark webhook delivery complete",
			logger.String("key", dedupKey),
			logger.Err(err))
	}
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
