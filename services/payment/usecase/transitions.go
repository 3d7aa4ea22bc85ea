package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
)

// providerStatusStates maps a normalized provider-side status to the local
// state the transaction should have reached.
var providerStatusStates = map[models.ProviderStatus]models.TransactionState{
	models.ProviderStatusPending:    models.StatePendingAuthorization,
	models.ProviderStatusAuthorized: models.StateAuthorized,
	models.ProviderStatusCaptured:   models.StateCaptured,
	models.ProviderStatusSettled:    models.StateSettled,
	models.ProviderStatusFailed:     models.StateFailed,
	models.ProviderStatusRefunded:   models.StateRefunded,
	models.ProviderStatusVoided:     models.StateVoided,
}

// transitionPath returns the shortest event sequence moving a transaction
// from one state to another through the allowed-transition table, or false
// when no sequence exists.
func transitionPath(from, to models.TransactionState) ([]models.EventType, bool) {
	if from == to {
		return nil, true
	}

	type node struct {
		state models.TransactionState
		path  []models.EventType
	}

	visited := map[models.TransactionState]bool{from: true}
	queue := []node{{state: from}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for eventType, next := range models.TransitionsFrom(current.state) {
			if visited[next] {
				continue
			}
			path := append(append([]models.EventType{}, current.path...), eventType)
			if next == to {
				return path, true
			}
			visited[next] = true
			queue = append(queue, node{state: next, path: path})
		}
	}

	return nil, false
}

// appendEvent records one transition through the ledger and returns the new
// materialized state.
func (uc *PaymentUsecase) appendEvent(
	ctx context.Context,
	transactionID uuid.UUID,
	from models.TransactionState,
	eventType models.EventType,
	cause models.TransitionCause,
	eventID, providerRef string,
	payload json.RawMessage,
) (models.TransactionState, error) {
	event := &models.TransitionEvent{
		ID:            uuid.New(),
		TransactionID: transactionID,
		FromState:     from,
		EventType:     eventType,
		Cause:         cause,
		EventID:       eventID,
		ProviderRef:   providerRef,
		Payload:       payload,
	}

	return uc.ledger.AppendEvent(ctx, event)
}

// commandEventID derives the dedup identity for a command-driven event from
// the transaction's idempotency key. Re-issuing the same command yields the
// same identity and is absorbed as a duplicate.
func commandEventID(idempotencyKey string, eventType models.EventType) string {
	return idempotencyKey + ":" + string(eventType)
}

// notifyTerminal publishes a notification when a transaction reaches a
// terminal state. Delivery failures are logged, never surfaced to the
// transition that caused them.
func (uc *PaymentUsecase) notifyTerminal(ctx context.Context, transactionID uuid.UUID, state models.TransactionState) {
	if !models.IsTerminal(state) {
		return
	}

	notification := &models.StateNotification{
		TransactionID: transactionID,
		NewState:      state,
		Timestamp:     time.Now().UTC(),
	}
	if err := uc.notifier.PublishStateChange(ctx, notification); err != nil {
		uc.logger.Error("Failed to publish terminal state notification",
			logger.String("transaction_id", transactionID.String()),
			logger.String("state", string(state)),
			logger.Err(err))
	}
}

// releaseReservation drops an idempotency reservation after a failed attempt
func (uc *PaymentUsecase) releaseReservation(ctx context.Context, key string) {
	if err := uc.idem.Release(ctx, key); err != nil {
		uc.logger.Error("Failed to release idempotency reservation",
			logger.String("key", key),
			logger.Err(err))
	}
}
