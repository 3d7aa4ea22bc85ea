package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
)

// InitiateCharge starts a new payment transaction protected by the caller's
// idempotency key. Exactly one of any number of racing calls with the same
// key reaches the gateway; the rest are served the cached outcome or told to
// retry.
func (uc *PaymentUsecase) InitiateCharge(ctx context.Context, cmd *models.ChargeCommand) (*models.CommandResult, error) {
	if err := validateChargeCommand(cmd); err != nil {
		return nil, err
	}

	adapter, err := uc.gateways.Get(cmd.Provider)
	if err != nil {
		return nil, err
	}

	record, err := uc.idem.Reserve(ctx, cmd.IdempotencyKey, hashChargeCommand(cmd))
	if err != nil {
		return nil, err
	}
	switch record.Status {
	case models.IdempotencyCompleted:
		uc.logger.Info("Replaying completed charge command",
			logger.String("idempotency_key", cmd.IdempotencyKey),
			logger.String("transaction_id", record.Result.TransactionID.String()))
		return record.Result, nil
	case models.IdempotencyInProgress:
		return nil, models.ErrOperationInProgress
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		uc.releaseReservation(ctx, cmd.IdempotencyKey)
		return nil, fmt.Errorf("failed to marshal charge command: %w", err)
	}

	txn := &models.Transaction{
		ID:             uuid.New(),
		IdempotencyKey: cmd.IdempotencyKey,
		AmountMinor:    cmd.AmountMinor,
		Currency:       strings.ToUpper(cmd.Currency),
		Method:         cmd.Method,
		Provider:       cmd.Provider,
		State:          models.StatePendingAuthorization,
	}
	firstEvent := &models.TransitionEvent{
		ID:            uuid.New(),
		TransactionID: txn.ID,
		FromState:     models.StateCreated,
		ToState:       models.StatePendingAuthorization,
		EventType:     models.EventAuthorizationStarted,
		Cause:         models.CauseCommand,
		EventID:       commandEventID(cmd.IdempotencyKey, models.EventAuthorizationStarted),
		Payload:       payload,
	}
	if err := uc.ledger.CreateTransaction(ctx, txn, firstEvent); err != nil {
		uc.releaseReservation(ctx, cmd.IdempotencyKey)
		return nil, err
	}

	// The provider call and its bookkeeping must finish even if the caller
	// disconnects; a charge abandoned mid-flight leaves money moved with no
	// record of it.
	bgCtx := context.WithoutCancel(ctx)
	gwCtx, cancel := context.WithTimeout(bgCtx, uc.gatewayTimeout)
	defer cancel()

	ref, err := adapter.Charge(gwCtx, &models.ChargeRequest{
		TransactionID: txn.ID,
		AmountMinor:   txn.AmountMinor,
		Currency:      txn.Currency,
		Method:        txn.Method,
	})
	if err != nil {
		return uc.finishFailedCharge(bgCtx, txn, err)
	}

	if ref.Reference != "" {
		if err := uc.ledger.SetProviderRef(bgCtx, txn.ID, ref.Reference); err != nil {
			uc.logger.Error("Failed to record provider reference",
				logger.String("transaction_id", txn.ID.String()),
				logger.Err(err))
		}
	}

	state := uc.applySyncStatus(bgCtx, txn, ref)

	result := &models.CommandResult{TransactionID: txn.ID, State: state}
	if err := uc.idem.Complete(bgCtx, cmd.IdempotencyKey, result); err != nil {
		uc.logger.Error("Failed to cache command result",
			logger.String("idempotency_key", cmd.IdempotencyKey),
			logger.Err(err))
	}
	uc.notifyTerminal(bgCtx, txn.ID, state)

	uc.logger.Info("Charge initiated",
		logger.String("transaction_id", txn.ID.String()),
		logger.String("provider", txn.Provider),
		logger.Int64("amount_minor", txn.AmountMinor),
		logger.String("state", string(state)))

	return result, nil
}

// finishFailedCharge settles the bookkeeping for a charge call that errored.
// Terminal declines fail the transaction and cache the outcome; unknown
// outcomes keep the reservation so a blind retry cannot double-charge, and
// leave resolution to reconciliation.
func (uc *PaymentUsecase) finishFailedCharge(ctx context.Context, txn *models.Transaction, chargeErr error) (*models.CommandResult, error) {
	if models.IsRetryableGatewayError(chargeErr) {
		reason := fmt.Sprintf("charge outcome unknown: %v", chargeErr)
		if err := uc.ledger.FlagForReview(ctx, txn.ID, reason); err != nil {
			uc.logger.Error("Failed to flag transaction for review",
				logger.String("transaction_id", txn.ID.String()),
				logger.Err(err))
		}
		return nil, chargeErr
	}

	state, err := uc.appendEvent(ctx, txn.ID, txn.State,
		models.EventPaymentFailed, models.CauseCommand,
		commandEventID(txn.IdempotencyKey, models.EventPaymentFailed), "", nil)
	if err != nil {
		uc.logger.Error("Failed to record declined charge",
			logger.String("transaction_id", txn.ID.String()),
			logger.Err(err))
		return nil, chargeErr
	}

	result := &models.CommandResult{TransactionID: txn.ID, State: state}
	if err := uc.idem.Complete(ctx, txn.IdempotencyKey, result); err != nil {
		uc.logger.Error("Failed to cache command result",
			logger.String("idempotency_key", txn.IdempotencyKey),
			logger.Err(err))
	}
	uc.notifyTerminal(ctx, txn.ID, state)

	uc.logger.Info("Charge declined",
		logger.String("transaction_id", txn.ID.String()),
		logger.Err(chargeErr))

	return result, nil
}

// applySyncStatus advances the transaction to match the state the provider
// reported synchronously. Providers that answer pending advance nothing;
// webhooks carry the rest.
func (uc *PaymentUsecase) applySyncStatus(ctx context.Context, txn *models.Transaction, ref *models.ProviderRef) models.TransactionState {
	state := txn.State

	target, ok := providerStatusStates[ref.Status]
	if !ok || target == state {
		return state
	}
	path, ok := transitionPath(state, target)
	if !ok {
		uc.logger.Warn("Provider status unreachable from current state",
			logger.String("transaction_id", txn.ID.String()),
			logger.String("state", string(state)),
			logger.String("provider_status", string(ref.Status)))
		return state
	}

	for _, eventType := range path {
		newState, err := uc.appendEvent(ctx, txn.ID, state, eventType, models.CauseCommand,
			commandEventID(txn.IdempotencyKey, eventType), ref.Reference, nil)
		if err != nil {
			uc.logger.Warn("Failed to apply synchronous provider status",
				logger.String("transaction_id", txn.ID.String()),
				logger.String("event_type", string(eventType)),
				logger.Err(err))
			return state
		}
		state = newState
	}

	return state
}

// Capture converts an authorized charge into a committed one.
func (uc *PaymentUsecase) Capture(ctx context.Context, transactionID uuid.UUID) (*models.CommandResult, error) {
	return uc.runTransitionCommand(ctx, transactionID, models.EventCaptureSucceeded,
		func(gwCtx context.Context, txn *models.Transaction) (*models.ProviderRef, error) {
			adapter, err := uc.gateways.Get(txn.Provider)
			if err != nil {
				return nil, err
			}
			return adapter.Capture(gwCtx, txn.ProviderRef)
		})
}

// Void cancels an authorization before capture.
func (uc *PaymentUsecase) Void(ctx context.Context, transactionID uuid.UUID) (*models.CommandResult, error) {
	return uc.runTransitionCommand(ctx, transactionID, models.EventVoidSucceeded,
		func(gwCtx context.Context, txn *models.Transaction) (*models.ProviderRef, error) {
			adapter, err := uc.gateways.Get(txn.Provider)
			if err != nil {
				return nil, err
			}
			return adapter.Void(gwCtx, txn.ProviderRef)
		})
}

// Refund requests a refund of a captured or settled charge. The refund intent
// is recorded before the provider call so a crash mid-refund stays visible to
// reconciliation.
func (uc *PaymentUsecase) Refund(ctx context.Context, transactionID uuid.UUID, amountMinor int64) (*models.CommandResult, error) {
	txn, err := uc.ledger.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if amountMinor <= 0 || amountMinor > txn.AmountMinor {
		return nil, fmt.Errorf("refund amount %d out of range for transaction amount %d", amountMinor, txn.AmountMinor)
	}
	if txn.ProviderRef == "" {
		return nil, fmt.Errorf("%w: transaction %s has no provider reference",
			models.ErrInvalidTransition, txn.ID)
	}
	if !models.CanTransition(txn.State, models.EventRefundRequested) {
		return &models.CommandResult{TransactionID: txn.ID, State: txn.State},
			fmt.Errorf("%w: cannot refund in state %s", models.ErrInvalidTransition, txn.State)
	}

	intent, err := json.Marshal(map[string]int64{"amount_minor": amountMinor})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refund intent: %w", err)
	}

	state, err := uc.appendEvent(ctx, txn.ID, txn.State,
		models.EventRefundRequested, models.CauseCommand,
		commandEventID(txn.IdempotencyKey, models.EventRefundRequested), "", intent)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEvent) {
			return uc.currentResult(ctx, txn.ID)
		}
		if errors.Is(err, models.ErrInvalidTransition) {
			result, rerr := uc.currentResult(ctx, txn.ID)
			if rerr != nil {
				return nil, rerr
			}
			return result, err
		}
		return nil, err
	}

	adapter, err := uc.gateways.Get(txn.Provider)
	if err != nil {
		return nil, err
	}

	bgCtx := context.WithoutCancel(ctx)
	gwCtx, cancel := context.WithTimeout(bgCtx, uc.gatewayTimeout)
	defer cancel()

	ref, err := adapter.Refund(gwCtx, txn.ProviderRef, amountMinor)
	if err != nil {
		// The transaction stays in refund_requested; a provider webhook or
		// the reconciliation sweep resolves it.
		return nil, err
	}

	newState, err := uc.appendEvent(bgCtx, txn.ID, state,
		models.EventRefundSucceeded, models.CauseCommand,
		commandEventID(txn.IdempotencyKey, models.EventRefundSucceeded), ref.Reference, nil)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEvent) || errors.Is(err, models.ErrInvalidTransition) {
			return uc.currentResult(bgCtx, txn.ID)
		}
		return nil, err
	}

	uc.notifyTerminal(bgCtx, txn.ID, newState)

	uc.logger.Info("Refund completed",
		logger.String("transaction_id", txn.ID.String()),
		logger.Int64("amount_minor", amountMinor))

	return &models.CommandResult{TransactionID: txn.ID, State: newState}, nil
}

// runTransitionCommand executes a single-transition command (capture, void):
// validate against the transition table, call the provider, append the event.
func (uc *PaymentUsecase) runTransitionCommand(
	ctx context.Context,
	transactionID uuid.UUID,
	eventType models.EventType,
	call func(ctx context.Context, txn *models.Transaction) (*models.ProviderRef, error),
) (*models.CommandResult, error) {
	txn, err := uc.ledger.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.ProviderRef == "" {
		return nil, fmt.Errorf("%w: transaction %s has no provider reference",
			models.ErrInvalidTransition, txn.ID)
	}
	if !models.CanTransition(txn.State, eventType) {
		return &models.CommandResult{TransactionID: txn.ID, State: txn.State},
			fmt.Errorf("%w: %s does not accept %s", models.ErrInvalidTransition, txn.State, eventType)
	}

	bgCtx := context.WithoutCancel(ctx)
	gwCtx, cancel := context.WithTimeout(bgCtx, uc.gatewayTimeout)
	defer cancel()

	ref, err := call(gwCtx, txn)
	if err != nil {
		return nil, err
	}

	newState, err := uc.appendEvent(bgCtx, txn.ID, txn.State, eventType, models.CauseCommand,
		commandEventID(txn.IdempotencyKey, eventType), ref.Reference, nil)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEvent) {
			return uc.currentResult(bgCtx, txn.ID)
		}
		if errors.Is(err, models.ErrInvalidTransition) {
			result, rerr := uc.currentResult(bgCtx, txn.ID)
			if rerr != nil {
				return nil, rerr
			}
			return result, err
		}
		return nil, err
	}

	uc.notifyTerminal(bgCtx, txn.ID, newState)

	return &models.CommandResult{TransactionID: txn.ID, State: newState}, nil
}

// GetTransaction returns the materialized current-state view.
func (uc *PaymentUsecase) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	return uc.ledger.GetTransaction(ctx, transactionID)
}

// History returns the ordered transition event log.
func (uc *PaymentUsecase) History(ctx context.Context, transactionID uuid.UUID) ([]*models.TransitionEvent, error) {
	return uc.ledger.History(ctx, transactionID)
}

// currentResult re-reads the authoritative state after a concurrent writer won
func (uc *PaymentUsecase) currentResult(ctx context.Context, transactionID uuid.UUID) (*models.CommandResult, error) {
	txn, err := uc.ledger.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return &models.CommandResult{TransactionID: txn.ID, State: txn.State}, nil
}

func validateChargeCommand(cmd *models.ChargeCommand) error {
	switch {
	case cmd.IdempotencyKey == "":
		return errors.New("idempotency key is required")
	case cmd.AmountMinor <= 0:
		return errors.New("amount must be a positive number of minor units")
	case len(cmd.Currency) != 3:
		return errors.New("currency must be a three-letter ISO code")
	case cmd.Method == "":
		return errors.New("payment method is required")
	case cmd.Provider == "":
		return errors.New("provider is required")
	}
	return nil
}

// hashChargeCommand fingerprints the command body so the same key replayed
// with different parameters is detected as a conflict.
func hashChargeCommand(cmd *models.ChargeCommand) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s|%s",
		cmd.AmountMinor, strings.ToUpper(cmd.Currency), cmd.Method, cmd.Provider)))
	return hex.EncodeToString(sum[:])
}
