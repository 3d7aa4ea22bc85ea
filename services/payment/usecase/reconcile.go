package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
)

const (
	defaultReconcileGrace       = 15 * time.Minute
	defaultReconcileBatchSize   = 100
	defaultReconcileConcurrency = 8
)

// ReconcileStale sweeps non-terminal transactions older than the grace
// threshold against authoritative provider state, applying reconciliation
// events where the ledger lags and flagging divergence it cannot resolve.
// Returns the number of transactions checked.
func (uc *PaymentUsecase) ReconcileStale(ctx context.Context) (int, error) {
	grace := time.Duration(uc.cfg.Reconciler.GraceSec) * time.Second
	if grace == 0 {
		grace = defaultReconcileGrace
	}
	batchSize := uc.cfg.Reconciler.BatchSize
	if batchSize == 0 {
		batchSize = defaultReconcileBatchSize
	}
	concurrency := uc.cfg.Reconciler.MaxConcurrency
	if concurrency == 0 {
		concurrency = defaultReconcileConcurrency
	}

	stale, err := uc.ledger.ListStale(ctx, time.Now().UTC().Add(-grace), batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale transactions: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for _, txn := range stale {
		wg.Add(1)
		sem <- struct{}{}
		go func(txn *models.Transaction) {
			defer wg.Done()
			defer func() { <-sem }()
			uc.reconcileOne(ctx, txn)
		}(txn)
	}
	wg.Wait()

	uc.logger.Info("Reconciliation sweep finished",
		logger.Int("checked", len(stale)))

	return len(stale), nil
}

// reconcileOne checks a single stale transaction against the provider.
// Provider lookup failures are left for the next sweep; divergence the
// transition table cannot express is flagged for review.
func (uc *PaymentUsecase) reconcileOne(ctx context.Context, txn *models.Transaction) {
	if txn.ProviderRef == "" {
		uc.flagForReview(ctx, txn.ID, "stale transaction with no provider reference")
		return
	}

	adapter, err := uc.gateways.Get(txn.Provider)
	if err != nil {
		uc.flagForReview(ctx, txn.ID, fmt.Sprintf("no adapter for provider %q", txn.Provider))
		return
	}

	ref, err := adapter.Status(ctx, txn.ProviderRef)
	if err != nil {
		uc.logger.Warn("Provider status lookup failed",
			logger.String("transaction_id", txn.ID.String()),
			logger.String("provider", txn.Provider),
			logger.Err(err))
		return
	}

	target, ok := providerStatusStates[ref.Status]
	if !ok {
		uc.flagForReview(ctx, txn.ID, fmt.Sprintf("provider reports unknown status %q", ref.Status))
		return
	}
	if target == txn.State {
		// Provider agrees; the transaction is slow, not diverged.
		return
	}

	path, ok := transitionPath(txn.State, target)
	if !ok {
		uc.flagForReview(ctx, txn.ID,
			fmt.Sprintf("provider reports %s but local state is %s", ref.Status, txn.State))
		return
	}

	state := txn.State
	for _, eventType := range path {
		eventID := fmt.Sprintf("reconcile:%s:%s", txn.ID, eventType)
		newState, err := uc.appendEvent(ctx, txn.ID, state, eventType,
			models.CauseReconciliation, eventID, txn.ProviderRef, nil)
		if err != nil {
			// A webhook raced us; the next sweep re-evaluates from the new state.
			if !errors.Is(err, models.ErrDuplicateEvent) && !errors.Is(err, models.ErrInvalidTransition) {
				uc.logger.Error("Failed to apply reconciliation event",
					logger.String("transaction_id", txn.ID.String()),
					logger.String("event_type", string(eventType)),
					logger.Err(err))
			}
			return
		}
		state = newState
	}

	uc.logger.Info("Reconciled stale transaction",
		logger.String("transaction_id", txn.ID.String()),
		logger.String("from_state", string(txn.State)),
		logger.String("to_state", string(state)))

	uc.notifyTerminal(ctx, txn.ID, state)
}

func (uc *PaymentUsecase) flagForReview(ctx context.Context, transactionID uuid.UUID, reason string) {
	if err := uc.ledger.FlagForReview(ctx, transactionID, reason); err != nil {
		uc.logger.Error("Failed to flag transaction for review",
			logger.String("transaction_id", transactionID.String()),
			logger.Err(err))
		return
	}
	uc.logger.Warn("Flagged transaction for review",
		logger.String("transaction_id", transactionID.String()),
		logger.String("reason", reason))
}
