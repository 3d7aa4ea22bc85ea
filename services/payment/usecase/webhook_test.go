package usecase

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessWebhook_InvalidSignatureRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	payload := []byte(`{"id":"evt_1"}`)

	m.verifier.EXPECT().Verify("stripe", payload, "bad-sig").
		Return(models.ErrVerificationFailed)

	// Nothing past verification runs: no normalization, no ledger write.
	err := uc.ProcessWebhook(context.Background(), "stripe", payload, "bad-sig")

	assert.ErrorIs(t, err, models.ErrVerificationFailed)
}

func TestProcessWebhook_AppliesTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	payload := []byte(`{"id":"evt_1"}`)
	txnID := uuid.New()

	event := &models.TransitionEvent{
		EventType:   models.EventSettlementConfirmed,
		Cause:       models.CauseWebhook,
		EventID:     "evt_1",
		ProviderRef: "pi_123",
		Payload:     payload,
	}
	txn := &models.Transaction{ID: txnID, Provider: "stripe", ProviderRef: "pi_123", State: models.StateCaptured}

	m.verifier.EXPECT().Verify("stripe", payload, "sig").Return(nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().NormalizeWebhook(payload).Return(event, nil)
	m.idem.EXPECT().Reserve(gomock.Any(), "webhook:stripe:evt_1", gomock.Any()).
		Return(&models.IdempotencyRecord{Status: models.IdempotencyNew}, nil)
	m.ledger.EXPECT().GetByProviderRef(gomock.Any(), "stripe", "pi_123").Return(txn, nil)
	m.ledger.EXPECT().AppendEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, applied *models.TransitionEvent) (models.TransactionState, error) {
			assert.Equal(t, txnID, applied.TransactionID)
			assert.Equal(t, models.StateCaptured, applied.FromState)
			return models.StateSettled, nil
		})
	m.idem.EXPECT().Complete(gomock.Any(), "webhook:stripe:evt_1", gomock.Any()).Return(nil)
	m.notifier.EXPECT().PublishStateChange(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *models.StateNotification) error {
			assert.Equal(t, models.StateSettled, n.NewState)
			return nil
		})

	err := uc.ProcessWebhook(context.Background(), "stripe", payload, "sig")

	require.NoError(t, err)
}

func TestProcessWebhook_DuplicateDeliveryAcknowledged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	payload := []byte(`{"id":"evt_1"}`)

	event := &models.TransitionEvent{
		EventType:   models.EventCaptureSucceeded,
		Cause:       models.CauseWebhook,
		EventID:     "evt_1",
		ProviderRef: "pi_123",
	}

	m.verifier.EXPECT().Verify("stripe", payload, "sig").Return(nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().NormalizeWebhook(payload).Return(event, nil)
	m.idem.EXPECT().Reserve(gomock.Any(), "webhook:stripe:evt_1", gomock.Any()).
		Return(&models.IdempotencyRecord{
			Status: models.IdempotencyCompleted,
			Result: &models.CommandResult{State: models.StateCaptured},
		}, nil)

	// No ledger access: the cached delivery short-circuits.
	err := uc.ProcessWebhook(context.Background(), "stripe", payload, "sig")

	require.NoError(t, err)
}

func TestProcessWebhook_LedgerDedupBackstop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	payload := []byte(`{"id":"evt_1"}`)
	txnID := uuid.New()

	event := &models.TransitionEvent{
		EventType:   models.EventCaptureSucceeded,
		Cause:       models.CauseWebhook,
		EventID:     "evt_1",
		ProviderRef: "pi_123",
	}
	txn := &models.Transaction{ID: txnID, Provider: "stripe", ProviderRef: "pi_123", State: models.StateCaptured}

	m.verifier.EXPECT().Verify("stripe", payload, "sig").Return(nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().NormalizeWebhook(payload).Return(event, nil)
	m.idem.EXPECT().Reserve(gomock.Any(), "webhook:stripe:evt_1", gomock.Any()).
		Return(&models.IdempotencyRecord{Status: models.IdempotencyNew}, nil)
	m.ledger.EXPECT().GetByProviderRef(gomock.Any(), "stripe", "pi_123").Return(txn, nil)
	m.ledger.EXPECT().AppendEvent(gomock.Any(), gomock.Any()).
		Return(models.TransactionState(""), models.ErrDuplicateEvent)
	m.idem.EXPECT().Complete(gomock.Any(), "webhook:stripe:evt_1", gomock.Any()).Return(nil)

	err := uc.ProcessWebhook(context.Background(), "stripe", payload, "sig")

	require.NoError(t, err)
}

func TestProcessWebhook_StaleDeliveryAcknowledged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	payload := []byte(`{"id":"evt_2"}`)
	txnID := uuid.New()

	// A capture webhook arrives after a reconciliation event already moved
	// the transaction to captured under a different event identity.
	event := &models.TransitionEvent{
		EventType:   models.EventCaptureSucceeded,
		Cause:       models.CauseWebhook,
		EventID:     "evt_2",
		ProviderRef: "pi_123",
	}
	txn := &models.Transaction{ID: txnID, Provider: "stripe", ProviderRef: "pi_123", State: models.StateCaptured}

	m.verifier.EXPECT().Verify("stripe", payload, "sig").Return(nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().NormalizeWebhook(payload).Return(event, nil)
	m.idem.EXPECT().Reserve(gomock.Any(), "webhook:stripe:evt_2", gomock.Any()).
		Return(&models.IdempotencyRecord{Status: models.IdempotencyNew}, nil)
	m.ledger.EXPECT().GetByProviderRef(gomock.Any(), "stripe", "pi_123").Return(txn, nil)
	m.ledger.EXPECT().AppendEvent(gomock.Any(), gomock.Any()).
		Return(models.TransactionState(""), models.ErrInvalidTransition)
	m.ledger.EXPECT().GetTransaction(gomock.Any(), txnID).Return(txn, nil)
	m.idem.EXPECT().Complete(gomock.Any(), "webhook:stripe:evt_2", gomock.Any()).Return(nil)

	err := uc.ProcessWebhook(context.Background(), "stripe", payload, "sig")

	require.NoError(t, err)
}

func TestProcessWebhook_ConflictingDeliveryFlagsReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	payload := []byte(`{"id":"evt_3"}`)
	txnID := uuid.New()

	// A capture webhook for a transaction the ledger says was voided.
	event := &models.TransitionEvent{
		EventType:   models.EventCaptureSucceeded,
		Cause:       models.CauseWebhook,
		EventID:     "evt_3",
		ProviderRef: "pi_123",
	}
	txn := &models.Transaction{ID: txnID, Provider: "stripe", ProviderRef: "pi_123", State: models.StateVoided}

	m.verifier.EXPECT().Verify("stripe", payload, "sig").Return(nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().NormalizeWebhook(payload).Return(event, nil)
	m.idem.EXPECT().Reserve(gomock.Any(), "webhook:stripe:evt_3", gomock.Any()).
		Return(&models.IdempotencyRecord{Status: models.IdempotencyNew}, nil)
	m.ledger.EXPECT().GetByProviderRef(gomock.Any(), "stripe", "pi_123").Return(txn, nil)
	m.ledger.EXPECT().AppendEvent(gomock.Any(), gomock.Any()).
		Return(models.TransactionState(""), models.ErrInvalidTransition)
	m.ledger.EXPECT().GetTransaction(gomock.Any(), txnID).Return(txn, nil)
	m.ledger.EXPECT().FlagForReview(gomock.Any(), txnID, gomock.Any()).Return(nil)
	m.idem.EXPECT().Complete(gomock.Any(), "webhook:stripe:evt_3", gomock.Any()).Return(nil)

	err := uc.ProcessWebhook(context.Background(), "stripe", payload, "sig")

	require.NoError(t, err)
}

func TestProcessWebhook_UnrecognizedPayloadStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	payload := []byte(`{"shape":"unknown"}`)

	m.verifier.EXPECT().Verify("stripe", payload, "sig").Return(nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().NormalizeWebhook(payload).Return(nil, models.ErrUnrecognizedPayload)
	m.ledger.EXPECT().SaveUnrecognizedPayload(gomock.Any(), "stripe", payload).Return(nil)

	err := uc.ProcessWebhook(context.Background(), "stripe", payload, "sig")

	assert.ErrorIs(t, err, models.ErrUnrecognizedPayload)
}

func TestProcessWebhook_UnknownReferenceStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	payload := []byte(`{"id":"evt_4"}`)

	event := &models.TransitionEvent{
		EventType:   models.EventCaptureSucceeded,
		Cause:       models.CauseWebhook,
		EventID:     "evt_4",
		ProviderRef: "pi_unknown",
	}

	m.verifier.EXPECT().Verify("stripe", payload, "sig").Return(nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().NormalizeWebhook(payload).Return(event, nil)
	m.idem.EXPECT().Reserve(gomock.Any(), "webhook:stripe:evt_4", gomock.Any()).
		Return(&models.IdempotencyRecord{Status: models.IdempotencyNew}, nil)
	m.ledger.EXPECT().GetByProviderRef(gomock.Any(), "stripe", "pi_unknown").
		Return(nil, models.ErrTransactionNotFound)
	m.idem.EXPECT().Release(gomock.Any(), "webhook:stripe:evt_4").Return(nil)
	m.ledger.EXPECT().SaveUnrecognizedPayload(gomock.Any(), "stripe", payload).Return(nil)

	err := uc.ProcessWebhook(context.Background(), "stripe", payload, "sig")

	assert.ErrorIs(t, err, models.ErrTransactionNotFound)
}
