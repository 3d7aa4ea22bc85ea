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

func TestTransitionPath(t *testing.T) {
	tests := []struct {
		name string
		from models.TransactionState
		to   models.TransactionState
		want []models.EventType
		ok   bool
	}{
		{
			name: "same state",
			from: models.StateAuthorized,
			to:   models.StateAuthorized,
			want: nil,
			ok:   true,
		},
		{
			name: "single step",
			from: models.StatePendingAuthorization,
			to:   models.StateAuthorized,
			want: []models.EventType{models.EventAuthorizationSucceeded},
			ok:   true,
		},
		{
			name: "pending to settled",
			from: models.StatePendingAuthorization,
			to:   models.StateSettled,
			want: []models.EventType{
				models.EventAuthorizationSucceeded,
				models.EventCaptureSucceeded,
				models.EventSettlementConfirmed,
			},
			ok: true,
		},
		{
			name: "captured to refunded",
			from: models.StateCaptured,
			to:   models.StateRefunded,
			want: []models.EventType{models.EventRefundRequested, models.EventRefundSucceeded},
			ok:   true,
		},
		{
			name: "no path out of terminal failure",
			from: models.StateFailed,
			to:   models.StateCaptured,
			ok:   false,
		},
		{
			name: "no path from refund flow to voided",
			from: models.StateRefundRequested,
			to:   models.StateVoided,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := transitionPath(tt.from, tt.to)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, path)
			}
		})
	}
}

func TestReconcileStale_AdvancesLaggingTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	txnID := uuid.New()

	txn := &models.Transaction{
		ID:          txnID,
		Provider:    "stripe",
		ProviderRef: "pi_123",
		State:       models.StatePendingAuthorization,
	}

	m.ledger.EXPECT().ListStale(gomock.Any(), gomock.Any(), 100).
		Return([]*models.Transaction{txn}, nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().Status(gomock.Any(), "pi_123").
		Return(&models.ProviderRef{Provider: "stripe", Reference: "pi_123", Status: models.ProviderStatusAuthorized}, nil)
	m.ledger.EXPECT().AppendEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *models.TransitionEvent) (models.TransactionState, error) {
			assert.Equal(t, models.EventAuthorizationSucceeded, event.EventType)
			assert.Equal(t, models.CauseReconciliation, event.Cause)
			return models.StateAuthorized, nil
		})

	checked, err := uc.ReconcileStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, checked)
}

func TestReconcileStale_MultiStepCatchUpNotifiesTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	txnID := uuid.New()

	txn := &models.Transaction{
		ID:          txnID,
		Provider:    "stripe",
		ProviderRef: "pi_123",
		State:       models.StateAuthorized,
	}

	m.ledger.EXPECT().ListStale(gomock.Any(), gomock.Any(), 100).
		Return([]*models.Transaction{txn}, nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().Status(gomock.Any(), "pi_123").
		Return(&models.ProviderRef{Provider: "stripe", Reference: "pi_123", Status: models.ProviderStatusSettled}, nil)

	gomock.InOrder(
		m.ledger.EXPECT().AppendEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event *models.TransitionEvent) (models.TransactionState, error) {
				assert.Equal(t, models.EventCaptureSucceeded, event.EventType)
				return models.StateCaptured, nil
			}),
		m.ledger.EXPECT().AppendEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event *models.TransitionEvent) (models.TransactionState, error) {
				assert.Equal(t, models.EventSettlementConfirmed, event.EventType)
				return models.StateSettled, nil
			}),
	)
	m.notifier.EXPECT().PublishStateChange(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *models.StateNotification) error {
			assert.Equal(t, models.StateSettled, n.NewState)
			return nil
		})

	checked, err := uc.ReconcileStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, checked)
}

func TestReconcileStale_DivergenceFlagsReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	txnID := uuid.New()

	// Provider reports voided while the ledger is mid-refund: no event
	// sequence can express that, so the transaction goes to manual review.
	txn := &models.Transaction{
		ID:          txnID,
		Provider:    "stripe",
		ProviderRef: "pi_123",
		State:       models.StateRefundRequested,
	}

	m.ledger.EXPECT().ListStale(gomock.Any(), gomock.Any(), 100).
		Return([]*models.Transaction{txn}, nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().Status(gomock.Any(), "pi_123").
		Return(&models.ProviderRef{Provider: "stripe", Reference: "pi_123", Status: models.ProviderStatusVoided}, nil)
	m.ledger.EXPECT().FlagForReview(gomock.Any(), txnID, gomock.Any()).Return(nil)

	checked, err := uc.ReconcileStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, checked)
}

func TestReconcileStale_MissingProviderRefFlagsReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)
	txnID := uuid.New()

	txn := &models.Transaction{
		ID:       txnID,
		Provider: "stripe",
		State:    models.StatePendingAuthorization,
	}

	m.ledger.EXPECT().ListStale(gomock.Any(), gomock.Any(), 100).
		Return([]*models.Transaction{txn}, nil)
	m.ledger.EXPECT().FlagForReview(gomock.Any(), txnID, gomock.Any()).Return(nil)

	checked, err := uc.ReconcileStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, checked)
}

func TestReconcileStale_ProviderAgreesLeavesTransactionAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)

	txn := &models.Transaction{
		ID:          uuid.New(),
		Provider:    "stripe",
		ProviderRef: "pi_123",
		State:       models.StateAuthorized,
	}

	m.ledger.EXPECT().ListStale(gomock.Any(), gomock.Any(), 100).
		Return([]*models.Transaction{txn}, nil)
	m.registry.EXPECT().Get("stripe").Return(m.gateway, nil)
	m.gateway.EXPECT().Status(gomock.Any(), "pi_123").
		Return(&models.ProviderRef{Provider: "stripe", Reference: "pi_123", Status: models.ProviderStatusAuthorized}, nil)

	checked, err := uc.ReconcileStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, checked)
}

func TestReconcileStale_EmptySweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTestUC(t, ctrl)

	m.ledger.EXPECT().ListStale(gomock.Any(), gomock.Any(), 100).
		Return(nil, nil)

	checked, err := uc.ReconcileStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, checked)
}
