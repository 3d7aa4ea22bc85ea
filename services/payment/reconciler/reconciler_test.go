package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/services/payment/mocks"
)

func testReconcilerLogger(t *testing.T) *logger.ZapLogger {
	t.Helper()
	zapLogger, err := logger.NewZapLogger(logger.ZapConfig{Level: "error"}, nil)
	require.NoError(t, err)
	return zapLogger
}

func TestReconciler_SweepsOnInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	swept := make(chan struct{}, 5)
	mockUC.EXPECT().ReconcileStale(gomock.Any()).
		DoAndReturn(func(context.Context) (int, error) {
			swept <- struct{}{}
			return 2, nil
		}).MinTimes(1)

	recon := NewReconciler(mockUC, models.ReconcilerConfig{}, testReconcilerLogger(t))
	recon.interval = 10 * time.Millisecond

	recon.Start(context.Background())

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reconciliation sweep to run")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, recon.Stop(stopCtx))
}

func TestReconciler_KeepsSweepingAfterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	swept := make(chan struct{}, 10)
	first := mockUC.EXPECT().ReconcileStale(gomock.Any()).
		DoAndReturn(func(context.Context) (int, error) {
			swept <- struct{}{}
			return 0, assert.AnError
		})
	mockUC.EXPECT().ReconcileStale(gomock.Any()).
		DoAndReturn(func(context.Context) (int, error) {
			swept <- struct{}{}
			return 0, nil
		}).After(first).MinTimes(1)

	recon := NewReconciler(mockUC, models.ReconcilerConfig{}, testReconcilerLogger(t))
	recon.interval = 10 * time.Millisecond

	recon.Start(context.Background())

	for i := 0; i < 2; i++ {
		select {
		case <-swept:
		case <-time.After(2 * time.Second):
			t.Fatal("expected the scheduler to survive a failed sweep")
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, recon.Stop(stopCtx))
}

func TestReconciler_StopWithoutStart(t *testing.T) {
	mockUC := mocks.NewMockPaymentUC(gomock.NewController(t))
	recon := NewReconciler(mockUC, models.ReconcilerConfig{IntervalSec: 30}, testReconcilerLogger(t))

	assert.Equal(t, 30*time.Second, recon.interval)

	close(recon.done)
	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, recon.Stop(stopCtx))
}
