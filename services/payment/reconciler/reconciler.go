package reconciler

import (
	"context"
	"time"

	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/services/payment"
)

const defaultInterval = time.Minute

// Reconciler drives the periodic reconciliation sweep. One sweep runs at a
// time; a sweep that overruns the interval simply delays the next tick.
type Reconciler struct {
	paymentUC payment.PaymentUC
	interval  time.Duration
	logger    *logger.ZapLogger
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewReconciler creates a new reconciliation scheduler
func NewReconciler(paymentUC payment.PaymentUC, cfg models.ReconcilerConfig, zapLogger *logger.ZapLogger) *Reconciler {
	interval := time.Duration(cfg.IntervalSec) * time.Second
	if interval == 0 {
		interval = defaultInterval
	}

	return &Reconciler{
		paymentUC: paymentUC,
		interval:  interval,
		logger:    zapLogger,
		done:      make(chan struct{}),
	}
}

// Start launches the sweep loop in a background goroutine
func (r *Reconciler) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	go func() {
		defer close(r.done)

		r.logger.Info("Starting reconciliation scheduler",
			logger.Duration("interval", r.interval))

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.logger.Info("Reconciliation scheduler stopped")
				return
			case <-ticker.C:
				r.sweep(ctx)
			}
		}
	}()
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish
func (r *Reconciler) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	checked, err := r.paymentUC.ReconcileStale(ctx)
	if err != nil {
		r.logger.Error("Reconciliation sweep failed", logger.Err(err))
		return
	}
	if checked > 0 {
		r.logger.Info("Reconciliation sweep completed", logger.Int("checked", checked))
	}
}
