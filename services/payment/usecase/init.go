package usecase

import (
	"time"

	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/services/payment"
)

// defaultGatewayTimeout bounds a detached provider call after the caller has
// gone away.
const defaultGatewayTimeout = 30 * time.Second

// PaymentUsecase orchestrates the transaction lifecycle: commands in,
// webhooks and reconciliation events applied against the ledger, terminal
// states published to the notification sink.
type PaymentUsecase struct {
	cfg            *models.Config
	ledger         payment.LedgerRepo
	idem           payment.IdempotencyRepo
	gateways       payment.GatewayRegistry
	verifier       payment.WebhookVerifier
	notifier       payment.NotificationGW
	logger         *logger.ZapLogger
	gatewayTimeout time.Duration
}

// NewPaymentUC creates a new payment usecase
func NewPaymentUC(
	cfg *models.Config,
	ledger payment.LedgerRepo,
	idem payment.IdempotencyRepo,
	gateways payment.GatewayRegistry,
	verifier payment.WebhookVerifier,
	notifier payment.NotificationGW,
	zapLogger *logger.ZapLogger,
) *PaymentUsecase {
	return &PaymentUsecase{
		cfg:            cfg,
		ledger:         ledger,
		idem:           idem,
		gateways:       gateways,
		verifier:       verifier,
		notifier:       notifier,
		logger:         zapLogger,
		gatewayTimeout: defaultGatewayTimeout,
	}
}
