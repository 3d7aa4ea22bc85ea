package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/myreprise/payflow/internal/pkg/config"
	"github.com/myreprise/payflow/internal/pkg/database"
	"github.com/myreprise/payflow/internal/pkg/health"
	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/middleware"
	natspkg "github.com/myreprise/payflow/internal/pkg/nats"
	nrpkg "github.com/myreprise/payflow/internal/pkg/newrelic"
	nsqpkg "github.com/myreprise/payflow/internal/pkg/nsq"
	"github.com/myreprise/payflow/internal/pkg/server"
	"github.com/myreprise/payflow/services/payment"
	"github.com/myreprise/payflow/services/payment/gateway"
	"github.com/myreprise/payflow/services/payment/handler"
	httpHandler "github.com/myreprise/payflow/services/payment/handler/http"
	"github.com/myreprise/payflow/services/payment/reconciler"
	"github.com/myreprise/payflow/services/payment/repository"
	"github.com/myreprise/payflow/services/payment/usecase"
	"github.com/myreprise/payflow/services/payment/verifier"
	"go.uber.org/zap"
)

func main() {
	appName := "payment-service"
	configs := config.InitConfig(".env")

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
	)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer postgresClient.Close()

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	ledgerRepo := repository.NewLedgerRepository(postgresClient.GetDB())
	idemRepo := repository.NewIdempotencyRepository(redisClient, configs.Idempotency)

	// Initialize gateway adapters
	stripeGW := gateway.NewStripeGateway(configs.Providers.Stripe, zapLogger)
	paypalGW := gateway.NewPayPalGateway(configs.Providers.PayPal, zapLogger)
	registry := gateway.NewRegistry(stripeGW, paypalGW)

	// Initialize the terminal-state notification sink
	var notifier payment.NotificationGW
	switch configs.Notification.Sink {
	case "nsq":
		nsqProducer, err := nsqpkg.NewProducer(configs.NSQ.Address)
		if err != nil {
			zapLogger.Fatal("Failed to connect to NSQ", zap.Error(err))
		}
		defer nsqProducer.Stop()
		notifier = gateway.NewNSQNotifier(nsqProducer, configs.Notification.Subject, zapLogger)
	default:
		natsClient, err := natspkg.NewClient(configs.NATS.URL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()
		notifier = gateway.NewNATSNotifier(natsClient, configs.Notification.Subject, zapLogger)
	}

	// Initialize webhook verifier
	webhookVerifier := verifier.New(configs.Providers)

	// Initialize UseCase
	paymentUC := usecase.NewPaymentUC(configs, ledgerRepo, idemRepo, registry, webhookVerifier, notifier, zapLogger)

	// Initialize HTTP handlers
	transactionHandler := httpHandler.NewTransactionHandler(paymentUC)
	webhookHandler := httpHandler.NewWebhookHandler(paymentUC)
	Handler := handler.NewHandler(transactionHandler, webhookHandler, configs)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	// Add middlewares
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	// Register health endpoints
	health.RegisterHealthEndpoints(e, appName)

	// Register service routes
	Handler.RegisterRoutes(e)

	// Start the reconciliation sweep
	recon := reconciler.NewReconciler(paymentUC, configs.Reconciler, zapLogger)
	recon.Start(context.Background())

	shutdownManager := server.NewShutdownManager(zapLogger)
	shutdownManager.Register(recon.Stop)

	// Start server and block until shutdown
	shutdownTimeout := time.Duration(configs.Server.ShutdownTimeout) * time.Second
	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port, shutdownTimeout)
	if err := srv.Start(); err != nil {
		zapLogger.Error("Server shutdown with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownManager.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Component shutdown failed", zap.Error(err))
	}
}
