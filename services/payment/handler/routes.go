package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/myreprise/payflow/internal/pkg/middleware"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/services/payment/handler/http"
)

// Handler coordinates the HTTP handlers for the payment service
type Handler struct {
	transactionHandler *http.TransactionHandler
	webhookHandler     *http.WebhookHandler
	cfg                *models.Config
}

// NewHandler creates and initializes all handlers
func NewHandler(
	transactionHandler *http.TransactionHandler,
	webhookHandler *http.WebhookHandler,
	cfg *models.Config,
) *Handler {
	return &Handler{
		transactionHandler: transactionHandler,
		webhookHandler:     webhookHandler,
		cfg:                cfg,
	}
}

// RegisterRoutes registers all routes. The command API sits behind merchant
// JWT auth; webhooks are public and authenticated by signature instead.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	webhooks := e.Group("/webhooks")
	webhooks.POST("/:provider", h.webhookHandler.HandleWebhook)

	api := e.Group("/api/v1", middleware.JWTAuthMiddleware(h.cfg.JWT))

	transactions := api.Group("/transactions")
	transactions.POST("", h.transactionHandler.InitiateCharge)
	transactions.GET("/:id", h.transactionHandler.GetTransaction)
	transactions.GET("/:id/events", h.transactionHandler.GetHistory)
	transactions.POST("/:id/capture", h.transactionHandler.Capture)
	transactions.POST("/:id/void", h.transactionHandler.Void)
	transactions.POST("/:id/refund", h.transactionHandler.Refund)
}
