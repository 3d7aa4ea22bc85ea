package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/internal/utils"
	"github.com/myreprise/payflow/services/payment"
)

// maxWebhookBody caps inbound webhook payload size
const maxWebhookBody = 1 << 20

// signatureHeaders names the signature header each provider sends
var signatureHeaders = map[string]string{
	"stripe": "Stripe-Signature",
	"paypal": "Paypal-Signature",
}

// WebhookHandler handles inbound provider callbacks
type WebhookHandler struct {
	paymentUC payment.PaymentUC
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(paymentUC payment.PaymentUC) *WebhookHandler {
	return &WebhookHandler{paymentUC: paymentUC}
}

// HandleWebhook verifies and applies a provider callback. Providers retry on
// non-2xx, so anything short of a verification failure or an internal error
// is acknowledged.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	provider := c.Param("provider")

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return utils.BadRequestResponse(c, "Failed to read request body")
	}

	headerName, ok := signatureHeaders[provider]
	if !ok {
		headerName = "X-Webhook-Signature"
	}
	signature := c.Request().Header.Get(headerName)

	err = h.paymentUC.ProcessWebhook(c.Request().Context(), provider, payload, signature)
	switch {
	case err == nil:
		return utils.SuccessResponse(c, http.StatusOK, "Webhook accepted", nil)
	case errors.Is(err, models.ErrVerificationFailed):
		return utils.BadRequestResponse(c, "Webhook signature verification failed")
	case errors.Is(err, models.ErrProviderUnknown):
		return utils.NotFoundResponse(c, "Unknown webhook provider")
	case errors.Is(err, models.ErrUnrecognizedPayload), errors.Is(err, models.ErrTransactionNotFound):
		// Stored for review; ack so the provider stops redelivering.
		return utils.SuccessResponse(c, http.StatusOK, "Webhook held for review", nil)
	}

	return utils.InternalServerErrorResponse(c, "Failed to process webhook")
}
