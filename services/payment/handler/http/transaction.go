package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/internal/utils"
	"github.com/myreprise/payflow/services/payment"
)

// TransactionHandler handles HTTP requests for the merchant command API
type TransactionHandler struct {
	paymentUC payment.PaymentUC
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(paymentUC payment.PaymentUC) *TransactionHandler {
	return &TransactionHandler{paymentUC: paymentUC}
}

// InitiateCharge handles charge initiation requests
func (h *TransactionHandler) InitiateCharge(c echo.Context) error {
	var cmd models.ChargeCommand
	if err := c.Bind(&cmd); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if cmd.IdempotencyKey == "" {
		// Header form takes precedence when the body omits the key.
		cmd.IdempotencyKey = c.Request().Header.Get("Idempotency-Key")
	}

	result, err := h.paymentUC.InitiateCharge(c.Request().Context(), &cmd)
	if err != nil {
		return commandErrorResponse(c, err, result)
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Charge initiated", result)
}

// GetTransaction handles transaction retrieval requests
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}

	txn, err := h.paymentUC.GetTransaction(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrTransactionNotFound) {
			return utils.NotFoundResponse(c, "Transaction not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to retrieve transaction")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Transaction retrieved", txn)
}

// GetHistory handles transition history retrieval requests
func (h *TransactionHandler) GetHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}

	events, err := h.paymentUC.History(c.Request().Context(), id)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to retrieve transaction history")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Transaction history retrieved", events)
}

// Capture handles capture requests for an authorized charge
func (h *TransactionHandler) Capture(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}

	result, err := h.paymentUC.Capture(c.Request().Context(), id)
	if err != nil {
		return commandErrorResponse(c, err, result)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Charge captured", result)
}

// Void handles void requests for an authorized charge
func (h *TransactionHandler) Void(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}

	result, err := h.paymentUC.Void(c.Request().Context(), id)
	if err != nil {
		return commandErrorResponse(c, err, result)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Charge voided", result)
}

// refundRequest carries the optional partial-refund amount
type refundRequest struct {
	AmountMinor int64 `json:"amount"`
}

// Refund handles refund requests for a captured or settled charge
func (h *TransactionHandler) Refund(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}

	var req refundRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	result, err := h.paymentUC.Refund(c.Request().Context(), id, req.AmountMinor)
	if err != nil {
		return commandErrorResponse(c, err, result)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Refund completed", result)
}

// commandErrorResponse maps usecase errors to HTTP responses. State conflicts
// answer 409 carrying the authoritative state so clients resynchronize
// instead of retrying blindly.
func commandErrorResponse(c echo.Context, err error, result *models.CommandResult) error {
	switch {
	case errors.Is(err, models.ErrTransactionNotFound):
		return utils.NotFoundResponse(c, "Transaction not found")
	case errors.Is(err, models.ErrProviderUnknown):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, models.ErrKeyConflict):
		return utils.ConflictResponseWithState(c, "Idempotency key already used with a different payload", nil)
	case errors.Is(err, models.ErrOperationInProgress):
		return utils.ConflictResponseWithState(c, "Operation already in progress, retry shortly", nil)
	case errors.Is(err, models.ErrInvalidTransition):
		return utils.ConflictResponseWithState(c, err.Error(), result)
	case models.IsRetryableGatewayError(err):
		return utils.BadGatewayResponse(c, "")
	}

	var gatewayErr *models.GatewayError
	if errors.As(err, &gatewayErr) {
		return utils.ErrorResponseHandler(c, http.StatusUnprocessableEntity, gatewayErr.Error())
	}

	return utils.InternalServerErrorResponse(c, err.Error())
}
