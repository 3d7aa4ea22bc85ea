package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/myreprise/payflow/internal/pkg/circuitbreaker"
	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
)

const ProviderPayPal = "paypal"

// PayPalGateway adapts the PayPal Payments API to the common gateway model.
type PayPalGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *logger.ZapLogger
}

// NewPayPalGateway creates a new PayPal gateway adapter
func NewPayPalGateway(cfg models.ProviderConfig, zapLogger *logger.ZapLogger) *PayPalGateway {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	breakerCfg := circuitbreaker.DefaultConfig("paypal-gateway")
	breakerCfg.IsFailure = func(err error) bool {
		if err == nil {
			return false
		}
		return models.IsRetryableGatewayError(err)
	}

	return &PayPalGateway{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    circuitbreaker.New(breakerCfg, zapLogger),
		logger:     zapLogger,
	}
}

// Name returns the provider name this adapter serves
func (g *PayPalGateway) Name() string {
	return ProviderPayPal
}

// paypalPayment is the subset of the payment resource we consume
type paypalPayment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Charge creates an authorization for the given amount
func (g *PayPalGateway) Charge(ctx context.Context, req *models.ChargeRequest) (*models.ProviderRef, error) {
	body := map[string]interface{}{
		"intent": "AUTHORIZE",
		"amount": map[string]string{
			// PayPal wants decimal major units on the wire; the ledger
			// stays in integer minor units.
			"value":         minorToDecimal(req.AmountMinor),
			"currency_code": strings.ToUpper(req.Currency),
		},
		"payment_source": map[string]string{"token": req.Method},
		"custom_id":      req.TransactionID.String(),
	}

	payment, err := g.do(ctx, http.MethodPost, "/v2/payments/authorizations", body)
	if err != nil {
		return nil, err
	}

	return g.toProviderRef(payment), nil
}

// Capture commits a previously created authorization
func (g *PayPalGateway) Capture(ctx context.Context, providerRef string) (*models.ProviderRef, error) {
	path := fmt.Sprintf("/v2/payments/authorizations/%s/capture", providerRef)
	payment, err := g.do(ctx, http.MethodPost, path, map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	ref := g.toProviderRef(payment)
	// The capture call returns a capture resource; keep the original
	// authorization reference so local lookups stay stable.
	ref.Reference = providerRef
	return ref, nil
}

// Void cancels an authorization before capture
func (g *PayPalGateway) Void(ctx context.Context, providerRef string) (*models.ProviderRef, error) {
	path := fmt.Sprintf("/v2/payments/authorizations/%s/void", providerRef)
	if _, err := g.do(ctx, http.MethodPost, path, map[string]interface{}{}); err != nil {
		return nil, err
	}

	return &models.ProviderRef{
		Provider:  ProviderPayPal,
		Reference: providerRef,
		Status:    models.ProviderStatusVoided,
	}, nil
}

// Refund reverses a captured charge
func (g *PayPalGateway) Refund(ctx context.Context, providerRef string, amountMinor int64) (*models.ProviderRef, error) {
	path := fmt.Sprintf("/v2/payments/captures/%s/refund", providerRef)
	body := map[string]interface{}{}
	if amountMinor > 0 {
		body["amount"] = map[string]string{"value": minorToDecimal(amountMinor)}
	}

	if _, err := g.do(ctx, http.MethodPost, path, body); err != nil {
		return nil, err
	}

	return &models.ProviderRef{
		Provider:  ProviderPayPal,
		Reference: providerRef,
		Status:    models.ProviderStatusRefunded,
	}, nil
}

// Status queries the authoritative provider-side state
func (g *PayPalGateway) Status(ctx context.Context, providerRef string) (*models.ProviderRef, error) {
	path := fmt.Sprintf("/v2/payments/authorizations/%s", providerRef)
	payment, err := g.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	ref := g.toProviderRef(payment)
	ref.Reference = providerRef
	return ref, nil
}

// paypalEvent is the envelope of a PayPal webhook payload
type paypalEvent struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID              string `json:"id"`
		AuthorizationID string `json:"authorization_id"`
		Status          string `json:"status"`
	} `json:"resource"`
}

// paypalEventTypes maps PayPal webhook event types to transition event types.
// PayPal captures synchronously on command, so CAPTURE.COMPLETED confirms
// settlement rather than capture.
var paypalEventTypes = map[string]models.EventType{
	"PAYMENT.AUTHORIZATION.CREATED": models.EventAuthorizationSucceeded,
	"PAYMENT.AUTHORIZATION.VOIDED":  models.EventVoidSucceeded,
	"PAYMENT.CAPTURE.COMPLETED":     models.EventSettlementConfirmed,
	"PAYMENT.CAPTURE.DENIED":        models.EventPaymentFailed,
	"PAYMENT.CAPTURE.REFUNDED":      models.EventRefundSucceeded,
}

// NormalizeWebhook converts a raw PayPal callback into a transition event
func (g *PayPalGateway) NormalizeWebhook(payload []byte) (*models.TransitionEvent, error) {
	var event paypalEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed paypal event: %v", models.ErrUnrecognizedPayload, err)
	}
	if event.ID == "" {
		return nil, fmt.Errorf("%w: missing paypal event id", models.ErrUnrecognizedPayload)
	}

	eventType, ok := paypalEventTypes[event.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: paypal event type %q", models.ErrUnrecognizedPayload, event.EventType)
	}

	providerRef := event.Resource.AuthorizationID
	if providerRef == "" {
		providerRef = event.Resource.ID
	}
	if providerRef == "" {
		return nil, fmt.Errorf("%w: paypal event %s carries no reference", models.ErrUnrecognizedPayload, event.ID)
	}

	return &models.TransitionEvent{
		EventType:   eventType,
		Cause:       models.CauseWebhook,
		EventID:     event.ID,
		ProviderRef: providerRef,
		Payload:     payload,
	}, nil
}

// do executes one API call behind the circuit breaker
func (g *PayPalGateway) do(ctx context.Context, method, path string, body map[string]interface{}) (*paypalPayment, error) {
	var payment *paypalPayment

	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal paypal request: %w", err)
			}
			reader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("failed to build paypal request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return &models.GatewayError{
				Provider:  ProviderPayPal,
				Code:      "network_error",
				Message:   err.Error(),
				Retryable: true,
			}
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return &models.GatewayError{
				Provider:  ProviderPayPal,
				Code:      "read_error",
				Message:   err.Error(),
				Retryable: true,
			}
		}

		if resp.StatusCode >= 400 {
			return paypalAPIError(resp.StatusCode, respBody)
		}

		var parsed paypalPayment
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return fmt.Errorf("failed to decode paypal response: %w", err)
		}
		payment = &parsed

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// paypalAPIError maps an HTTP error response to a GatewayError
func paypalAPIError(statusCode int, body []byte) *models.GatewayError {
	var apiErr struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &apiErr)

	code := apiErr.Name
	if code == "" {
		code = strconv.Itoa(statusCode)
	}
	message := apiErr.Message
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return &models.GatewayError{
		Provider:  ProviderPayPal,
		Code:      code,
		Message:   message,
		Retryable: statusCode >= 500 || statusCode == http.StatusTooManyRequests,
	}
}

// paypalStatuses maps payment statuses to normalized provider statuses
var paypalStatuses = map[string]models.ProviderStatus{
	"CREATED":            models.ProviderStatusPending,
	"PENDING":            models.ProviderStatusPending,
	"AUTHORIZED":         models.ProviderStatusAuthorized,
	"CAPTURED":           models.ProviderStatusCaptured,
	"COMPLETED":          models.ProviderStatusSettled,
	"DECLINED":           models.ProviderStatusFailed,
	"DENIED":             models.ProviderStatusFailed,
	"VOIDED":             models.ProviderStatusVoided,
	"REFUNDED":           models.ProviderStatusRefunded,
	"PARTIALLY_REFUNDED": models.ProviderStatusRefunded,
}

func (g *PayPalGateway) toProviderRef(payment *paypalPayment) *models.ProviderRef {
	status, ok := paypalStatuses[payment.Status]
	if !ok {
		status = models.ProviderStatusPending
	}

	return &models.ProviderRef{
		Provider:  ProviderPayPal,
		Reference: payment.ID,
		Status:    status,
	}
}

// minorToDecimal formats integer minor units as a two-decimal string
func minorToDecimal(amountMinor int64) string {
	negative := ""
	if amountMinor < 0 {
		negative = "-"
		amountMinor = -amountMinor
	}
	return fmt.Sprintf("%s%d.%02d", negative, amountMinor/100, amountMinor%100)
}
