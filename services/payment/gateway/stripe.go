package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/myreprise/payflow/internal/pkg/circuitbreaker"
	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
)

const ProviderStripe = "stripe"

// StripeGateway adapts the Stripe PaymentIntents API to the common gateway
// model. All calls run behind a circuit breaker with bounded timeouts.
type StripeGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *logger.ZapLogger
}

// NewStripeGateway creates a new Stripe gateway adapter
func NewStripeGateway(cfg models.ProviderConfig, zapLogger *logger.ZapLogger) *StripeGateway {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	breakerCfg := circuitbreaker.DefaultConfig("stripe-gateway")
	// Client errors are the caller's problem; only provider-side failures
	// should trip the breaker.
	breakerCfg.IsFailure = func(err error) bool {
		if err == nil {
			return false
		}
		return models.IsRetryableGatewayError(err)
	}

	return &StripeGateway{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    circuitbreaker.New(breakerCfg, zapLogger),
		logger:     zapLogger,
	}
}

// Name returns the provider name this adapter serves
func (g *StripeGateway) Name() string {
	return ProviderStripe
}

// stripeIntent is the subset of the PaymentIntent object we consume
type stripeIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Charge creates and confirms a payment intent for manual capture
func (g *StripeGateway) Charge(ctx context.Context, req *models.ChargeRequest) (*models.ProviderRef, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("payment_method", req.Method)
	form.Set("capture_method", "manual")
	form.Set("confirm", "true")
	form.Set("metadata[transaction_id]", req.TransactionID.String())

	intent, err := g.do(ctx, http.MethodPost, "/v1/payment_intents", form)
	if err != nil {
		return nil, err
	}

	return g.toProviderRef(intent), nil
}

// Capture commits a previously authorized payment intent
func (g *StripeGateway) Capture(ctx context.Context, providerRef string) (*models.ProviderRef, error) {
	path := fmt.Sprintf("/v1/payment_intents/%s/capture", providerRef)
	intent, err := g.do(ctx, http.MethodPost, path, url.Values{})
	if err != nil {
		return nil, err
	}

	return g.toProviderRef(intent), nil
}

// Void cancels an authorization before capture
func (g *StripeGateway) Void(ctx context.Context, providerRef string) (*models.ProviderRef, error) {
	path := fmt.Sprintf("/v1/payment_intents/%s/cancel", providerRef)
	intent, err := g.do(ctx, http.MethodPost, path, url.Values{})
	if err != nil {
		return nil, err
	}

	return g.toProviderRef(intent), nil
}

// Refund reverses a captured charge
func (g *StripeGateway) Refund(ctx context.Context, providerRef string, amountMinor int64) (*models.ProviderRef, error) {
	form := url.Values{}
	form.Set("payment_intent", providerRef)
	if amountMinor > 0 {
		form.Set("amount", strconv.FormatInt(amountMinor, 10))
	}

	if _, err := g.do(ctx, http.MethodPost, "/v1/refunds", form); err != nil {
		return nil, err
	}

	return &models.ProviderRef{
		Provider:  ProviderStripe,
		Reference: providerRef,
		Status:    models.ProviderStatusRefunded,
	}, nil
}

// Status queries the authoritative provider-side state
func (g *StripeGateway) Status(ctx context.Context, providerRef string) (*models.ProviderRef, error) {
	path := fmt.Sprintf("/v1/payment_intents/%s", providerRef)
	intent, err := g.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return g.toProviderRef(intent), nil
}

// stripeEvent is the envelope of a Stripe webhook payload
type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentIntent string `json:"payment_intent"`
			Status        string `json:"status"`
		} `json:"object"`
	} `json:"data"`
}

// stripeEventTypes maps Stripe webhook event types to transition event types
var stripeEventTypes = map[string]models.EventType{
	"payment_intent.amount_capturable_updated": models.EventAuthorizationSucceeded,
	"payment_intent.succeeded":                 models.EventCaptureSucceeded,
	"payment_intent.payment_failed":            models.EventPaymentFailed,
	"payment_intent.canceled":                  models.EventVoidSucceeded,
	"charge.settled":                           models.EventSettlementConfirmed,
	"charge.refunded":                          models.EventRefundSucceeded,
}

// NormalizeWebhook converts a raw Stripe callback into a transition event.
// TransactionID and FromState are resolved by the caller from the ledger.
func (g *StripeGateway) NormalizeWebhook(payload []byte) (*models.TransitionEvent, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed stripe event: %v", models.ErrUnrecognizedPayload, err)
	}
	if event.ID == "" {
		return nil, fmt.Errorf("%w: missing stripe event id", models.ErrUnrecognizedPayload)
	}

	eventType, ok := stripeEventTypes[event.Type]
	if !ok {
		return nil, fmt.Errorf("%w: stripe event type %q", models.ErrUnrecognizedPayload, event.Type)
	}

	// Charge-scoped events reference the intent indirectly.
	providerRef := event.Data.Object.ID
	if event.Data.Object.PaymentIntent != "" {
		providerRef = event.Data.Object.PaymentIntent
	}
	if providerRef == "" {
		return nil, fmt.Errorf("%w: stripe event %s carries no reference", models.ErrUnrecognizedPayload, event.ID)
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
func (g *StripeGateway) do(ctx context.Context, method, path string, form url.Values) (*stripeIntent, error) {
	var intent *stripeIntent

	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}

		req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("failed to build stripe request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return &models.GatewayError{
				Provider:  ProviderStripe,
				Code:      "network_error",
				Message:   err.Error(),
				Retryable: true,
			}
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return &models.GatewayError{
				Provider:  ProviderStripe,
				Code:      "read_error",
				Message:   err.Error(),
				Retryable: true,
			}
		}

		if resp.StatusCode >= 400 {
			return stripeAPIError(resp.StatusCode, respBody)
		}

		var parsed stripeIntent
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return fmt.Errorf("failed to decode stripe response: %w", err)
		}
		intent = &parsed

		return nil
	})
	if err != nil {
		return nil, err
	}

	return intent, nil
}

// stripeAPIError maps an HTTP error response to a GatewayError. 5xx and 429
// are retryable; other 4xx are terminal for the attempt.
func stripeAPIError(statusCode int, body []byte) *models.GatewayError {
	var apiErr struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)

	code := apiErr.Error.Code
	if code == "" {
		code = strconv.Itoa(statusCode)
	}
	message := apiErr.Error.Message
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return &models.GatewayError{
		Provider:  ProviderStripe,
		Code:      code,
		Message:   message,
		Retryable: statusCode >= 500 || statusCode == http.StatusTooManyRequests,
	}
}

// stripeStatuses maps intent statuses to normalized provider statuses
var stripeStatuses = map[string]models.ProviderStatus{
	"requires_payment_method": models.ProviderStatusPending,
	"requires_confirmation":   models.ProviderStatusPending,
	"requires_action":         models.ProviderStatusPending,
	"processing":              models.ProviderStatusPending,
	"requires_capture":        models.ProviderStatusAuthorized,
	"succeeded":               models.ProviderStatusCaptured,
	"canceled":                models.ProviderStatusVoided,
}

func (g *StripeGateway) toProviderRef(intent *stripeIntent) *models.ProviderRef {
	status, ok := stripeStatuses[intent.Status]
	if !ok {
		status = models.ProviderStatusPending
	}

	return &models.ProviderRef{
		Provider:  ProviderStripe,
		Reference: intent.ID,
		Status:    status,
	}
}
