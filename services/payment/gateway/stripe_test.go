package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGatewayLogger(t *testing.T) *logger.ZapLogger {
	t.Helper()
	zapLogger, err := logger.NewZapLogger(logger.ZapConfig{Level: "error"}, nil)
	require.NoError(t, err)
	return zapLogger
}

func newTestStripeGateway(t *testing.T, handler http.HandlerFunc) (*StripeGateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gw := NewStripeGateway(models.ProviderConfig{
		APIBaseURL: server.URL,
		APIKey:     "sk_test_123",
	}, testGatewayLogger(t))

	return gw, server
}

func TestStripeCharge_ManualCaptureAuthorizes(t *testing.T) {
	txnID := uuid.New()

	gw, _ := newTestStripeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2500", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "manual", r.PostForm.Get("capture_method"))
		assert.Equal(t, txnID.String(), r.PostForm.Get("metadata[transaction_id]"))

		json.NewEncoder(w).Encode(map[string]string{"id": "pi_123", "status": "requires_capture"})
	})

	ref, err := gw.Charge(context.Background(), &models.ChargeRequest{
		TransactionID: txnID,
		AmountMinor:   2500,
		Currency:      "USD",
		Method:        "pm_card_visa",
	})

	require.NoError(t, err)
	assert.Equal(t, "stripe", ref.Provider)
	assert.Equal(t, "pi_123", ref.Reference)
	assert.Equal(t, models.ProviderStatusAuthorized, ref.Status)
}

func TestStripeCapture(t *testing.T) {
	gw, _ := newTestStripeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_123/capture", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "pi_123", "status": "succeeded"})
	})

	ref, err := gw.Capture(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusCaptured, ref.Status)
}

func TestStripeStatus(t *testing.T) {
	gw, _ := newTestStripeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "pi_123", "status": "canceled"})
	})

	ref, err := gw.Status(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusVoided, ref.Status)
}

func TestStripeCharge_CardDeclinedIsTerminal(t *testing.T) {
	gw, _ := newTestStripeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "card_declined", "message": "Your card was declined."},
		})
	})

	ref, err := gw.Charge(context.Background(), &models.ChargeRequest{
		TransactionID: uuid.New(),
		AmountMinor:   2500,
		Currency:      "USD",
		Method:        "pm_card_visa",
	})

	assert.Nil(t, ref)
	require.Error(t, err)
	assert.False(t, models.IsRetryableGatewayError(err))

	var gatewayErr *models.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, "card_declined", gatewayErr.Code)
}

func TestStripeCharge_ServerErrorIsRetryable(t *testing.T) {
	gw, _ := newTestStripeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := gw.Charge(context.Background(), &models.ChargeRequest{
		TransactionID: uuid.New(),
		AmountMinor:   2500,
		Currency:      "USD",
		Method:        "pm_card_visa",
	})

	require.Error(t, err)
	assert.True(t, models.IsRetryableGatewayError(err))
}

func TestStripeCharge_RateLimitIsRetryable(t *testing.T) {
	gw, _ := newTestStripeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := gw.Charge(context.Background(), &models.ChargeRequest{
		TransactionID: uuid.New(),
		AmountMinor:   2500,
		Currency:      "USD",
		Method:        "pm_card_visa",
	})

	require.Error(t, err)
	assert.True(t, models.IsRetryableGatewayError(err))
}

func TestStripeNormalizeWebhook(t *testing.T) {
	gw := NewStripeGateway(models.ProviderConfig{APIBaseURL: "http://stripe.local"}, testGatewayLogger(t))

	tests := []struct {
		name        string
		payload     string
		wantType    models.EventType
		wantRef     string
		wantEventID string
	}{
		{
			name:        "authorization",
			payload:     `{"id":"evt_1","type":"payment_intent.amount_capturable_updated","data":{"object":{"id":"pi_123","status":"requires_capture"}}}`,
			wantType:    models.EventAuthorizationSucceeded,
			wantRef:     "pi_123",
			wantEventID: "evt_1",
		},
		{
			name:        "capture",
			payload:     `{"id":"evt_2","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123","status":"succeeded"}}}`,
			wantType:    models.EventCaptureSucceeded,
			wantRef:     "pi_123",
			wantEventID: "evt_2",
		},
		{
			name:        "charge event resolves intent reference",
			payload:     `{"id":"evt_3","type":"charge.refunded","data":{"object":{"id":"ch_9","payment_intent":"pi_123"}}}`,
			wantType:    models.EventRefundSucceeded,
			wantRef:     "pi_123",
			wantEventID: "evt_3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := gw.NormalizeWebhook([]byte(tt.payload))

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, event.EventType)
			assert.Equal(t, models.CauseWebhook, event.Cause)
			assert.Equal(t, tt.wantEventID, event.EventID)
			assert.Equal(t, tt.wantRef, event.ProviderRef)
		})
	}
}

func TestStripeNormalizeWebhook_UnrecognizedShapes(t *testing.T) {
	gw := NewStripeGateway(models.ProviderConfig{APIBaseURL: "http://stripe.local"}, testGatewayLogger(t))

	payloads := []string{
		`not json`,
		`{"type":"payment_intent.succeeded"}`,
		`{"id":"evt_1","type":"customer.created"}`,
		`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{}}}`,
	}

	for _, payload := range payloads {
		_, err := gw.NormalizeWebhook([]byte(payload))
		assert.ErrorIs(t, err, models.ErrUnrecognizedPayload, "payload %q", payload)
	}
}
