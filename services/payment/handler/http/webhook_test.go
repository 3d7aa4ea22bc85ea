package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/services/payment/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookContext(e *echo.Echo, provider, body, sigHeader, signature string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/"+provider, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(sigHeader, signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/webhooks/:provider")
	c.SetParamNames("provider")
	c.SetParamValues(provider)
	return c, rec
}

func TestHandleWebhook_Accepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	h := NewWebhookHandler(mockUC)

	e := echo.New()
	payload := `{"id":"evt_1","type":"payment_intent.succeeded"}`
	c, rec := webhookContext(e, "stripe", payload, "Stripe-Signature", "t=1,v1=abc")

	mockUC.EXPECT().
		ProcessWebhook(gomock.Any(), "stripe", []byte(payload), "t=1,v1=abc").
		Return(nil)

	require.NoError(t, h.HandleWebhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Webhook accepted")
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	h := NewWebhookHandler(mockUC)

	e := echo.New()
	c, rec := webhookContext(e, "stripe", `{}`, "Stripe-Signature", "t=1,v1=bogus")

	mockUC.EXPECT().
		ProcessWebhook(gomock.Any(), "stripe", gomock.Any(), gomock.Any()).
		Return(models.ErrVerificationFailed)

	require.NoError(t, h.HandleWebhook(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWebhook_UnknownProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	h := NewWebhookHandler(mockUC)

	e := echo.New()
	c, rec := webhookContext(e, "square", `{}`, "X-Webhook-Signature", "sig")

	mockUC.EXPECT().
		ProcessWebhook(gomock.Any(), "square", gomock.Any(), "sig").
		Return(models.ErrProviderUnknown)

	require.NoError(t, h.HandleWebhook(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleWebhook_UnrecognizedPayloadStillAcknowledged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	h := NewWebhookHandler(mockUC)

	e := echo.New()
	c, rec := webhookContext(e, "stripe", `{"shape":"odd"}`, "Stripe-Signature", "t=1,v1=abc")

	mockUC.EXPECT().
		ProcessWebhook(gomock.Any(), "stripe", gomock.Any(), gomock.Any()).
		Return(models.ErrUnrecognizedPayload)

	require.NoError(t, h.HandleWebhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "held for review")
}

func TestHandleWebhook_UnknownReferenceStillAcknowledged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	h := NewWebhookHandler(mockUC)

	e := echo.New()
	c, rec := webhookContext(e, "paypal", `{"id":"WH-1"}`, "Paypal-Signature", "t=1,v1=abc")

	mockUC.EXPECT().
		ProcessWebhook(gomock.Any(), "paypal", gomock.Any(), gomock.Any()).
		Return(models.ErrTransactionNotFound)

	require.NoError(t, h.HandleWebhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleWebhook_InternalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	h := NewWebhookHandler(mockUC)

	e := echo.New()
	c, rec := webhookContext(e, "stripe", `{}`, "Stripe-Signature", "t=1,v1=abc")

	mockUC.EXPECT().
		ProcessWebhook(gomock.Any(), "stripe", gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	require.NoError(t, h.HandleWebhook(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
