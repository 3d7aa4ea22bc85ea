package gateway

import (
	"testing"

	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	zapLogger := testGatewayLogger(t)
	stripe := NewStripeGateway(models.ProviderConfig{APIBaseURL: "http://stripe.local"}, zapLogger)
	paypal := NewPayPalGateway(models.ProviderConfig{APIBaseURL: "http://paypal.local"}, zapLogger)

	registry := NewRegistry(stripe, paypal)

	got, err := registry.Get("stripe")
	require.NoError(t, err)
	assert.Equal(t, stripe, got)

	got, err = registry.Get("paypal")
	require.NoError(t, err)
	assert.Equal(t, paypal, got)

	assert.ElementsMatch(t, []string{"stripe", "paypal"}, registry.Providers())
}

func TestRegistry_UnknownProvider(t *testing.T) {
	registry := NewRegistry(NewStripeGateway(models.ProviderConfig{}, testGatewayLogger(t)))

	got, err := registry.Get("square")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, models.ErrProviderUnknown)
}
