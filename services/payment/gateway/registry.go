package gateway

import (
	"fmt"

	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/services/payment"
)

// Registry maps provider names to gateway adapters. Adapters are registered
// once at startup; lookups are read-only afterwards.
type Registry struct {
	adapters map[string]payment.PaymentGateway
}

// NewRegistry creates a registry with the given adapters
func NewRegistry(adapters ...payment.PaymentGateway) *Registry {
	r := &Registry{adapters: make(map[string]payment.PaymentGateway, len(adapters))}
	for _, adapter := range adapters {
		r.adapters[adapter.Name()] = adapter
	}
	return r
}

// Get returns the adapter for the given provider name
func (r *Registry) Get(provider string) (payment.PaymentGateway, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrProviderUnknown, provider)
	}
	return adapter, nil
}

// Providers returns the registered provider names
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}
