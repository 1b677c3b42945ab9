// Package gateway defines the interface to the external catalog/payment
// provider. The stripe subpackage talks to the live provider; the mock
// subpackage supplies a deterministic fallback when no credentials are
// configured.
package gateway

import (
	"context"
	"errors"

	"github.com/Rodriguespn/skybridge/internal/domain"
)

// ErrNotConfigured indicates the gateway has no provider credentials and
// cannot perform live calls.
var ErrNotConfigured = errors.New("gateway: payment provider not configured")

// Gateway defines the interface to the catalog/payment provider.
type Gateway interface {
	// Name returns the provider name (e.g. "stripe", "mock").
	Name() string

	// ListProducts returns the purchasable catalog.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// CreateCheckoutSession submits aggregated line items and returns a
	// hosted checkout session. Items are already sanitized and deduplicated.
	CreateCheckoutSession(ctx context.Context, items []domain.LineItem) (*domain.CheckoutSession, error)
}
