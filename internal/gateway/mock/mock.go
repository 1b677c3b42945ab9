// Package mock is the fallback gateway used when no payment provider
// credentials are configured. It serves a fixed catalog and synthesizes
// checkout sessions without any network I/O.
package mock

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Rodriguespn/skybridge/internal/domain"
)

// Gateway is a deterministic in-process stand-in for the live provider.
// Output shapes are identical to the live path.
type Gateway struct {
	baseURL string
}

// New creates a mock gateway. baseURL is used to build checkout URLs the
// same way the live gateway builds redirect URLs.
func New(baseURL string) *Gateway {
	return &Gateway{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Name returns the provider name.
func (g *Gateway) Name() string {
	return "mock"
}

// ListProducts returns the fixed fallback catalog.
func (g *Gateway) ListProducts(_ context.Context) ([]domain.Product, error) {
	return Catalog(), nil
}

// CreateCheckoutSession synthesizes a checkout session with the same shape
// as the live path. No external call is made.
func (g *Gateway) CreateCheckoutSession(_ context.Context, _ []domain.LineItem) (*domain.CheckoutSession, error) {
	id := "mock_cs_" + uuid.New().String()
	return &domain.CheckoutSession{
		CheckoutSessionID:  id,
		CheckoutSessionURL: g.baseURL + "/checkout/success?session_id=" + id,
	}, nil
}

// Catalog returns the deterministic fallback dataset.
func Catalog() []domain.Product {
	return []domain.Product{
		{
			ID:          "prod_mock_espresso",
			PriceID:     "price_mock_espresso",
			Name:        "Espresso Blend",
			Description: ptr("Dark roast whole beans, 250g"),
			Image:       ptr("https://images.example.com/espresso-blend.jpg"),
			Price:       1450,
			Currency:    "EUR",
		},
		{
			ID:          "prod_mock_filter",
			PriceID:     "price_mock_filter",
			Name:        "Filter Roast",
			Description: ptr("Light roast whole beans, 250g"),
			Image:       ptr("https://images.example.com/filter-roast.jpg"),
			Price:       1650,
			Currency:    "EUR",
		},
		{
			ID:       "prod_mock_mug",
			PriceID:  "price_mock_mug",
			Name:     "Ceramic Mug",
			Price:    1200,
			Currency: "EUR",
		},
	}
}

func ptr(s string) *string {
	return &s
}
