// Package stripe implements the payment gateway against the Stripe API.
package stripe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/Rodriguespn/skybridge/internal/domain"
	"github.com/Rodriguespn/skybridge/internal/gateway"
)

// Gateway talks to Stripe for product listing and checkout session creation.
type Gateway struct {
	api     *client.API
	baseURL string
	logger  *slog.Logger
}

// New creates a Stripe gateway. baseURL is used to build absolute
// success/cancel redirect URLs.
func New(apiKey, baseURL string, logger *slog.Logger) (*Gateway, error) {
	if apiKey == "" {
		return nil, gateway.ErrNotConfigured
	}

	api := &client.API{}
	api.Init(apiKey, nil)

	return &Gateway{
		api:     api,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Name returns the provider name.
func (g *Gateway) Name() string {
	return "stripe"
}

// ListProducts lists active Stripe products with their default price.
// Products without a default price are skipped; they cannot be purchased.
func (g *Gateway) ListProducts(ctx context.Context) ([]domain.Product, error) {
	params := &stripe.ProductListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.AddExpand("data.default_price")

	var products []domain.Product
	iter := g.api.Products.List(params)
	for iter.Next() {
		p := iter.Product()
		if p.DefaultPrice == nil || p.DefaultPrice.ID == "" {
			g.logger.DebugContext(ctx, "skipping product without default price",
				slog.String("product_id", p.ID),
			)
			continue
		}

		product := domain.Product{
			ID:       p.ID,
			PriceID:  p.DefaultPrice.ID,
			Name:     p.Name,
			Price:    p.DefaultPrice.UnitAmount,
			Currency: strings.ToUpper(string(p.DefaultPrice.Currency)),
		}
		if p.Description != "" {
			desc := p.Description
			product.Description = &desc
		}
		if len(p.Images) > 0 {
			img := p.Images[0]
			product.Image = &img
		}
		products = append(products, product)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list stripe products: %w", err)
	}

	return products, nil
}

// CreateCheckoutSession creates a payment-mode hosted checkout session for
// the aggregated line items.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, items []domain.LineItem) (*domain.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(items))
	for i, item := range items {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(item.PriceID),
			Quantity: stripe.Int64(item.Quantity),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(g.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.baseURL + "/checkout/cancel"),
	}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}

	g.logger.InfoContext(ctx, "checkout session created",
		slog.String("checkout_session_id", session.ID),
		slog.Int("line_items", len(items)),
	)

	return &domain.CheckoutSession{
		CheckoutSessionID:  session.ID,
		CheckoutSessionURL: session.URL,
	}, nil
}
