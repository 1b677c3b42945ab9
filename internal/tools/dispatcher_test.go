package tools

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rodriguespn/skybridge/internal/domain"
	"github.com/Rodriguespn/skybridge/internal/gateway"
	"github.com/Rodriguespn/skybridge/internal/gateway/mock"
	"github.com/Rodriguespn/skybridge/pkg/logger"
)

type stubGateway struct {
	products  []domain.Product
	listErr   error
	session   *domain.CheckoutSession
	createErr error

	listCalls   int
	createCalls int
	gotLines    []domain.LineItem
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) ListProducts(_ context.Context) ([]domain.Product, error) {
	g.listCalls++
	return g.products, g.listErr
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, items []domain.LineItem) (*domain.CheckoutSession, error) {
	g.createCalls++
	g.gotLines = items
	return g.session, g.createErr
}

func newTestDispatcher(gw gateway.Gateway) *Dispatcher {
	return NewDispatcher(gw, nil, logger.NewWithWriter("test", "error", io.Discard))
}

func TestListTools(t *testing.T) {
	d := newTestDispatcher(&stubGateway{})

	tools := d.ListTools()
	require.Len(t, tools, 2)
	assert.Equal(t, ToolListProducts, tools[0].Name)
	assert.Equal(t, ToolBuyProducts, tools[1].Name)
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Description)
		assert.NotNil(t, tool.InputSchema)
	}
}

func TestCallToolUnknown(t *testing.T) {
	d := newTestDispatcher(&stubGateway{})

	result, err := d.CallTool(context.Background(), "emit_invoice", nil)
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestListProducts(t *testing.T) {
	gw := &stubGateway{products: []domain.Product{
		{ID: "prod_1", PriceID: "price_1", Name: "Espresso Beans", Price: 1450, Currency: "eur"},
		{ID: "prod_2", PriceID: "price_2", Name: "Ceramic Mug", Price: 1800, Currency: "eur"},
	}}
	d := newTestDispatcher(gw)

	result, err := d.CallTool(context.Background(), ToolListProducts, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	out, ok := result.StructuredContent.(ListProductsOutput)
	require.True(t, ok)
	assert.Len(t, out.Products, 2)
	assert.Equal(t, "price_1", out.Products[0].PriceID)
}

func TestListProductsFallsBackWhenNotConfigured(t *testing.T) {
	gw := &stubGateway{listErr: gateway.ErrNotConfigured}
	d := newTestDispatcher(gw)

	result, err := d.CallTool(context.Background(), ToolListProducts, nil)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	out, ok := result.StructuredContent.(ListProductsOutput)
	require.True(t, ok)
	assert.Equal(t, mock.Catalog(), out.Products)
}

func TestListProductsGatewayFailure(t *testing.T) {
	gw := &stubGateway{listErr: errors.New("upstream 500")}
	d := newTestDispatcher(gw)

	result, err := d.CallTool(context.Background(), ToolListProducts, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	// The upstream error detail must not leak into the tool result.
	require.NotEmpty(t, result.Content)
	assert.NotContains(t, result.Content[0].Text, "upstream 500")
}

func TestBuyProductsInvalidArguments(t *testing.T) {
	cases := []struct {
		name string
		args string
	}{
		{"malformed json", `{"items": [`},
		{"missing items", `{}`},
		{"empty items", `{"items": []}`},
		{"missing price id", `{"items": [{"quantity": 1}]}`},
		{"zero quantity", `{"items": [{"priceId": "price_1", "quantity": 0}]}`},
		{"negative quantity", `{"items": [{"priceId": "price_1", "quantity": -2}]}`},
		{"fractional quantity", `{"items": [{"priceId": "price_1", "quantity": 1.5}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &stubGateway{}
			d := newTestDispatcher(gw)

			result, err := d.CallTool(context.Background(), ToolBuyProducts, json.RawMessage(tc.args))
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			assert.Zero(t, gw.createCalls, "gateway must not be called for invalid input")
		})
	}
}

func TestBuyProducts(t *testing.T) {
	gw := &stubGateway{session: &domain.CheckoutSession{
		CheckoutSessionID:  "cs_test_123",
		CheckoutSessionURL: "https://pay.example.com/cs_test_123",
	}}
	d := newTestDispatcher(gw)

	args := json.RawMessage(`{"items": [
		{"priceId": "price_1", "quantity": 2},
		{"priceId": "price_2", "quantity": 1},
		{"priceId": "price_1", "quantity": 1}
	]}`)

	result, err := d.CallTool(context.Background(), ToolBuyProducts, args)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	require.Equal(t, 1, gw.createCalls)
	assert.Equal(t, []domain.LineItem{
		{PriceID: "price_1", Quantity: 3},
		{PriceID: "price_2", Quantity: 1},
	}, gw.gotLines)

	session, ok := result.StructuredContent.(*domain.CheckoutSession)
	require.True(t, ok)
	assert.Equal(t, "cs_test_123", session.CheckoutSessionID)
	require.NotEmpty(t, result.Content)
	assert.Contains(t, result.Content[0].Text, session.CheckoutSessionURL)
}

func TestBuyProductsGatewayFailure(t *testing.T) {
	gw := &stubGateway{createErr: errors.New("card network down")}
	d := newTestDispatcher(gw)

	args := json.RawMessage(`{"items": [{"priceId": "price_1", "quantity": 1}]}`)

	result, err := d.CallTool(context.Background(), ToolBuyProducts, args)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	require.NotEmpty(t, result.Content)
	assert.NotContains(t, result.Content[0].Text, "card network down")
}
