// Package tools maps named tool invocations to their handlers and owns
// input validation at the dispatch boundary. Tool-level failures always
// produce a well-formed failure-flagged result, never a transport fault.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rodriguespn/skybridge/internal/domain"
	"github.com/Rodriguespn/skybridge/internal/event"
	"github.com/Rodriguespn/skybridge/internal/gateway"
	"github.com/Rodriguespn/skybridge/internal/gateway/mock"
	"github.com/Rodriguespn/skybridge/internal/mcp"
	"github.com/Rodriguespn/skybridge/pkg/validator"
)

// Tool names.
const (
	ToolListProducts = "list_products"
	ToolBuyProducts  = "buy_products"
)

// BuyProductsInput is the declared input of the buy_products tool.
type BuyProductsInput struct {
	Items []BuyItemInput `json:"items" validate:"required,min=1,dive"`
}

// BuyItemInput is one requested line item.
type BuyItemInput struct {
	PriceID  string `json:"priceId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// ListProductsOutput is the structured result of list_products.
type ListProductsOutput struct {
	Products []domain.Product `json:"products"`
}

// Dispatcher routes tool calls to the gateway and the checkout aggregator.
type Dispatcher struct {
	gateway  gateway.Gateway
	producer *event.Producer
	logger   *slog.Logger
}

// NewDispatcher creates a tool dispatcher. The producer may be nil when
// event publishing is disabled.
func NewDispatcher(gw gateway.Gateway, producer *event.Producer, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		gateway:  gw,
		producer: producer,
		logger:   log,
	}
}

// ListTools returns the declared tool surface.
func (d *Dispatcher) ListTools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        ToolListProducts,
			Description: "List the purchasable products in the storefront catalog.",
			InputSchema: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{},
				"additionalProperties": false,
			},
		},
		{
			Name:        ToolBuyProducts,
			Description: "Create a payment checkout link for the selected products.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"items": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"priceId":  map[string]any{"type": "string", "minLength": 1},
								"quantity": map[string]any{"type": "integer", "minimum": 1},
							},
							"required": []string{"priceId", "quantity"},
						},
					},
				},
				"required": []string{"items"},
			},
		},
	}
}

// CallTool invokes the named tool. The error return is reserved for an
// unknown tool name; every other failure is a failure-flagged result.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	switch name {
	case ToolListProducts:
		return d.listProducts(ctx), nil
	case ToolBuyProducts:
		return d.buyProducts(ctx, args), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (d *Dispatcher) listProducts(ctx context.Context) *mcp.CallToolResult {
	products, err := d.gateway.ListProducts(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrNotConfigured) {
			// Same Product schema as the live path.
			products = mock.Catalog()
		} else {
			d.logger.ErrorContext(ctx, "product listing failed",
				slog.String("gateway", d.gateway.Name()),
				slog.String("error", err.Error()),
			)
			return mcp.ToolError("The product catalog is currently unavailable.")
		}
	}

	return &mcp.CallToolResult{
		Content:           []mcp.ContentBlock{mcp.TextContent(fmt.Sprintf("%d products available.", len(products)))},
		StructuredContent: ListProductsOutput{Products: products},
	}
}

func (d *Dispatcher) buyProducts(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var input BuyProductsInput
	if err := json.Unmarshal(args, &input); err != nil {
		return mcp.ToolError("invalid buy_products arguments: " + err.Error())
	}
	if err := validator.Validate(input); err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			return mcp.ToolError("invalid buy_products arguments: " + valErr.Error())
		}
		return mcp.ToolError("invalid buy_products arguments")
	}

	requests := make([]domain.CheckoutItemRequest, len(input.Items))
	for i, item := range input.Items {
		requests[i] = domain.CheckoutItemRequest{
			PriceID:  item.PriceID,
			Quantity: float64(item.Quantity),
		}
	}
	lines := domain.Aggregate(requests)

	session, err := d.gateway.CreateCheckoutSession(ctx, lines)
	if err != nil {
		d.logger.ErrorContext(ctx, "checkout session creation failed",
			slog.String("gateway", d.gateway.Name()),
			slog.Int("line_items", len(lines)),
			slog.String("error", err.Error()),
		)
		// No automatic retry; the caller decides.
		return mcp.ToolError("Checkout could not be completed. Please try again.")
	}

	if d.producer != nil {
		if err := d.producer.PublishCheckoutCreated(ctx, d.gateway.Name(), session, lines); err != nil {
			d.logger.WarnContext(ctx, "failed to publish checkout.created event",
				slog.String("checkout_session_id", session.CheckoutSessionID),
				slog.String("error", err.Error()),
			)
		}
	}

	return &mcp.CallToolResult{
		Content:           []mcp.ContentBlock{mcp.TextContent("Checkout ready: " + session.CheckoutSessionURL)},
		StructuredContent: session,
	}
}
