package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Rodriguespn/skybridge/internal/domain"
	pkgkafka "github.com/Rodriguespn/skybridge/pkg/kafka"
	"github.com/Rodriguespn/skybridge/pkg/logger"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCheckoutCreated = "skybridge.checkout.created"
)

// Aggregate type constant.
const AggregateTypeCheckout = "checkout"

// Source identifier for events originating from this service.
const SourceSkybridge = "skybridge"

// CheckoutCreatedData is the payload for a checkout.created event.
type CheckoutCreatedData struct {
	CheckoutSessionID string         `json:"checkout_session_id"`
	Gateway           string         `json:"gateway"`
	Items             []LineItemData `json:"items"`
	ItemCount         int            `json:"item_count"`
}

// LineItemData is the line-item payload within checkout events.
type LineItemData struct {
	PriceID  string `json:"price_id"`
	Quantity int64  `json:"quantity"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCheckoutCreated publishes a checkout.created event.
func (p *Producer) PublishCheckoutCreated(ctx context.Context, gatewayName string, session *domain.CheckoutSession, items []domain.LineItem) error {
	lineItems := make([]LineItemData, len(items))
	for i, item := range items {
		lineItems[i] = LineItemData{
			PriceID:  item.PriceID,
			Quantity: item.Quantity,
		}
	}

	data := CheckoutCreatedData{
		CheckoutSessionID: session.CheckoutSessionID,
		Gateway:           gatewayName,
		Items:             lineItems,
		ItemCount:         len(lineItems),
	}

	event, err := pkgkafka.NewEvent(TopicCheckoutCreated, session.CheckoutSessionID, AggregateTypeCheckout, SourceSkybridge, data)
	if err != nil {
		return fmt.Errorf("create checkout.created event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, TopicCheckoutCreated, event); err != nil {
		return fmt.Errorf("publish checkout.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.created event",
		slog.String("checkout_session_id", session.CheckoutSessionID),
		slog.Int("item_count", len(lineItems)),
	)

	return nil
}
