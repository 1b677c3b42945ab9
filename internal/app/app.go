// Package app wires together all dependencies and runs the skybridge
// service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Rodriguespn/skybridge/internal/config"
	"github.com/Rodriguespn/skybridge/internal/event"
	"github.com/Rodriguespn/skybridge/internal/gateway"
	"github.com/Rodriguespn/skybridge/internal/gateway/mock"
	"github.com/Rodriguespn/skybridge/internal/gateway/stripe"
	handler "github.com/Rodriguespn/skybridge/internal/handler/http"
	"github.com/Rodriguespn/skybridge/internal/mcp"
	"github.com/Rodriguespn/skybridge/internal/tools"
	"github.com/Rodriguespn/skybridge/internal/ui"
	"github.com/Rodriguespn/skybridge/pkg/health"
	pkgkafka "github.com/Rodriguespn/skybridge/pkg/kafka"
)

// Version is set at build time.
var Version = "dev"

// App holds the long-lived components of the service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Select the payment gateway. A configured Stripe key selects the live
	// adapter; otherwise the deterministic fallback serves the same surface.
	var gw gateway.Gateway
	if cfg.StripeEnabled() {
		live, err := stripe.New(cfg.StripeAPIKey, cfg.BaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize stripe gateway: %w", err)
		}
		gw = live
	} else {
		gw = mock.New(cfg.BaseURL)
		logger.Warn("no Stripe key configured, using the fallback gateway")
	}
	logger.Info("payment gateway selected", slog.String("gateway", gw.Name()))

	// Kafka producer, only when brokers are configured.
	var producer *pkgkafka.Producer
	var eventProducer *event.Producer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		eventProducer = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("no Kafka brokers configured, event publishing disabled")
	}

	// Build the dependency graph.
	dispatcher := tools.NewDispatcher(gw, eventProducer, logger)
	widget := ui.NewProvider(cfg.BaseURL)
	registry := mcp.NewRegistry(logger)
	mcpHandler := mcp.NewHandler(registry, dispatcher, widget,
		mcp.Info{Name: "skybridge", Version: Version}, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	if producer != nil {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	// HTTP router.
	router := handler.NewRouter(mcpHandler, widget, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("base_url", a.cfg.BaseURL),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
