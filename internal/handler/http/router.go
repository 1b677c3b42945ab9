package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Rodriguespn/skybridge/internal/ui"
	"github.com/Rodriguespn/skybridge/pkg/health"
	"github.com/Rodriguespn/skybridge/pkg/middleware"
)

// NewRouter creates a chi router with all skybridge routes registered.
func NewRouter(
	mcpHandler http.Handler,
	widget *ui.Provider,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("skybridge"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Session transport. The handler owns its own method dispatch.
	r.Handle("/mcp", mcpHandler)

	// Browser-facing pages
	pages := NewPageHandler(widget, logger)
	r.Get("/widget", pages.Widget)
	r.Get("/checkout/success", pages.CheckoutSuccess)
	r.Get("/checkout/cancel", pages.CheckoutCancel)

	return r
}
