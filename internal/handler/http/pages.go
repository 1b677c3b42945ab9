// Package http registers the browser-facing routes: the session transport
// mount, the rendered widget, and the fixed checkout redirect pages.
package http

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/Rodriguespn/skybridge/internal/ui"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding: 48px;">
<h1>%s</h1>
<p>%s</p>
</body>
</html>
`

// PageHandler serves the widget document and the checkout redirect pages.
type PageHandler struct {
	widget *ui.Provider
	logger *slog.Logger
}

// NewPageHandler creates a page handler.
func NewPageHandler(widget *ui.Provider, logger *slog.Logger) *PageHandler {
	return &PageHandler{widget: widget, logger: logger}
}

// Widget serves the rendered storefront widget.
func (h *PageHandler) Widget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, h.widget.Render())
}

// CheckoutSuccess acknowledges a completed payment. The payment gateway
// redirects here with the checkout session id in the query string.
func (h *PageHandler) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	detail := "Your payment was received."
	if id := r.URL.Query().Get("session_id"); id != "" {
		detail = "Your payment was received. Reference: " + html.EscapeString(id)
		h.logger.InfoContext(r.Context(), "checkout completed",
			slog.String("checkout_session_id", id),
		)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageTemplate, "Payment complete", "Thank you!", detail)
}

// CheckoutCancel acknowledges an abandoned payment.
func (h *PageHandler) CheckoutCancel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageTemplate, "Payment canceled", "Checkout canceled",
		"No payment was taken. You can return to the store and try again.")
}
