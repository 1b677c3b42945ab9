// Package ui embeds and serves the storefront widget document.
package ui

import (
	_ "embed"
	"strings"

	"github.com/Rodriguespn/skybridge/internal/mcp"
	apperrors "github.com/Rodriguespn/skybridge/pkg/errors"
)

// WidgetURI is the advertised resource identifier of the widget.
const WidgetURI = "ui://widget/storefront.html"

const basePlaceholder = "{{BASE_URL}}"

//go:embed widget.html
var widgetHTML string

// Provider serves the widget document with absolute asset and endpoint
// URLs substituted for the configured base.
type Provider struct {
	baseURL string
}

// NewProvider creates a widget provider. The base URL is used verbatim, so
// it must not carry a trailing slash.
func NewProvider(baseURL string) *Provider {
	return &Provider{baseURL: strings.TrimRight(baseURL, "/")}
}

// Render returns the widget document with the base URL substituted.
func (p *Provider) Render() string {
	return strings.ReplaceAll(widgetHTML, basePlaceholder, p.baseURL)
}

// ListResources advertises the widget.
func (p *Provider) ListResources() []mcp.Resource {
	return []mcp.Resource{
		{
			URI:         WidgetURI,
			Name:        "storefront",
			Description: "Interactive storefront widget for browsing products and checking out.",
			MimeType:    "text/html",
		},
	}
}

// ReadResource returns the rendered widget for its URI.
func (p *Provider) ReadResource(uri string) (*mcp.ResourceContents, error) {
	if uri != WidgetURI {
		return nil, apperrors.NotFound("resource", uri)
	}
	return &mcp.ResourceContents{
		URI:      WidgetURI,
		MimeType: "text/html",
		Text:     p.Render(),
	}, nil
}
