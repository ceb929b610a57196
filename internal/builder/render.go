package builder

import (
	"errors"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// ErrUnknownTemplate is returned when a template id is not registered.
var ErrUnknownTemplate = errors.New("unknown template")

// Layout names used by the builder UI, and the server-side names they map
// to. The two sets differ historically; the mapping is fixed.
const (
	TemplateModern   = "modern"
	TemplateClassic  = "classic"
	TemplateMinimal  = "minimal"
	TemplateCreative = "creative"

	DefaultTemplateID = TemplateModern
)

// RenderFunc turns a portfolio document into an HTML fragment. Render
// functions are pure; the same document always produces the same markup.
type RenderFunc func(data models.PortfolioData) string

// The registry is closed: the four variants below, nothing pluggable.
var templates = map[string]RenderFunc{
	TemplateModern:   renderModern,
	TemplateClassic:  renderClassic,
	TemplateMinimal:  renderMinimal,
	TemplateCreative: renderCreative,
}

var serverNames = map[string]string{
	TemplateModern:   "template1",
	TemplateClassic:  "template2",
	TemplateMinimal:  "template3",
	TemplateCreative: "template4",
}

// TemplateIDs lists the registered layout names.
func TemplateIDs() []string {
	return []string{TemplateModern, TemplateClassic, TemplateMinimal, TemplateCreative}
}

// ServerTemplateName maps a layout name to the name the backend stores.
// Unknown ids map to the default layout's server name.
func ServerTemplateName(templateID string) string {
	if name, ok := serverNames[templateID]; ok {
		return name
	}
	return serverNames[DefaultTemplateID]
}

// Render produces the full preview for one template. An empty document
// renders the placeholder block instead of an empty shell.
func Render(templateID string, data models.PortfolioData) (string, error) {
	fn, ok := templates[templateID]
	if !ok {
		return "", ErrUnknownTemplate
	}
	if data.IsEmpty() {
		return renderPlaceholder(), nil
	}
	return fn(data), nil
}
