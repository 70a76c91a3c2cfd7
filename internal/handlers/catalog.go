package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/shieldads/shieldads/pkg/plans"
	"github.com/shieldads/shieldads/pkg/taxonomy"
	"github.com/shieldads/shieldads/pkg/templates"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// CatalogHandler serves the static configuration catalogs: subscription
// plans, the block reason taxonomy, and the script template library.
type CatalogHandler struct{}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Register registers catalog routes
func (h *CatalogHandler) Register(g *echo.Group) {
	g.GET("/plans", h.Plans)
	g.GET("/block-reasons", h.BlockReasons)
	g.GET("/script-templates", h.ScriptTemplates)
	g.GET("/script-templates/:key", h.ScriptTemplate)
}

// Plans returns the subscription plan catalog
func (h *CatalogHandler) Plans(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "CatalogHandler.Plans")
	defer span.End()

	return SuccessResponse(c, plans.All())
}

// BlockReasons returns the versioned block reason hierarchy
func (h *CatalogHandler) BlockReasons(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "CatalogHandler.BlockReasons")
	defer span.End()

	return SuccessResponse(c, taxonomy.BlockReasons())
}

// ScriptTemplates returns the script template library
func (h *CatalogHandler) ScriptTemplates(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "CatalogHandler.ScriptTemplates")
	defer span.End()

	return SuccessResponse(c, templates.All())
}

// ScriptTemplate returns one template by key
func (h *CatalogHandler) ScriptTemplate(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "CatalogHandler.ScriptTemplate")
	defer span.End()

	tpl, ok := templates.Get(c.Param("key"))
	if !ok {
		return BadRequest("unknown script template")
	}
	return SuccessResponse(c, tpl)
}
