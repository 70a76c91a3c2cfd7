package handlers

import (
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/middleware"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/tracing"
	"github.com/shieldads/shieldads/pkg/utils"
)

// CostHandler handles operational cost API endpoints
type CostHandler struct {
	costs  *services.CostService
	logger ectologger.Logger
}

// NewCostHandler creates a new cost handler
func NewCostHandler(costs *services.CostService, logger ectologger.Logger) *CostHandler {
	return &CostHandler{costs: costs, logger: logger}
}

// CreateCostRequest represents the create cost request body
type CreateCostRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Category    string     `json:"category" validate:"required"`
	Amount      float64    `json:"amount" validate:"gte=0"`
	Description *string    `json:"description,omitempty"`
}

// Register registers cost routes
func (h *CostHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create, middleware.RequireRole(models.RoleOperator))
	g.DELETE("/:id", h.Delete, middleware.RequireRole(models.RoleOperator))
}

// List returns every cost entry of the tenant
func (h *CostHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "CostHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	costs, err := h.costs.List(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, costs)
}

// Create records a global cost entry
func (h *CostHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "CostHandler.Create")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	req, err := utils.BindRequest[CreateCostRequest](c)
	if err != nil {
		return err
	}

	cost := &models.Cost{
		Scope:       models.CostScopeGlobal,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		cost.Date = *req.Date
	}

	created, err := h.costs.Create(ctx, cost)
	if err != nil {
		return err
	}
	return CreatedResponse(c, created)
}

// Delete removes a cost entry
func (h *CostHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "CostHandler.Delete")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.costs.Delete(ctx, id); err != nil {
		return err
	}
	return NoContentResponse(c)
}
