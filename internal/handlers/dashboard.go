package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// DashboardHandler serves the aggregate dashboard snapshot
type DashboardHandler struct {
	dashboard *services.DashboardService
	logger    ectologger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *services.DashboardService, logger ectologger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

// Register registers dashboard routes
func (h *DashboardHandler) Register(g *echo.Group) {
	g.GET("", h.Snapshot)
	g.GET("/metrics", h.Metrics)
	g.GET("/costs", h.Costs)
	g.GET("/radar", h.Radar)
}

// Snapshot returns the recomputed dashboard aggregates
func (h *DashboardHandler) Snapshot(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "DashboardHandler.Snapshot")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	snapshot, err := h.dashboard.Snapshot(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, snapshot)
}

// Metrics returns the account and script counters
func (h *DashboardHandler) Metrics(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "DashboardHandler.Metrics")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	result, err := h.dashboard.Metrics(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, result)
}

// Costs returns the cost totals
func (h *DashboardHandler) Costs(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "DashboardHandler.Costs")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	result, err := h.dashboard.Costs(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, result)
}

// Radar returns the accounts on the high-risk radar
func (h *DashboardHandler) Radar(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "DashboardHandler.Radar")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	result, err := h.dashboard.Radar(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, result)
}
