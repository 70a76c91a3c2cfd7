package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/shieldads/shieldads/pkg/middleware"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// AlertHandler handles the tenant alert feed
type AlertHandler struct {
	alerts *repositories.AlertRepository
	logger ectologger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alerts *repositories.AlertRepository, logger ectologger.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, logger: logger}
}

// Register registers alert routes
func (h *AlertHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("/:id/acknowledge", h.Acknowledge, middleware.RequireRole(models.RoleOperator))
}

// List returns the open alerts, newest first
func (h *AlertHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AlertHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	alerts, err := h.alerts.ListUnacknowledged(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, alerts)
}

// Acknowledge marks an alert as seen
func (h *AlertHandler) Acknowledge(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AlertHandler.Acknowledge")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.alerts.Acknowledge(ctx, id); err != nil {
		return err
	}
	return NoContentResponse(c)
}
