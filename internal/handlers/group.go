package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/middleware"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/tracing"
	"github.com/shieldads/shieldads/pkg/utils"
)

// GroupHandler handles account group API endpoints
type GroupHandler struct {
	groups *services.GroupService
	logger ectologger.Logger
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groups *services.GroupService, logger ectologger.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, logger: logger}
}

// CreateGroupRequest represents the create group request body
type CreateGroupRequest struct {
	Name              string  `json:"name" validate:"required"`
	BrowserProfileRef *string `json:"browser_profile_ref,omitempty"`
}

// UpdateGroupRequest represents the update group request body
type UpdateGroupRequest struct {
	Name              string  `json:"name" validate:"required"`
	BrowserProfileRef *string `json:"browser_profile_ref,omitempty"`
}

// Register registers group routes
func (h *GroupHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create, middleware.RequireRole(models.RoleOperator))
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, middleware.RequireRole(models.RoleOperator))
	g.DELETE("/:id", h.Delete, middleware.RequireRole(models.RoleAdmin))
}

// List returns every group with accounts and list-view derivations
func (h *GroupHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "GroupHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	details, err := h.groups.List(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, details)
}

// Create creates a new account group
func (h *GroupHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "GroupHandler.Create")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	req, err := utils.BindRequest[CreateGroupRequest](c)
	if err != nil {
		return err
	}

	group := &models.AccountGroup{
		Name:              req.Name,
		BrowserProfileRef: req.BrowserProfileRef,
	}

	created, err := h.groups.Create(ctx, group)
	if err != nil {
		return err
	}
	return CreatedResponse(c, created)
}

// Get returns one group with its accounts
func (h *GroupHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "GroupHandler.Get")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.groups.Get(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, detail)
}

// Update renames a group
func (h *GroupHandler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "GroupHandler.Update")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[UpdateGroupRequest](c)
	if err != nil {
		return err
	}

	group := &models.AccountGroup{
		ID:                id,
		Name:              req.Name,
		BrowserProfileRef: req.BrowserProfileRef,
	}

	updated, err := h.groups.Update(ctx, group)
	if err != nil {
		return err
	}
	return SuccessResponse(c, updated)
}

// Delete removes a group and its descendants
func (h *GroupHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "GroupHandler.Delete")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.groups.Delete(ctx, id); err != nil {
		return err
	}
	return NoContentResponse(c)
}
