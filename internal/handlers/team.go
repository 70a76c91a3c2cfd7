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

// TeamHandler handles team member API endpoints
type TeamHandler struct {
	team   *services.TeamService
	logger ectologger.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(team *services.TeamService, logger ectologger.Logger) *TeamHandler {
	return &TeamHandler{team: team, logger: logger}
}

// AddTeamMemberRequest represents the add team member request body
type AddTeamMemberRequest struct {
	UserID string      `json:"user_id" validate:"required"`
	Name   string      `json:"name" validate:"required"`
	Email  string      `json:"email" validate:"required,email"`
	Role   models.Role `json:"role,omitempty"`
}

// UpdateRoleRequest represents the update role request body
type UpdateRoleRequest struct {
	Role models.Role `json:"role" validate:"required"`
}

// Register registers team routes. All mutations require admin.
func (h *TeamHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Add, middleware.RequireRole(models.RoleAdmin))
	g.PATCH("/:id/role", h.UpdateRole, middleware.RequireRole(models.RoleAdmin))
	g.DELETE("/:id", h.Remove, middleware.RequireRole(models.RoleAdmin))
}

// List returns the tenant's team members
func (h *TeamHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TeamHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	members, err := h.team.List(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, members)
}

// Add registers a team member
func (h *TeamHandler) Add(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TeamHandler.Add")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	req, err := utils.BindRequest[AddTeamMemberRequest](c)
	if err != nil {
		return err
	}

	member := &models.TeamMember{
		UserID: req.UserID,
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
	}

	created, err := h.team.Add(ctx, member)
	if err != nil {
		return err
	}
	return CreatedResponse(c, created)
}

// UpdateRole changes a member's access tier
func (h *TeamHandler) UpdateRole(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TeamHandler.UpdateRole")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[UpdateRoleRequest](c)
	if err != nil {
		return err
	}

	if err := h.team.UpdateRole(ctx, id, req.Role); err != nil {
		return err
	}
	return NoContentResponse(c)
}

// Remove deletes a team member
func (h *TeamHandler) Remove(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TeamHandler.Remove")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.team.Remove(ctx, id); err != nil {
		return err
	}
	return NoContentResponse(c)
}
