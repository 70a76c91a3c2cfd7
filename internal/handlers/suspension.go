package handlers

import (
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/middleware"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/tracing"
	"github.com/shieldads/shieldads/pkg/utils"
)

// SuspensionHandler handles suspension incident API endpoints
type SuspensionHandler struct {
	suspensions *services.SuspensionService
	logger      ectologger.Logger
}

// NewSuspensionHandler creates a new suspension handler
func NewSuspensionHandler(suspensions *services.SuspensionService, logger ectologger.Logger) *SuspensionHandler {
	return &SuspensionHandler{suspensions: suspensions, logger: logger}
}

// CreateSuspensionRequest represents the create suspension request body
type CreateSuspensionRequest struct {
	AccountID      string     `json:"account_id" validate:"required,uuid"`
	SuspensionType *string    `json:"suspension_type,omitempty"`
	Reason         *string    `json:"reason,omitempty"`
	DetectedAt     *time.Time `json:"detected_at,omitempty"`
}

// UpdateSuspensionRequest represents the update suspension request body
type UpdateSuspensionRequest struct {
	SuspensionType   *string                 `json:"suspension_type,omitempty"`
	Reason           *string                 `json:"reason,omitempty"`
	Status           models.SuspensionStatus `json:"status" validate:"required"`
	RecoveryScriptID *uuid.UUID              `json:"recovery_script_id,omitempty"`
	RecoveryCost     *float64                `json:"recovery_cost,omitempty"`
	RecoveryNotes    *string                 `json:"recovery_notes,omitempty"`
}

// Register registers suspension routes
func (h *SuspensionHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create, middleware.RequireRole(models.RoleOperator))
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, middleware.RequireRole(models.RoleOperator))
	g.DELETE("/:id", h.Delete, middleware.RequireRole(models.RoleAdmin))
}

// List returns the tenant's suspension records
func (h *SuspensionHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "SuspensionHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	suspensions, err := h.suspensions.List(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, suspensions)
}

// Create records a suspension incident
func (h *SuspensionHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "SuspensionHandler.Create")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	req, err := utils.BindRequest[CreateSuspensionRequest](c)
	if err != nil {
		return err
	}

	suspension := &models.Suspension{
		AccountID:      uuid.MustParse(req.AccountID),
		SuspensionType: req.SuspensionType,
		Reason:         req.Reason,
	}
	if req.DetectedAt != nil {
		suspension.DetectedAt = *req.DetectedAt
	}

	created, err := h.suspensions.Create(ctx, suspension)
	if err != nil {
		return err
	}
	return CreatedResponse(c, created)
}

// Get returns one suspension record
func (h *SuspensionHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "SuspensionHandler.Get")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	suspension, err := h.suspensions.Get(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, suspension)
}

// Update rewrites a suspension record
func (h *SuspensionHandler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "SuspensionHandler.Update")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[UpdateSuspensionRequest](c)
	if err != nil {
		return err
	}

	current, err := h.suspensions.Get(ctx, id)
	if err != nil {
		return err
	}

	current.SuspensionType = req.SuspensionType
	current.Reason = req.Reason
	current.Status = req.Status
	current.RecoveryScriptID = req.RecoveryScriptID
	current.RecoveryCost = req.RecoveryCost
	current.RecoveryNotes = req.RecoveryNotes

	updated, err := h.suspensions.Update(ctx, current)
	if err != nil {
		return err
	}
	return SuccessResponse(c, updated)
}

// Delete removes a suspension record
func (h *SuspensionHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "SuspensionHandler.Delete")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.suspensions.Delete(ctx, id); err != nil {
		return err
	}
	return NoContentResponse(c)
}
