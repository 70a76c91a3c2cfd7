package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/middleware"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/tracing"
	"github.com/shieldads/shieldads/pkg/utils"
)

// ScriptHandler handles appeal script API endpoints
type ScriptHandler struct {
	scripts *services.ScriptService
	logger  ectologger.Logger
}

// NewScriptHandler creates a new script handler
func NewScriptHandler(scripts *services.ScriptService, logger ectologger.Logger) *ScriptHandler {
	return &ScriptHandler{scripts: scripts, logger: logger}
}

// CreateScriptRequest represents the create script request body. TemplateKey
// instantiates from the template library; without it the script is custom
// and Title is required.
type CreateScriptRequest struct {
	TemplateKey string                 `json:"template_key,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Category    models.ScriptCategory  `json:"category,omitempty"`
	Description *string                `json:"description,omitempty"`
	Sections    []models.ScriptSection `json:"sections,omitempty"`
	Content     *string                `json:"content,omitempty"`
}

// UpdateScriptRequest represents the update script request body
type UpdateScriptRequest struct {
	Title       string                 `json:"title" validate:"required"`
	Category    models.ScriptCategory  `json:"category" validate:"required"`
	Description *string                `json:"description,omitempty"`
	Active      bool                   `json:"active"`
	Sections    []models.ScriptSection `json:"sections,omitempty"`
	Content     *string                `json:"content,omitempty"`
	SuccessRate float64                `json:"success_rate" validate:"gte=0,lte=100"`
}

// RegisterExecutionRequest represents the register execution request body
type RegisterExecutionRequest struct {
	AccountID *uuid.UUID `json:"account_id,omitempty"`
	GroupID   *uuid.UUID `json:"group_id,omitempty"`
}

// SetExecutionResultRequest represents the set execution result request body
type SetExecutionResultRequest struct {
	Result models.ExecutionResult `json:"result" validate:"required"`
}

// Register registers script routes
func (h *ScriptHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create, middleware.RequireRole(models.RoleOperator))
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, middleware.RequireRole(models.RoleOperator))
	g.DELETE("/:id", h.Delete, middleware.RequireRole(models.RoleAdmin))
	g.POST("/:id/duplicate", h.Duplicate, middleware.RequireRole(models.RoleOperator))
	g.GET("/:id/executions", h.ListExecutions)
	g.POST("/:id/executions", h.RegisterExecution, middleware.RequireRole(models.RoleOperator))
	g.PATCH("/executions/:executionId/result", h.SetExecutionResult, middleware.RequireRole(models.RoleOperator))
}

// List returns every script of the tenant
func (h *ScriptHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ScriptHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	scripts, err := h.scripts.List(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, scripts)
}

// Create stores a script, either from a template or custom
func (h *ScriptHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ScriptHandler.Create")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	req, err := utils.BindRequest[CreateScriptRequest](c)
	if err != nil {
		return err
	}

	if req.TemplateKey != "" {
		created, err := h.scripts.CreateFromTemplate(ctx, req.TemplateKey, req.Title)
		if err != nil {
			return err
		}
		return CreatedResponse(c, created)
	}

	if req.Title == "" {
		return BadRequest("title is required for custom scripts")
	}
	if req.Category == "" {
		req.Category = models.ScriptCategoryOther
	}

	script := &models.Script{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Content:     req.Content,
		Sections:    database.JSONB[[]models.ScriptSection]{Data: req.Sections},
	}

	created, err := h.scripts.Create(ctx, script)
	if err != nil {
		return err
	}
	return CreatedResponse(c, created)
}

// Get returns one script
func (h *ScriptHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ScriptHandler.Get")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	script, err := h.scripts.Get(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, script)
}

// Update rewrites a script
func (h *ScriptHandler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ScriptHandler.Update")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[UpdateScriptRequest](c)
	if err != nil {
		return err
	}

	current, err := h.scripts.Get(ctx, id)
	if err != nil {
		return err
	}

	current.Title = req.Title
	current.Category = req.Category
	current.Description = req.Description
	current.Active = req.Active
	current.Content = req.Content
	current.SuccessRate = req.SuccessRate
	current.Sections = database.JSONB[[]models.ScriptSection]{Data: req.Sections}

	updated, err := h.scripts.Update(ctx, current)
	if err != nil {
		return err
	}
	return SuccessResponse(c, updated)
}

// Delete removes a script
func (h *ScriptHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ScriptHandler.Delete")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.scripts.Delete(ctx, id); err != nil {
		return err
	}
	return NoContentResponse(c)
}

// Duplicate clones a script
func (h *ScriptHandler) Duplicate(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ScriptHandler.Duplicate")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	clone, err := h.scripts.Duplicate(ctx, id)
	if err != nil {
		return err
	}
	return CreatedResponse(c, clone)
}

// ListExecutions returns a script's execution log
func (h *ScriptHandler) ListExecutions(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ScriptHandler.ListExecutions")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	executions, err := h.scripts.ListExecutions(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, executions)
}

// RegisterExecution records a script being run against an account
func (h *ScriptHandler) RegisterExecution(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ScriptHandler.RegisterExecution")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[RegisterExecutionRequest](c)
	if err != nil {
		return err
	}

	execution := &models.ScriptExecution{
		ScriptID:  id,
		AccountID: req.AccountID,
		GroupID:   req.GroupID,
	}

	created, err := h.scripts.RegisterExecution(ctx, execution)
	if err != nil {
		return err
	}
	return CreatedResponse(c, created)
}

// SetExecutionResult records an execution outcome
func (h *ScriptHandler) SetExecutionResult(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ScriptHandler.SetExecutionResult")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	executionID, err := ParseUUID(c, "executionId")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[SetExecutionResultRequest](c)
	if err != nil {
		return err
	}

	if err := h.scripts.SetExecutionResult(ctx, executionID, req.Result); err != nil {
		return err
	}
	return NoContentResponse(c)
}
