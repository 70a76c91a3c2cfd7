package handlers

import (
	"time"

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

// AccountHandler handles ad account API endpoints
type AccountHandler struct {
	accounts    *services.AccountService
	suspensions *services.SuspensionService
	costs       *services.CostService
	logger      ectologger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	accounts *services.AccountService,
	suspensions *services.SuspensionService,
	costs *services.CostService,
	logger ectologger.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts:    accounts,
		suspensions: suspensions,
		costs:       costs,
		logger:      logger,
	}
}

// AccountRequest represents the account create/save request body.
// Cost components are inputs only; the stored total and the synthesized
// cost rows come back in the response.
type AccountRequest struct {
	GroupID            string                `json:"group_id" validate:"required,uuid"`
	CustomerID         *string               `json:"customer_id,omitempty"`
	Email              *string               `json:"email,omitempty"`
	Password           *string               `json:"password,omitempty"`
	Status             models.AccountStatus  `json:"status,omitempty"`
	Tier               models.AccountTier    `json:"tier,omitempty"`
	HasProxy           bool                  `json:"has_proxy"`
	Proxy              *string               `json:"proxy,omitempty"`
	Domain             *string               `json:"domain,omitempty"`
	CardLastFour       *string               `json:"card_last_four,omitempty"`
	CardHolderName     *string               `json:"card_holder_name,omitempty"`
	CardBank           *string               `json:"card_bank,omitempty"`
	CostGmail          float64               `json:"cost_gmail" validate:"gte=0"`
	CostDomain         float64               `json:"cost_domain" validate:"gte=0"`
	CostProxy          float64               `json:"cost_proxy" validate:"gte=0"`
	AdsSpent           float64               `json:"ads_spent" validate:"gte=0"`
	BlockReasons       []models.BlockReason  `json:"block_reasons,omitempty"`
	AdvertiserVerified bool                  `json:"advertiser_verified"`
	IdentityVerified   bool                  `json:"identity_verified"`
	ProfileChanged     bool                  `json:"profile_changed"`
	PaymentChanged     bool                  `json:"payment_changed"`
	LegalName          *string               `json:"legal_name,omitempty"`
	Acquisition        *models.AcquisitionKind `json:"acquisition,omitempty"`
	AppealRegion       *string               `json:"appeal_region,omitempty"`
	AppealCount        int                   `json:"appeal_count" validate:"gte=0"`
	Notes              *string               `json:"notes,omitempty"`
	ContestedAt        *time.Time            `json:"contested_at,omitempty"`
	ActivatedAt        *time.Time            `json:"activated_at,omitempty"`
	RecoveredAt        *time.Time            `json:"recovered_at,omitempty"`
	ScriptID           *uuid.UUID            `json:"script_id,omitempty"`
}

// AddBlockReasonRequest represents the add block reason request body
type AddBlockReasonRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

// Register registers account routes
func (h *AccountHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create, middleware.RequireRole(models.RoleOperator))
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Save, middleware.RequireRole(models.RoleOperator))
	g.DELETE("/:id", h.Delete, middleware.RequireRole(models.RoleAdmin))
	g.GET("/:id/costs", h.ListCosts)
	g.GET("/:id/suspensions", h.ListSuspensions)
	g.POST("/:id/block-reasons", h.AddBlockReason, middleware.RequireRole(models.RoleOperator))
	g.DELETE("/:id/block-reasons/:reasonId", h.RemoveBlockReason, middleware.RequireRole(models.RoleOperator))
}

func (req AccountRequest) toModel() *models.Account {
	account := &models.Account{
		GroupID:            uuid.MustParse(req.GroupID),
		CustomerID:         req.CustomerID,
		Email:              req.Email,
		Password:           req.Password,
		Status:             req.Status,
		Tier:               req.Tier,
		HasProxy:           req.HasProxy,
		Proxy:              req.Proxy,
		Domain:             req.Domain,
		CardLastFour:       req.CardLastFour,
		CardHolderName:     req.CardHolderName,
		CardBank:           req.CardBank,
		CostGmail:          req.CostGmail,
		CostDomain:         req.CostDomain,
		CostProxy:          req.CostProxy,
		AdsSpent:           req.AdsSpent,
		AdvertiserVerified: req.AdvertiserVerified,
		IdentityVerified:   req.IdentityVerified,
		ProfileChanged:     req.ProfileChanged,
		PaymentChanged:     req.PaymentChanged,
		LegalName:          req.LegalName,
		Acquisition:        req.Acquisition,
		AppealRegion:       req.AppealRegion,
		AppealCount:        req.AppealCount,
		Notes:              req.Notes,
		ContestedAt:        req.ContestedAt,
		ActivatedAt:        req.ActivatedAt,
		RecoveredAt:        req.RecoveredAt,
		ScriptID:           req.ScriptID,
	}
	account.BlockReasons = database.JSONB[[]models.BlockReason]{Data: req.BlockReasons}
	return account
}

// List returns every account of the tenant
func (h *AccountHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AccountHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	accounts, err := h.accounts.List(ctx)
	if err != nil {
		return err
	}
	return SuccessResponse(c, accounts)
}

// Create registers a new account
func (h *AccountHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AccountHandler.Create")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	req, err := utils.BindRequest[AccountRequest](c)
	if err != nil {
		return err
	}

	result, err := h.accounts.Create(ctx, req.toModel())
	if err != nil {
		return err
	}
	return CreatedResponse(c, result)
}

// Get returns one account
func (h *AccountHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AccountHandler.Get")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	account, err := h.accounts.Get(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, account)
}

// Save rewrites an account and returns the authoritative state
func (h *AccountHandler) Save(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AccountHandler.Save")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[AccountRequest](c)
	if err != nil {
		return err
	}

	account := req.toModel()
	account.ID = id

	result, err := h.accounts.Save(ctx, account)
	if err != nil {
		return err
	}
	return SuccessResponse(c, result)
}

// Delete removes an account and its synthesized cost rows
func (h *AccountHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AccountHandler.Delete")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.accounts.Delete(ctx, id); err != nil {
		return err
	}
	return NoContentResponse(c)
}

// ListCosts returns the synthesized cost rows of one account
func (h *AccountHandler) ListCosts(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AccountHandler.ListCosts")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	costs, err := h.costs.ListByAccount(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, costs)
}

// ListSuspensions returns one account's suspension history
func (h *AccountHandler) ListSuspensions(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AccountHandler.ListSuspensions")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	suspensions, err := h.suspensions.ListByAccount(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, suspensions)
}

// AddBlockReason appends a block reason to an account
func (h *AccountHandler) AddBlockReason(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AccountHandler.AddBlockReason")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[AddBlockReasonRequest](c)
	if err != nil {
		return err
	}

	account, err := h.accounts.AddBlockReason(ctx, id, req.CategoryID, req.Reason)
	if err != nil {
		return err
	}
	return SuccessResponse(c, account)
}

// RemoveBlockReason removes one block reason entry
func (h *AccountHandler) RemoveBlockReason(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AccountHandler.RemoveBlockReason")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	account, err := h.accounts.RemoveBlockReason(ctx, id, c.Param("reasonId"))
	if err != nil {
		return err
	}
	return SuccessResponse(c, account)
}
