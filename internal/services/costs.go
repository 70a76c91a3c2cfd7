package services

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// CostService manages standalone cost entries. Account-scoped rows are
// synthesized by the account save flow, never created here.
type CostService struct {
	logger ectologger.Logger
	costs  *repositories.CostRepository
}

// NewCostService creates a new cost service
func NewCostService(logger ectologger.Logger, costs *repositories.CostRepository) *CostService {
	return &CostService{logger: logger, costs: costs}
}

// Create records a global cost entry attributed to the current user
func (s *CostService) Create(ctx context.Context, cost *models.Cost) (*models.Cost, error) {
	ctx, span := tracing.StartSpan(ctx, "CostService.Create")
	defer span.End()

	if cost.Scope == "" {
		cost.Scope = models.CostScopeGlobal
	}
	if cost.Scope != models.CostScopeGlobal {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "only global costs can be created directly")
	}
	if cost.Category == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "category is required")
	}
	if cost.Date.IsZero() {
		cost.Date = time.Now().UTC()
	}
	if name := appctx.GetUserName(ctx); name != "" && cost.CreatedByName == nil {
		cost.CreatedByName = &name
	}

	if err := s.costs.Create(ctx, cost); err != nil {
		return nil, err
	}
	return cost, nil
}

// List returns every cost entry of the tenant, newest first
func (s *CostService) List(ctx context.Context) ([]models.Cost, error) {
	ctx, span := tracing.StartSpan(ctx, "CostService.List")
	defer span.End()

	return s.costs.List(ctx)
}

// ListByAccount returns the synthesized rows of one account
func (s *CostService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Cost, error) {
	ctx, span := tracing.StartSpan(ctx, "CostService.ListByAccount")
	defer span.End()

	return s.costs.ListByAccount(ctx, accountID)
}

// Delete removes a cost entry
func (s *CostService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "CostService.Delete")
	defer span.End()

	return s.costs.Delete(ctx, id)
}
