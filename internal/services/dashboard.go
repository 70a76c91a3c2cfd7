package services

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/shieldads/shieldads/pkg/metrics"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// DashboardService assembles the tenant snapshot and runs the derivations
// over it. Nothing here is cached; every call reloads and recomputes.
type DashboardService struct {
	logger  ectologger.Logger
	groups  *GroupService
	scripts *repositories.ScriptRepository
	costs   *repositories.CostRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	logger ectologger.Logger,
	groups *GroupService,
	scripts *repositories.ScriptRepository,
	costs *repositories.CostRepository,
) *DashboardService {
	return &DashboardService{
		logger:  logger,
		groups:  groups,
		scripts: scripts,
		costs:   costs,
	}
}

// Snapshot is the full dashboard payload
type Snapshot struct {
	Metrics     metrics.DashboardMetrics `json:"metrics"`
	Costs       metrics.CostTotals       `json:"costs"`
	HighRisk    []models.Account         `json:"high_risk"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// Snapshot loads the tenant's records and computes the dashboard aggregates
func (s *DashboardService) Snapshot(ctx context.Context) (*Snapshot, error) {
	ctx, span := tracing.StartSpan(ctx, "DashboardService.Snapshot")
	defer span.End()

	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}

	scripts, err := s.scripts.List(ctx)
	if err != nil {
		return nil, err
	}

	costs, err := s.costs.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	highRisk := metrics.HighRisk(groups)
	if highRisk == nil {
		highRisk = []models.Account{}
	}

	return &Snapshot{
		Metrics:     metrics.Dashboard(groups, scripts, now),
		Costs:       metrics.Costs(costs, now),
		HighRisk:    highRisk,
		GeneratedAt: now,
	}, nil
}

// Metrics computes the account/script counters on their own
func (s *DashboardService) Metrics(ctx context.Context) (*metrics.DashboardMetrics, error) {
	ctx, span := tracing.StartSpan(ctx, "DashboardService.Metrics")
	defer span.End()

	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}

	scripts, err := s.scripts.List(ctx)
	if err != nil {
		return nil, err
	}

	result := metrics.Dashboard(groups, scripts, time.Now().UTC())
	return &result, nil
}

// Costs computes the cost totals on their own
func (s *DashboardService) Costs(ctx context.Context) (*metrics.CostTotals, error) {
	ctx, span := tracing.StartSpan(ctx, "DashboardService.Costs")
	defer span.End()

	costs, err := s.costs.List(ctx)
	if err != nil {
		return nil, err
	}

	result := metrics.Costs(costs, time.Now().UTC())
	return &result, nil
}

// Radar returns the accounts currently flagged as high risk
func (s *DashboardService) Radar(ctx context.Context) ([]models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "DashboardService.Radar")
	defer span.End()

	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}

	highRisk := metrics.HighRisk(groups)
	if highRisk == nil {
		highRisk = []models.Account{}
	}
	return highRisk, nil
}
