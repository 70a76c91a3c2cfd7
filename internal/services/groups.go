// Package services holds the business operations layered over the
// repositories. Multi-step writes run inside a single transaction so a
// mid-sequence failure never leaves orphaned child records.
package services

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/events"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// GroupService manages account groups and their cascades
type GroupService struct {
	db       database.DB
	logger   ectologger.Logger
	groups   *repositories.AccountGroupRepository
	accounts *repositories.AccountRepository
	costs    *repositories.CostRepository
	emitter  *events.Emitter
}

// NewGroupService creates a new group service
func NewGroupService(
	db database.DB,
	logger ectologger.Logger,
	groups *repositories.AccountGroupRepository,
	accounts *repositories.AccountRepository,
	costs *repositories.CostRepository,
	emitter *events.Emitter,
) *GroupService {
	return &GroupService{
		db:       db,
		logger:   logger,
		groups:   groups,
		accounts: accounts,
		costs:    costs,
		emitter:  emitter,
	}
}

// Create creates a new account group
func (s *GroupService) Create(ctx context.Context, group *models.AccountGroup) (*models.AccountGroup, error) {
	ctx, span := tracing.StartSpan(ctx, "GroupService.Create")
	defer span.End()

	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// List returns every group of the tenant with accounts embedded and the
// list-view derivations filled in
func (s *GroupService) List(ctx context.Context) ([]models.AccountGroupDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "GroupService.List")
	defer span.End()

	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[uuid.UUID][]models.Account, len(groups))
	for _, a := range accounts {
		byGroup[a.GroupID] = append(byGroup[a.GroupID], a)
	}

	details := make([]models.AccountGroupDetail, 0, len(groups))
	for _, g := range groups {
		details = append(details, buildDetail(g, byGroup[g.ID]))
	}
	return details, nil
}

// Get returns one group with accounts embedded
func (s *GroupService) Get(ctx context.Context, id uuid.UUID) (*models.AccountGroupDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "GroupService.Get")
	defer span.End()

	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.ListByGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := buildDetail(*group, accounts)
	return &detail, nil
}

// Update renames a group or repoints its browser profile reference
func (s *GroupService) Update(ctx context.Context, group *models.AccountGroup) (*models.AccountGroup, error) {
	ctx, span := tracing.StartSpan(ctx, "GroupService.Update")
	defer span.End()

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group and all of its descendants atomically: the
// account-scoped cost rows, the accounts, then the group itself.
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "GroupService.Delete")
	defer span.End()

	if _, err := s.groups.GetByID(ctx, id); err != nil {
		return err
	}

	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := s.costs.DeleteByGroup(txCtx, id); err != nil {
		return err
	}

	removed, err := s.accounts.DeleteByGroup(txCtx, id)
	if err != nil {
		return err
	}

	if err := s.groups.Delete(txCtx, id); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"group_id":         id,
		"accounts_removed": removed,
	}).Info("Deleted account group cascade")

	s.emitter.GroupDeleted(ctx, id.String(), removed)
	return nil
}

func buildDetail(group models.AccountGroup, accounts []models.Account) models.AccountGroupDetail {
	detail := models.AccountGroupDetail{
		AccountGroup: group,
		Accounts:     accounts,
	}
	if detail.Accounts == nil {
		detail.Accounts = []models.Account{}
	}
	for _, a := range accounts {
		if a.Status == models.AccountStatusActive {
			detail.HasActiveAccounts = true
		}
		detail.TotalSpent += a.TotalInvestment
	}
	return detail
}
