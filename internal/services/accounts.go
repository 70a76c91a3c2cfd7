package services

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/events"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/plans"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/taxonomy"
	"github.com/shieldads/shieldads/pkg/telemetry"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// AccountService manages ad accounts. Saving an account is server
// authoritative: total investment is recomputed from the cost components and
// the account-scoped cost rows are regenerated, all inside one transaction.
// The response carries the stored row so clients never trust their own math.
type AccountService struct {
	db       database.DB
	logger   ectologger.Logger
	accounts *repositories.AccountRepository
	groups   *repositories.AccountGroupRepository
	costs    *repositories.CostRepository
	plan     plans.Plan
	emitter  *events.Emitter
}

// NewAccountService creates a new account service
func NewAccountService(
	db database.DB,
	logger ectologger.Logger,
	accounts *repositories.AccountRepository,
	groups *repositories.AccountGroupRepository,
	costs *repositories.CostRepository,
	plan plans.Plan,
	emitter *events.Emitter,
) *AccountService {
	return &AccountService{
		db:       db,
		logger:   logger,
		accounts: accounts,
		groups:   groups,
		costs:    costs,
		plan:     plan,
		emitter:  emitter,
	}
}

// SaveResult is the authoritative state after an account write
type SaveResult struct {
	Account *models.Account `json:"account"`
	Costs   []models.Cost   `json:"costs"`
}

// Create registers a new account under a group, subject to the plan's
// account quota
func (s *AccountService) Create(ctx context.Context, account *models.Account) (*SaveResult, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountService.Create")
	defer span.End()

	if _, err := s.groups.GetByID(ctx, account.GroupID); err != nil {
		return nil, err
	}

	current, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, err
	}
	if !s.plan.CanAddAccounts(current, 1) {
		telemetry.RecordQuotaRejection(appctx.GetTenantID(ctx), "accounts")
		return nil, httperror.NewHTTPErrorf(http.StatusUnprocessableEntity,
			"plan %s allows at most %d accounts", s.plan.Name, s.plan.MaxAccounts)
	}

	account.TotalInvestment = totalInvestment(account)
	stampActor(ctx, account)

	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.accounts.Create(txCtx, account); err != nil {
		return nil, err
	}

	generated, err := s.regenerateCosts(txCtx, account)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	s.emitter.AccountSaved(ctx, account)
	return &SaveResult{Account: account, Costs: generated}, nil
}

// Get returns one account
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountService.Get")
	defer span.End()

	return s.accounts.GetByID(ctx, id)
}

// List returns every account of the tenant
func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountService.List")
	defer span.End()

	return s.accounts.List(ctx)
}

// Save rewrites an account. Cost components are recomputed server-side and
// the synthesized cost rows replaced.
func (s *AccountService) Save(ctx context.Context, account *models.Account) (*SaveResult, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountService.Save")
	defer span.End()

	previous, err := s.accounts.GetByID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	account.TotalInvestment = totalInvestment(account)
	stampActor(ctx, account)

	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.accounts.Update(txCtx, account); err != nil {
		return nil, err
	}

	generated, err := s.regenerateCosts(txCtx, account)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if previous.Status != account.Status {
		s.emitter.AccountStatusChanged(ctx, account, previous.Status)
	} else {
		s.emitter.AccountSaved(ctx, account)
	}
	return &SaveResult{Account: account, Costs: generated}, nil
}

// Delete removes an account and its synthesized cost rows atomically
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "AccountService.Delete")
	defer span.End()

	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := s.costs.DeleteByAccount(txCtx, id); err != nil {
		return err
	}

	if err := s.accounts.Delete(txCtx, id); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// AddBlockReason appends a block reason to the account's list. The category
// must come from the taxonomy; the specific reason is free text.
func (s *AccountService) AddBlockReason(ctx context.Context, accountID uuid.UUID, categoryID, reason string) (*models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountService.AddBlockReason")
	defer span.End()

	if _, ok := taxonomy.FindCategory(categoryID); !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "unknown block reason category %q", categoryID)
	}
	if reason == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "reason is required")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.BlockReasons.Data = append(account.BlockReasons.Data, models.BlockReason{
		ID:         uuid.NewString(),
		CategoryID: categoryID,
		Reason:     reason,
		AddedAt:    time.Now().UTC(),
	})

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// RemoveBlockReason removes one entry from the account's block reason list
func (s *AccountService) RemoveBlockReason(ctx context.Context, accountID uuid.UUID, reasonID string) (*models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountService.RemoveBlockReason")
	defer span.End()

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	reasons := account.BlockReasons.Data
	kept := reasons[:0]
	found := false
	for _, r := range reasons {
		if r.ID == reasonID {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "block reason %s does not exist", reasonID)
	}
	account.BlockReasons.Data = kept

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// regenerateCosts replaces the account-scoped cost rows with one row per
// nonzero cost component. Runs inside the caller's transaction.
func (s *AccountService) regenerateCosts(ctx context.Context, account *models.Account) ([]models.Cost, error) {
	if _, err := s.costs.DeleteByAccount(ctx, account.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	label := accountLabel(account)
	actor := appctx.GetUserName(ctx)

	components := []struct {
		category string
		amount   float64
	}{
		{"Gmail", account.CostGmail},
		{"Domain", account.CostDomain},
		{"Proxy", account.CostProxy},
		{"Ads", account.AdsSpent},
	}

	rows := make([]models.Cost, 0, len(components))
	for _, c := range components {
		if c.amount <= 0 {
			continue
		}
		accountID := account.ID
		cost := models.Cost{
			Date:         now,
			Scope:        models.CostScopeAccount,
			AccountID:    &accountID,
			AccountLabel: &label,
			Category:     c.category,
			Amount:       c.amount,
		}
		if actor != "" {
			cost.CreatedByName = &actor
		}
		rows = append(rows, cost)
	}

	if len(rows) == 0 {
		return []models.Cost{}, nil
	}

	if err := s.costs.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func totalInvestment(account *models.Account) float64 {
	return account.CostGmail + account.CostDomain + account.CostProxy + account.AdsSpent
}

func accountLabel(account *models.Account) string {
	if account.CustomerID != nil && *account.CustomerID != "" {
		return *account.CustomerID
	}
	if account.Email != nil && *account.Email != "" {
		return *account.Email
	}
	return account.ID.String()
}

func stampActor(ctx context.Context, account *models.Account) {
	if name := appctx.GetUserName(ctx); name != "" {
		account.LastActionBy = &name
	}
}
