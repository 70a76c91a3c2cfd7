package services_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/plans"
	"github.com/shieldads/shieldads/pkg/repositories"
)

func newAccountService(db database.DB, plan plans.Plan) *services.AccountService {
	logger := getTestLogger()
	return services.NewAccountService(
		db,
		logger,
		repositories.NewAccountRepository(db, logger),
		repositories.NewAccountGroupRepository(db, logger),
		repositories.NewCostRepository(db, logger),
		plan,
		nil,
	)
}

func TestAccountService_CreateIsServerAuthoritative(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	svc := newAccountService(db, plans.Default())

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	account := &models.Account{
		GroupID:    group.ID,
		CustomerID: strPtr("123-456-7890"),
		CostGmail:  5,
		CostProxy:  12,
		AdsSpent:   100,
		// Client-supplied totals are ignored
		TotalInvestment: 9999,
	}

	result, err := svc.Create(ctx, account)
	require.NoError(t, err)

	// Total is recomputed from the components
	assert.Equal(t, 117.0, result.Account.TotalInvestment)
	require.NotNil(t, result.Account.LastActionBy)
	assert.Equal(t, "Tester", *result.Account.LastActionBy)

	// One synthesized cost row per nonzero component, zero CostDomain skipped
	require.Len(t, result.Costs, 3)
	byCategory := map[string]float64{}
	for _, c := range result.Costs {
		assert.Equal(t, models.CostScopeAccount, c.Scope)
		require.NotNil(t, c.AccountLabel)
		assert.Equal(t, "123-456-7890", *c.AccountLabel)
		byCategory[c.Category] = c.Amount
	}
	assert.Equal(t, map[string]float64{"Gmail": 5, "Proxy": 12, "Ads": 100}, byCategory)

	// Unknown group is rejected before anything is written
	_, err = svc.Create(ctx, &models.Account{GroupID: uuid.New()})
	assertNotFound(t, err)
}

func TestAccountService_QuotaEnforced(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	plan := plans.Plan{ID: "TEST", Name: "Test", MaxAccounts: 1, MaxUsers: 2}
	svc := newAccountService(db, plan)

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	_, err := svc.Create(ctx, &models.Account{GroupID: group.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &models.Account{GroupID: group.ID})
	assertStatusCode(t, err, http.StatusUnprocessableEntity)
	assert.Contains(t, err.Error(), "at most 1 accounts")
}

func TestAccountService_SaveRegeneratesCosts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	costs := repositories.NewCostRepository(db, logger)
	svc := newAccountService(db, plans.Default())

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	result, err := svc.Create(ctx, &models.Account{
		GroupID:   group.ID,
		CostGmail: 5,
		AdsSpent:  50,
	})
	require.NoError(t, err)
	account := result.Account

	// Rewriting the account replaces its synthesized rows, not appends
	account.CostGmail = 0
	account.AdsSpent = 75
	result, err = svc.Save(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.Account.TotalInvestment)

	stored, err := costs.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Ads", stored[0].Category)
	assert.Equal(t, 75.0, stored[0].Amount)
}

func TestAccountService_DeleteRemovesCosts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	costs := repositories.NewCostRepository(db, logger)
	svc := newAccountService(db, plans.Default())

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	result, err := svc.Create(ctx, &models.Account{GroupID: group.ID, AdsSpent: 10})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, result.Account.ID))

	_, err = svc.Get(ctx, result.Account.ID)
	assertNotFound(t, err)

	stored, err := costs.ListByAccount(ctx, result.Account.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestAccountService_BlockReasons(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	svc := newAccountService(db, plans.Default())

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	result, err := svc.Create(ctx, &models.Account{GroupID: group.ID})
	require.NoError(t, err)
	accountID := result.Account.ID

	// Category must come from the taxonomy
	_, err = svc.AddBlockReason(ctx, accountID, "not_a_category", "whatever")
	assertStatusCode(t, err, http.StatusBadRequest)

	account, err := svc.AddBlockReason(ctx, accountID, "fraud-circumvention", "Circumventing systems policy")
	require.NoError(t, err)
	require.Len(t, account.BlockReasons.Data, 1)
	reasonID := account.BlockReasons.Data[0].ID
	assert.NotEmpty(t, reasonID)
	assert.False(t, account.BlockReasons.Data[0].AddedAt.IsZero())

	account, err = svc.RemoveBlockReason(ctx, accountID, reasonID)
	require.NoError(t, err)
	assert.Empty(t, account.BlockReasons.Data)

	_, err = svc.RemoveBlockReason(ctx, accountID, reasonID)
	assertNotFound(t, err)
}
