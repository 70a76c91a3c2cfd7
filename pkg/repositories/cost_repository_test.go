package repositories_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
)

func TestCostRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewCostRepository(db, logger)

	tenantID := uuid.New()
	ctx := getTestContext(tenantID)

	// Test Create with defaults
	cost := &models.Cost{
		Scope:       models.CostScopeGlobal,
		Category:    "Tools",
		Amount:      49.99,
		Description: strPtr("Anti-detect browser subscription"),
	}

	err := repo.Create(ctx, cost)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, cost.ID)
	assert.Equal(t, tenantID, cost.TenantID)
	assert.False(t, cost.Date.IsZero())

	// Test List
	costs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, costs, 1)
	assert.Equal(t, "Tools", costs[0].Category)

	// Test Delete
	err = repo.Delete(ctx, cost.ID)
	require.NoError(t, err)

	err = repo.Delete(ctx, cost.ID)
	assertNotFound(t, err)
}

func TestCostRepository_AccountScopedLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewCostRepository(db, logger)

	ctx := getTestContext(uuid.New())
	accountID := uuid.New()
	label := "ads01@example.com"

	batch := []models.Cost{
		{Scope: models.CostScopeAccount, AccountID: &accountID, AccountLabel: &label, Category: "Gmail", Amount: 5},
		{Scope: models.CostScopeAccount, AccountID: &accountID, AccountLabel: &label, Category: "Ads", Amount: 120.50},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	// A global entry must survive the account-scoped purge
	global := &models.Cost{Scope: models.CostScopeGlobal, Category: "Tools", Amount: 10}
	require.NoError(t, repo.Create(ctx, global))

	byAccount, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)

	removed, err := repo.DeleteByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	byAccount, err = repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Empty(t, byAccount)

	remaining, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, models.CostScopeGlobal, remaining[0].Scope)
}
