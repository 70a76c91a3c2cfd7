package services_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/plans"
	"github.com/shieldads/shieldads/pkg/repositories"
)

func TestCostService_CreateGlobalOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	svc := services.NewCostService(logger, repositories.NewCostRepository(db, logger))

	ctx := getTestContext(uuid.New())

	cost, err := svc.Create(ctx, &models.Cost{Category: "Tools", Amount: 49.99})
	require.NoError(t, err)
	assert.Equal(t, models.CostScopeGlobal, cost.Scope)
	assert.False(t, cost.Date.IsZero())
	require.NotNil(t, cost.CreatedByName)
	assert.Equal(t, "Tester", *cost.CreatedByName)

	// Account-scoped rows are owned by the account save flow
	accountID := uuid.New()
	_, err = svc.Create(ctx, &models.Cost{
		Scope:     models.CostScopeAccount,
		AccountID: &accountID,
		Category:  "Gmail",
		Amount:    5,
	})
	assertStatusCode(t, err, http.StatusBadRequest)

	// Category is mandatory
	_, err = svc.Create(ctx, &models.Cost{Amount: 5})
	assertStatusCode(t, err, http.StatusBadRequest)
}

func TestDashboardService_Snapshot(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	groups := newGroupService(db)
	accounts := newAccountService(db, plans.Default())
	dashboard := services.NewDashboardService(
		logger,
		groups,
		repositories.NewScriptRepository(db, logger),
		repositories.NewCostRepository(db, logger),
	)

	ctx := getTestContext(uuid.New())

	group, err := groups.Create(ctx, &models.AccountGroup{Name: "Profile A"})
	require.NoError(t, err)
	_, err = accounts.Create(ctx, &models.Account{GroupID: group.ID, AdsSpent: 100})
	require.NoError(t, err)

	snapshot, err := dashboard.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, snapshot.GeneratedAt.IsZero())
	assert.Equal(t, 1, snapshot.Metrics.TotalAccounts)
	assert.NotNil(t, snapshot.HighRisk)
	assert.Empty(t, snapshot.HighRisk)
}
