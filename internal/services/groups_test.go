package services_test

import (
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

func newGroupService(db database.DB) *services.GroupService {
	logger := getTestLogger()
	return services.NewGroupService(
		db,
		logger,
		repositories.NewAccountGroupRepository(db, logger),
		repositories.NewAccountRepository(db, logger),
		repositories.NewCostRepository(db, logger),
		nil,
	)
}

func TestGroupService_ListDerivations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	groups := newGroupService(db)
	accounts := newAccountService(db, plans.Default())

	ctx := getTestContext(uuid.New())

	group, err := groups.Create(ctx, &models.AccountGroup{Name: "Profile A"})
	require.NoError(t, err)
	empty, err := groups.Create(ctx, &models.AccountGroup{Name: "Profile B"})
	require.NoError(t, err)

	_, err = accounts.Create(ctx, &models.Account{GroupID: group.ID, AdsSpent: 100})
	require.NoError(t, err)
	result, err := accounts.Create(ctx, &models.Account{GroupID: group.ID, CostGmail: 5})
	require.NoError(t, err)

	// Pause the second account; the group still has one active account
	result.Account.Status = models.AccountStatusPaused
	_, err = accounts.Save(ctx, result.Account)
	require.NoError(t, err)

	detail, err := groups.Get(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Accounts, 2)
	assert.True(t, detail.HasActiveAccounts)
	assert.Equal(t, 105.0, detail.TotalSpent)

	emptyDetail, err := groups.Get(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, emptyDetail.Accounts)
	assert.Empty(t, emptyDetail.Accounts)
	assert.False(t, emptyDetail.HasActiveAccounts)
	assert.Zero(t, emptyDetail.TotalSpent)

	list, err := groups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGroupService_DeleteCascade(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	groups := newGroupService(db)
	accounts := newAccountService(db, plans.Default())
	costRepo := repositories.NewCostRepository(db, logger)
	accountRepo := repositories.NewAccountRepository(db, logger)

	ctx := getTestContext(uuid.New())

	group, err := groups.Create(ctx, &models.AccountGroup{Name: "Doomed"})
	require.NoError(t, err)

	first, err := accounts.Create(ctx, &models.Account{GroupID: group.ID, AdsSpent: 40})
	require.NoError(t, err)
	second, err := accounts.Create(ctx, &models.Account{GroupID: group.ID, CostProxy: 8})
	require.NoError(t, err)

	// A global cost entry must survive the cascade
	global := &models.Cost{Scope: models.CostScopeGlobal, Category: "Tools", Amount: 10}
	require.NoError(t, costRepo.Create(ctx, global))

	require.NoError(t, groups.Delete(ctx, group.ID))

	_, err = groups.Get(ctx, group.ID)
	assertNotFound(t, err)

	remaining, err := accountRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	for _, id := range []uuid.UUID{first.Account.ID, second.Account.ID} {
		costs, err := costRepo.ListByAccount(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, costs)
	}

	all, err := costRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.CostScopeGlobal, all[0].Scope)

	// Deleting a missing group is a 404
	err = groups.Delete(ctx, uuid.New())
	assertNotFound(t, err)
}
