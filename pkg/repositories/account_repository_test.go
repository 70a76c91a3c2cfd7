package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
)

func createTestGroup(t *testing.T, db database.DB, ctx context.Context) *models.AccountGroup {
	t.Helper()
	repo := repositories.NewAccountGroupRepository(db, getTestLogger())
	group := &models.AccountGroup{Name: "Test Group"}
	require.NoError(t, repo.Create(ctx, group))
	return group
}

func TestAccountRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewAccountRepository(db, logger)

	tenantID := uuid.New()
	ctx := getTestContext(tenantID)
	group := createTestGroup(t, db, ctx)

	// Test Create with defaults
	account := &models.Account{
		GroupID:    group.ID,
		CustomerID: strPtr("123-456-7890"),
		Email:      strPtr("ads01@example.com"),
		CostGmail:  5,
		AdsSpent:   120.50,
		BlockReasons: database.JSONB[[]models.BlockReason]{
			Data: []models.BlockReason{},
		},
	}

	err := repo.Create(ctx, account)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, tenantID, account.TenantID)
	assert.Equal(t, models.AccountStatusActive, account.Status)
	assert.Equal(t, models.AccountTierT1, account.Tier)

	// Test GetByID
	fetched, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, fetched.ID)
	assert.Equal(t, *account.CustomerID, *fetched.CustomerID)
	assert.Equal(t, 120.50, fetched.AdsSpent)
	assert.Empty(t, fetched.BlockReasons.Data)

	// Test Count and ListByGroup
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	inGroup, err := repo.ListByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, inGroup, 1)

	// Test Update with a block reason entry
	account.Status = models.AccountStatusPaused
	account.BlockReasons.Data = []models.BlockReason{
		{ID: uuid.NewString(), CategoryID: "fraud-circumvention", Reason: "Circumventing systems policy", AddedAt: time.Now().UTC()},
	}
	err = repo.Update(ctx, account)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusPaused, updated.Status)
	require.Len(t, updated.BlockReasons.Data, 1)
	assert.Equal(t, "fraud-circumvention", updated.BlockReasons.Data[0].CategoryID)

	// Test tenant isolation
	otherTenantCtx := getTestContext(uuid.New())
	_, err = repo.GetByID(otherTenantCtx, account.ID)
	assertNotFound(t, err)

	// Test Delete
	err = repo.Delete(ctx, account.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, account.ID)
	assertNotFound(t, err)
}

func TestAccountRepository_RecordSuspension(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewAccountRepository(db, logger)

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	account := &models.Account{GroupID: group.ID}
	require.NoError(t, repo.Create(ctx, account))

	detectedAt := time.Now().UTC()
	err := repo.RecordSuspension(ctx, account.ID, detectedAt)
	require.NoError(t, err)

	// Active account flips to contested and the counter is bumped
	updated, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.SuspensionCount)
	assert.Equal(t, models.AccountStatusContested, updated.Status)
	require.NotNil(t, updated.ContestedAt)
	require.NotNil(t, updated.LastSuspensionAt)

	// A second suspension bumps the counter but does not re-stamp contestation
	firstContestedAt := *updated.ContestedAt
	err = repo.RecordSuspension(ctx, account.ID, time.Now().UTC())
	require.NoError(t, err)

	updated, err = repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.SuspensionCount)
	assert.Equal(t, models.AccountStatusContested, updated.Status)
	assert.WithinDuration(t, firstContestedAt, *updated.ContestedAt, time.Second)

	// Unknown account is a 404
	err = repo.RecordSuspension(ctx, uuid.New(), detectedAt)
	assertNotFound(t, err)
}

func TestAccountRepository_DeleteByGroup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewAccountRepository(db, logger)

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)
	otherGroup := createTestGroup(t, db, ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Account{GroupID: group.ID}))
	}
	keeper := &models.Account{GroupID: otherGroup.ID}
	require.NoError(t, repo.Create(ctx, keeper))

	removed, err := repo.DeleteByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	// Accounts in other groups survive
	_, err = repo.GetByID(ctx, keeper.ID)
	require.NoError(t, err)
}
