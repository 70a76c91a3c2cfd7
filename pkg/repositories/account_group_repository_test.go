package repositories_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
)

func TestAccountGroupRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewAccountGroupRepository(db, logger)

	tenantID := uuid.New()
	ctx := getTestContext(tenantID)

	// Test Create
	group := &models.AccountGroup{
		Name:              "Profile 14",
		BrowserProfileRef: strPtr("dolphin-14"),
	}

	err := repo.Create(ctx, group)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, group.ID)
	assert.Equal(t, tenantID, group.TenantID)
	assert.False(t, group.CreatedAt.IsZero())

	// Test GetByID
	fetched, err := repo.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, fetched.ID)
	assert.Equal(t, group.Name, fetched.Name)
	assert.Equal(t, *group.BrowserProfileRef, *fetched.BrowserProfileRef)

	// Test List
	groups, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	// Test Update
	group.Name = "Profile 14 (retired)"
	group.BrowserProfileRef = nil
	err = repo.Update(ctx, group)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Profile 14 (retired)", updated.Name)
	assert.Nil(t, updated.BrowserProfileRef)

	// Test tenant isolation - different tenant shouldn't see this group
	otherTenantCtx := getTestContext(uuid.New())
	_, err = repo.GetByID(otherTenantCtx, group.ID)
	assertNotFound(t, err)

	// Test Delete
	err = repo.Delete(ctx, group.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, group.ID)
	assertNotFound(t, err)
}

func TestAccountGroupRepository_TenantRequired(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewAccountGroupRepository(db, logger)

	// Context without tenant ID
	ctx := context.Background()

	group := &models.AccountGroup{
		Name: "Should Fail",
	}

	err := repo.Create(ctx, group)
	assertUnauthorized(t, err)
}
