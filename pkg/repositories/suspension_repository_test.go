package repositories_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
)

func TestSuspensionRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	accounts := repositories.NewAccountRepository(db, logger)
	repo := repositories.NewSuspensionRepository(db, logger)

	tenantID := uuid.New()
	ctx := getTestContext(tenantID)
	group := createTestGroup(t, db, ctx)

	account := &models.Account{GroupID: group.ID}
	require.NoError(t, accounts.Create(ctx, account))

	// Test Create defaults the status to pending
	suspension := &models.Suspension{
		AccountID:      account.ID,
		SuspensionType: strPtr("circumventing_systems"),
		DetectedAt:     time.Now().UTC(),
	}

	err := repo.Create(ctx, suspension)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, suspension.ID)
	assert.Equal(t, tenantID, suspension.TenantID)
	assert.Equal(t, models.SuspensionStatusPending, suspension.Status)

	// Test ListByAccount
	history, err := repo.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, suspension.ID, history[0].ID)

	// Test Update to a terminal status with recovery details
	now := time.Now().UTC()
	suspension.Status = models.SuspensionStatusRecovered
	suspension.ResolvedAt = &now
	suspension.RecoveryNotes = strPtr("appealed with business verification")
	err = repo.Update(ctx, suspension)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, suspension.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SuspensionStatusRecovered, fetched.Status)
	require.NotNil(t, fetched.ResolvedAt)
	assert.Equal(t, "appealed with business verification", *fetched.RecoveryNotes)

	// Test tenant isolation
	otherTenantCtx := getTestContext(uuid.New())
	_, err = repo.GetByID(otherTenantCtx, suspension.ID)
	assertNotFound(t, err)

	// Test Delete
	err = repo.Delete(ctx, suspension.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, suspension.ID)
	assertNotFound(t, err)
}

func TestAlertRepository_AcknowledgeFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewAlertRepository(db, logger)

	ctx := getTestContext(uuid.New())

	alert := &models.Alert{
		AlertType: "high_risk_account",
		Severity:  "warning",
		Title:     "Account on high-risk radar",
	}
	require.NoError(t, repo.Create(ctx, alert))
	assert.NotEqual(t, uuid.Nil, alert.ID)

	open, err := repo.ListUnacknowledged(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	err = repo.Acknowledge(ctx, alert.ID)
	require.NoError(t, err)

	open, err = repo.ListUnacknowledged(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	// Acknowledging an unknown alert is a 404
	err = repo.Acknowledge(ctx, uuid.New())
	assertNotFound(t, err)
}
