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

func newSuspensionService(db database.DB) *services.SuspensionService {
	logger := getTestLogger()
	return services.NewSuspensionService(
		db,
		logger,
		repositories.NewSuspensionRepository(db, logger),
		repositories.NewAccountRepository(db, logger),
		repositories.NewAlertRepository(db, logger),
		nil,
	)
}

func TestSuspensionService_CreateBumpsAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	accounts := newAccountService(db, plans.Default())
	suspensions := newSuspensionService(db)

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	result, err := accounts.Create(ctx, &models.Account{GroupID: group.ID})
	require.NoError(t, err)
	accountID := result.Account.ID

	suspension, err := suspensions.Create(ctx, &models.Suspension{
		AccountID:      accountID,
		SuspensionType: strPtr("circumventing_systems"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SuspensionStatusPending, suspension.Status)
	assert.False(t, suspension.DetectedAt.IsZero())

	account, err := accounts.Get(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 1, account.SuspensionCount)
	assert.Equal(t, models.AccountStatusContested, account.Status)
	require.NotNil(t, account.LastSuspensionAt)

	// Unknown account is rejected
	_, err = suspensions.Create(ctx, &models.Suspension{AccountID: uuid.New()})
	assertNotFound(t, err)
}

func TestSuspensionService_HighRiskAlert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	accounts := newAccountService(db, plans.Default())
	suspensions := newSuspensionService(db)
	alerts := repositories.NewAlertRepository(db, logger)

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	result, err := accounts.Create(ctx, &models.Account{GroupID: group.ID})
	require.NoError(t, err)
	accountID := result.Account.ID

	// Two suspensions stay under the radar threshold
	for i := 0; i < 2; i++ {
		_, err = suspensions.Create(ctx, &models.Suspension{AccountID: accountID})
		require.NoError(t, err)
	}
	open, err := alerts.ListUnacknowledged(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	// The third one puts the account on the high-risk radar
	_, err = suspensions.Create(ctx, &models.Suspension{AccountID: accountID})
	require.NoError(t, err)

	open, err = alerts.ListUnacknowledged(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "high_risk_account", open[0].AlertType)
	require.NotNil(t, open[0].EntityID)
	assert.Equal(t, accountID, *open[0].EntityID)
}

func TestSuspensionService_RecoveredFlipsAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	accounts := newAccountService(db, plans.Default())
	suspensions := newSuspensionService(db)

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	result, err := accounts.Create(ctx, &models.Account{GroupID: group.ID})
	require.NoError(t, err)
	accountID := result.Account.ID

	suspension, err := suspensions.Create(ctx, &models.Suspension{AccountID: accountID})
	require.NoError(t, err)

	suspension.Status = models.SuspensionStatusRecovered
	suspension.RecoveryNotes = strPtr("business verification accepted")
	updated, err := suspensions.Update(ctx, suspension)
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt, "terminal status stamps resolution time")

	account, err := accounts.Get(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusRecovered, account.Status)
	require.NotNil(t, account.RecoveredAt)

	// The counter is history, not state: recovery does not decrement it
	assert.Equal(t, 1, account.SuspensionCount)
}

func TestSuspensionService_DeleteLeavesCounters(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	accounts := newAccountService(db, plans.Default())
	suspensions := newSuspensionService(db)

	ctx := getTestContext(uuid.New())
	group := createTestGroup(t, db, ctx)

	result, err := accounts.Create(ctx, &models.Account{GroupID: group.ID})
	require.NoError(t, err)

	suspension, err := suspensions.Create(ctx, &models.Suspension{AccountID: result.Account.ID})
	require.NoError(t, err)

	require.NoError(t, suspensions.Delete(ctx, suspension.ID))

	account, err := accounts.Get(ctx, result.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, account.SuspensionCount)
}
