package metrics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/pkg/models"
)

var testNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func account(status models.AccountStatus, updatedAt time.Time) models.Account {
	return models.Account{
		ID:        uuid.New(),
		Status:    status,
		UpdatedAt: updatedAt,
	}
}

func script(title string, rate float64, usage int) models.Script {
	return models.Script{
		ID:          uuid.New(),
		Title:       title,
		SuccessRate: rate,
		UsageCount:  usage,
	}
}

func TestDashboardEmpty(t *testing.T) {
	m := Dashboard(nil, nil, testNow)

	assert.Equal(t, 0, m.TotalAccounts)
	assert.Equal(t, 0, m.ActiveAccounts)
	assert.Equal(t, 0, m.ContestedAccounts)
	assert.Equal(t, 0, m.GlobalApprovalRate)
	assert.Nil(t, m.BestScript)
	assert.Nil(t, m.WorstScript)
}

func TestDashboardStatusCounts(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	groups := []models.AccountGroupDetail{
		{Accounts: []models.Account{
			account(models.AccountStatusActive, yesterday),
			account(models.AccountStatusActive, yesterday),
			account(models.AccountStatusPaused, yesterday),
			account(models.AccountStatusContested, testNow),
			account(models.AccountStatusSuspended, yesterday),
			account(models.AccountStatusBlocked, testNow),
			account(models.AccountStatusRecovered, yesterday),
			account(models.AccountStatusRejected, yesterday),
		}},
	}

	m := Dashboard(groups, nil, testNow)

	assert.Equal(t, 8, m.TotalAccounts)
	assert.Equal(t, 2, m.ActiveAccounts)
	// contested = contested + suspended + blocked
	assert.Equal(t, 3, m.ContestedAccounts)
	assert.Equal(t, 1, m.RecoveredAccounts)
	// only contested-state accounts touched today count
	assert.Equal(t, 2, m.ContestedToday)
}

func TestDashboardSpansGroups(t *testing.T) {
	groups := []models.AccountGroupDetail{
		{Accounts: []models.Account{account(models.AccountStatusActive, testNow)}},
		{Accounts: []models.Account{account(models.AccountStatusActive, testNow)}},
		{Accounts: nil},
	}

	m := Dashboard(groups, nil, testNow)
	assert.Equal(t, 2, m.TotalAccounts)
	assert.Equal(t, 2, m.ActiveAccounts)
}

func TestDashboardScriptRanking(t *testing.T) {
	scripts := []models.Script{
		script("middle", 60, 10),
		script("never used", 100, 0),
		script("best", 90, 4),
		script("worst", 20, 7),
	}

	m := Dashboard(nil, scripts, testNow)

	require.NotNil(t, m.BestScript)
	require.NotNil(t, m.WorstScript)
	assert.Equal(t, "best", m.BestScript.Title, "unused scripts are excluded even with a perfect stored rate")
	assert.Equal(t, "worst", m.WorstScript.Title)
	// mean of 60, 90, 20 rounded
	assert.Equal(t, 57, m.GlobalApprovalRate)
}

func TestDashboardSingleUsedScriptIsBestAndWorst(t *testing.T) {
	scripts := []models.Script{script("only", 75, 1)}

	m := Dashboard(nil, scripts, testNow)

	require.NotNil(t, m.BestScript)
	require.NotNil(t, m.WorstScript)
	assert.Equal(t, m.BestScript.ID, m.WorstScript.ID)
	assert.Equal(t, 75, m.GlobalApprovalRate)
}

func TestDashboardTiedRatesAreStable(t *testing.T) {
	first := script("first", 50, 3)
	second := script("second", 50, 9)

	m := Dashboard(nil, []models.Script{first, second}, testNow)

	require.NotNil(t, m.BestScript)
	assert.Equal(t, "first", m.BestScript.Title)
	assert.Equal(t, "second", m.WorstScript.Title)
}

func TestDashboardApprovalRateRounds(t *testing.T) {
	scripts := []models.Script{
		script("a", 33, 1),
		script("b", 34, 1),
	}

	m := Dashboard(nil, scripts, testNow)
	assert.Equal(t, 34, m.GlobalApprovalRate, "33.5 rounds up")
}

func TestHighRisk(t *testing.T) {
	risky := account(models.AccountStatusActive, testNow)
	risky.SuspensionCount = 3
	veteran := account(models.AccountStatusActive, testNow)
	veteran.SuspensionCount = 7
	calm := account(models.AccountStatusActive, testNow)
	calm.SuspensionCount = 2
	suspended := account(models.AccountStatusSuspended, testNow)
	suspended.SuspensionCount = 5

	groups := []models.AccountGroupDetail{
		{Accounts: []models.Account{risky, calm, suspended}},
		{Accounts: []models.Account{veteran}},
	}

	out := HighRisk(groups)

	require.Len(t, out, 2, "only active accounts at or past the threshold qualify")
	assert.Equal(t, risky.ID, out[0].ID)
	assert.Equal(t, veteran.ID, out[1].ID)
}
