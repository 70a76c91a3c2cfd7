package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shieldads/shieldads/pkg/models"
)

func cost(scope models.CostScope, amount float64, date time.Time) models.Cost {
	return models.Cost{Scope: scope, Amount: amount, Date: date}
}

func TestCostsEmpty(t *testing.T) {
	totals := Costs(nil, testNow)
	assert.Zero(t, totals.Today)
	assert.Zero(t, totals.Month)
	assert.Zero(t, totals.Accounts)
	assert.Zero(t, totals.Global)
	assert.Zero(t, totals.Total)
}

func TestCostsBuckets(t *testing.T) {
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	earlierThisMonth := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	lastYearSameMonth := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	costs := []models.Cost{
		cost(models.CostScopeGlobal, 100, today),
		cost(models.CostScopeAccount, 40, earlierThisMonth),
		cost(models.CostScopeGlobal, 25, lastMonth),
		cost(models.CostScopeAccount, 10, lastYearSameMonth),
	}

	totals := Costs(costs, testNow)

	assert.InDelta(t, 100, totals.Today, 0.001)
	assert.InDelta(t, 140, totals.Month, 0.001, "same month of a different year does not count")
	assert.InDelta(t, 50, totals.Accounts, 0.001)
	assert.InDelta(t, 125, totals.Global, 0.001)
	assert.InDelta(t, 175, totals.Total, 0.001)
}

func TestCostsCoercesBadAmounts(t *testing.T) {
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	costs := []models.Cost{
		cost(models.CostScopeGlobal, math.NaN(), today),
		cost(models.CostScopeGlobal, math.Inf(1), today),
		cost(models.CostScopeGlobal, 30, today),
	}

	totals := Costs(costs, testNow)

	assert.InDelta(t, 30, totals.Total, 0.001)
	assert.InDelta(t, 30, totals.Today, 0.001)
}
