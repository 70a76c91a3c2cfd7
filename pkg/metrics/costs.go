package metrics

import (
	"math"
	"time"

	"github.com/shieldads/shieldads/pkg/models"
)

// CostTotals is the cost breakdown shown on the dashboard
type CostTotals struct {
	Today    float64 `json:"today"`
	Month    float64 `json:"month"`
	Accounts float64 `json:"accounts"`
	Global   float64 `json:"global"`
	Total    float64 `json:"total"`
}

func sameMonth(a, b time.Time) bool {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return ay == by && am == bm
}

// amount coerces bad stored values to zero so a single corrupt row cannot
// poison every total
func amount(c models.Cost) float64 {
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
		return 0
	}
	return c.Amount
}

// Costs computes the cost totals for a tenant's cost entries
func Costs(costs []models.Cost, now time.Time) CostTotals {
	var t CostTotals
	for _, c := range costs {
		v := amount(c)
		t.Total += v
		if sameDay(c.Date, now) {
			t.Today += v
		}
		if sameMonth(c.Date, now) {
			t.Month += v
		}
		switch c.Scope {
		case models.CostScopeAccount:
			t.Accounts += v
		case models.CostScopeGlobal:
			t.Global += v
		}
	}
	return t
}
