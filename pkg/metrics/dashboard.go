// Package metrics holds the dashboard derivations. Every function is pure
// and recomputed per call from the freshly loaded tenant snapshot; results
// are never cached or stored.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/shieldads/shieldads/pkg/models"
)

// DashboardMetrics is the aggregate view served to the dashboard
type DashboardMetrics struct {
	TotalAccounts      int            `json:"total_accounts"`
	ActiveAccounts     int            `json:"active_accounts"`
	ContestedAccounts  int            `json:"contested_accounts"`
	RecoveredAccounts  int            `json:"recovered_accounts"`
	ContestedToday     int            `json:"contested_today"`
	BestScript         *ScriptRanking `json:"best_script,omitempty"`
	WorstScript        *ScriptRanking `json:"worst_script,omitempty"`
	GlobalApprovalRate int            `json:"global_approval_rate"`
}

// ScriptRanking is a script reference with its stored success rate
type ScriptRanking struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SuccessRate float64 `json:"success_rate"`
	UsageCount  int     `json:"usage_count"`
}

// contestedStatuses are the states counted as "in contestation":
// an open appeal, an outstanding suspension, or a platform block.
var contestedStatuses = map[models.AccountStatus]bool{
	models.AccountStatusContested: true,
	models.AccountStatusSuspended: true,
	models.AccountStatusBlocked:   true,
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Dashboard computes the aggregate metrics for a tenant snapshot.
// Script rankings only consider scripts that have been used at least once;
// a script with usage_count zero has no track record to rank.
func Dashboard(groups []models.AccountGroupDetail, scripts []models.Script, now time.Time) DashboardMetrics {
	var m DashboardMetrics

	for _, g := range groups {
		for _, a := range g.Accounts {
			m.TotalAccounts++
			switch {
			case a.Status == models.AccountStatusActive:
				m.ActiveAccounts++
			case a.Status == models.AccountStatusRecovered:
				m.RecoveredAccounts++
			}
			if contestedStatuses[a.Status] {
				m.ContestedAccounts++
				if sameDay(a.UpdatedAt, now) {
					m.ContestedToday++
				}
			}
		}
	}

	used := make([]models.Script, 0, len(scripts))
	for _, s := range scripts {
		if s.UsageCount > 0 {
			used = append(used, s)
		}
	}
	if len(used) == 0 {
		return m
	}

	sort.SliceStable(used, func(i, j int) bool {
		return used[i].SuccessRate > used[j].SuccessRate
	})

	best := used[0]
	worst := used[len(used)-1]
	m.BestScript = &ScriptRanking{ID: best.ID.String(), Title: best.Title, SuccessRate: best.SuccessRate, UsageCount: best.UsageCount}
	m.WorstScript = &ScriptRanking{ID: worst.ID.String(), Title: worst.Title, SuccessRate: worst.SuccessRate, UsageCount: worst.UsageCount}

	var sum float64
	for _, s := range used {
		sum += s.SuccessRate
	}
	m.GlobalApprovalRate = int(math.Round(sum / float64(len(used))))

	return m
}
