package metrics

import "github.com/shieldads/shieldads/pkg/models"

// HighRiskThreshold is the suspension count at which an active account is
// considered at imminent risk of another suspension
const HighRiskThreshold = 3

// HighRisk returns the active accounts whose suspension history puts them on
// the high-risk radar
func HighRisk(groups []models.AccountGroupDetail) []models.Account {
	var out []models.Account
	for _, g := range groups {
		for _, a := range g.Accounts {
			if a.Status == models.AccountStatusActive && a.SuspensionCount >= HighRiskThreshold {
				out = append(out, a)
			}
		}
	}
	return out
}
