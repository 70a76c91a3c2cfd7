package plans

// BillingCycle is the renewal cadence of a subscription plan
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleAnnual  BillingCycle = "annual"
)

// Plan is one entry of the static subscription catalog. Plans are
// configuration, not tenant data, and are served read-only.
type Plan struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Cycle       BillingCycle `json:"cycle"`
	Price       float64      `json:"price"`
	MaxAccounts int          `json:"max_accounts"`
	MaxUsers    int          `json:"max_users"`
}

// OwnerReservedSeat accounts for the workspace owner when checking the
// team quota: the owner does not have a team_members row on some legacy
// tenants, so one seat is held back. This makes the effective team limit
// MaxUsers-1 registered members; kept for parity with existing billing
// behavior.
const OwnerReservedSeat = 1

const (
	StarterMonthly = "STARTER_MONTHLY"
	StarterAnnual  = "STARTER_ANNUAL"
	ProMonthly     = "PRO_MONTHLY"
	ProAnnual      = "PRO_ANNUAL"
	EliteMonthly   = "ELITE_MONTHLY"
	EliteAnnual    = "ELITE_ANNUAL"
)

var catalog = []Plan{
	{ID: StarterMonthly, Name: "Starter", Cycle: CycleMonthly, Price: 47.90, MaxAccounts: 25, MaxUsers: 1},
	{ID: StarterAnnual, Name: "Starter", Cycle: CycleAnnual, Price: 397.90, MaxAccounts: 25, MaxUsers: 1},
	{ID: ProMonthly, Name: "Pro", Cycle: CycleMonthly, Price: 147.00, MaxAccounts: 50, MaxUsers: 3},
	{ID: ProAnnual, Name: "Pro", Cycle: CycleAnnual, Price: 447.90, MaxAccounts: 50, MaxUsers: 3},
	{ID: EliteMonthly, Name: "Elite", Cycle: CycleMonthly, Price: 197.90, MaxAccounts: 200, MaxUsers: 8},
	{ID: EliteAnnual, Name: "Elite", Cycle: CycleAnnual, Price: 997.90, MaxAccounts: 200, MaxUsers: 8},
}

// All returns the full plan catalog
func All() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the plan with the given ID, or false when unknown
func Get(id string) (Plan, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Default is the plan applied to tenants with no recorded subscription
func Default() Plan {
	p, _ := Get(StarterMonthly)
	return p
}

// CanAddAccounts reports whether n more accounts fit under the plan's
// account quota given the current count
func (p Plan) CanAddAccounts(current, n int) bool {
	return current+n <= p.MaxAccounts
}

// CanAddUser reports whether one more team member fits under the plan's
// seat quota given the current registered member count
func (p Plan) CanAddUser(current int) bool {
	return current+OwnerReservedSeat < p.MaxUsers
}
