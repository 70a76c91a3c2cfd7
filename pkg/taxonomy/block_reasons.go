// Package taxonomy holds the block reason hierarchy: the fixed set of
// categories and specific reasons an ad platform cites when restricting an
// account. The hierarchy is versioned configuration data, not tenant data;
// bump Version whenever the catalog changes so clients can cache against it.
package taxonomy

// Version of the block reason catalog
const Version = 1

// Category is one family of block reasons
type Category struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Reasons []string `json:"reasons"`
}

// Catalog is the versioned block reason hierarchy served to clients
type Catalog struct {
	Version    int        `json:"version"`
	Categories []Category `json:"categories"`
}

var categories = []Category{
	{
		ID:   "fraud-circumvention",
		Name: "Fraud & System Circumvention",
		Reasons: []string{
			"Circumventing systems",
			"Improper creation of multiple accounts",
			"Invalid advertiser verification",
			"Policy circumvention",
		},
	},
	{
		ID:   "evasion-cloaking",
		Name: "Evasion Techniques (Cloaking)",
		Reasons: []string{
			"Cloaking",
			"Misleading redirects",
			"Bridge pages / URL rotators",
			"Domain masking or anti-bot scripts",
		},
	},
	{
		ID:   "deceptive-practices",
		Name: "Deceptive Commercial Practices",
		Reasons: []string{
			"Unacceptable practices",
			"Misleading operations",
			"False information or unrealistic promises",
			"Advertiser misrepresentation",
		},
	},
	{
		ID:   "payments-financial",
		Name: "Payments & Financial",
		Reasons: []string{
			"Suspicious payment activity",
			"Payment declined",
			"Billing failure",
			"Chargeback / reversal",
			"Outstanding or unpaid balance",
		},
	},
	{
		ID:   "site-security",
		Name: "Site Security",
		Reasons: []string{
			"Malware",
			"Phishing",
			"Compromised site",
			"Improper data collection",
		},
	},
	{
		ID:   "experience-quality",
		Name: "Experience Quality",
		Reasons: []string{
			"Low quality landing page",
			"Insufficient or misleading content",
			"Poor user experience",
		},
	},
	{
		ID:      "content-violation",
		Name:    "Content/Product Violation",
		Reasons: []string{"Content/Product Violation"},
	},
	{
		ID:      "other",
		Name:    "Other",
		Reasons: []string{"Other"},
	},
}

// BlockReasons returns the current catalog
func BlockReasons() Catalog {
	out := make([]Category, len(categories))
	copy(out, categories)
	return Catalog{Version: Version, Categories: out}
}

// FindCategory returns the category with the given ID, or false when unknown
func FindCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
