// Package templates holds the static appeal script library. Each template is
// a questionnaire skeleton operators fill in when contesting a suspension or
// answering a verification request. Templates are configuration, not tenant
// data; scripts created from one keep the template key as lineage.
package templates

import "github.com/shieldads/shieldads/pkg/models"

// Template keys
const (
	SystemFraudR1              = "SYSTEM_FRAUD_R1"
	SystemFraudR2              = "SYSTEM_FRAUD_R2"
	DeceptivePractices         = "DECEPTIVE_PRACTICES"
	VerificationIndividualNew  = "VERIFICATION_INDIVIDUAL_NEW"
	VerificationBusinessNew    = "VERIFICATION_BUSINESS_NEW"
	VerificationIndividualOld  = "VERIFICATION_INDIVIDUAL_LEGACY"
	VerificationBusinessOld    = "VERIFICATION_BUSINESS_LEGACY"
	Blank                      = "BLANK"
)

// ScriptTemplate is one entry of the template library
type ScriptTemplate struct {
	Key            string                 `json:"key"`
	Name           string                 `json:"name"`
	Category       models.ScriptCategory  `json:"category"`
	Sections       []models.ScriptSection `json:"sections"`
	DefaultContent string                 `json:"default_content"`
}

const selfManagedAnswer = "I manage my own ads and I am fully responsible for the operation."
const agencyAnswer = "We are a digital marketing company promoting partner products through paid media."
const ownCampaignsAnswer = "We are a digital marketing company responsible for creating and managing our own campaigns."

var library = []ScriptTemplate{
	{
		Key:            SystemFraudR1,
		Name:           "All or Nothing R1 - System Fraud",
		Category:       models.ScriptCategoryFraud,
		DefaultContent: "// PIXEL R1",
		Sections: []models.ScriptSection{
			{
				Title: "Appeal R1",
				Fields: []models.ScriptField{
					{Label: "What changes did you make to your account or payments since the last appeal?", Type: models.ScriptFieldTextarea, Width: "full"},
					{Label: "Do you want to include information that was not in the previous appeal?", Type: models.ScriptFieldTextarea, Width: "full"},
				},
			},
		},
	},
	{
		Key:            SystemFraudR2,
		Name:           "All or Nothing R2 - System Fraud, 4 Steps",
		Category:       models.ScriptCategoryFraud,
		DefaultContent: "// PIXEL R2",
		Sections: []models.ScriptSection{
			{
				Title: "Step 1: Organization",
				Fields: []models.ScriptField{
					{Label: "In which country will the company run ads?", Type: models.ScriptFieldText, Width: "full", Value: "Brazil"},
					{Label: "What does your organization do?", Type: models.ScriptFieldTextarea, Width: "full", Value: "Digital marketing company specializing in paid traffic and online advertising."},
					{Label: "Are you an owner or a direct employee of the organization?", Type: models.ScriptFieldText, Width: "half", Value: "Yes"},
					{Label: "What is your organization's website?", Type: models.ScriptFieldText, Width: "half"},
				},
			},
			{
				Title: "Step 2: Operation",
				Fields: []models.ScriptField{
					{Label: "Has your organization changed in the last 3 days?", Type: models.ScriptFieldText, Width: "half", Value: "No"},
					{Label: "Is your organization part of an affiliate program?", Type: models.ScriptFieldText, Width: "half", Value: "No"},
					{Label: "Do you have multiple Google accounts?", Type: models.ScriptFieldText, Width: "full", Value: "No"},
				},
			},
			{
				Title: "Step 3: Billing",
				Fields: []models.ScriptField{
					{Label: "Who pays for this account?", Type: models.ScriptFieldText, Width: "full", Value: "I am responsible for the payments myself"},
					{Label: "How do you pay for Google Ads?", Type: models.ScriptFieldText, Width: "full", Value: "Credit card"},
				},
			},
			{
				Title: "Step 4: Campaigns",
				Fields: []models.ScriptField{
					{Label: "Give some examples of keywords from your campaigns.", Type: models.ScriptFieldTextarea, Width: "full"},
					{Label: "Does the website belong to your organization?", Type: models.ScriptFieldText, Width: "half", Value: "Yes"},
					{Label: "Is your company related to other brands?", Type: models.ScriptFieldText, Width: "half", Value: "No"},
					{Label: "Is there anything else we should know about you or your organization?", Type: models.ScriptFieldTextarea, Width: "full"},
				},
			},
		},
	},
	{
		Key:      DeceptivePractices,
		Name:     "Unacceptable Commercial Practices",
		Category: models.ScriptCategoryOther,
		Sections: []models.ScriptSection{
			{
				Title: "Operation Details",
				Fields: []models.ScriptField{
					{Label: "Website", Type: models.ScriptFieldText, Width: "full"},
					{Label: "Keyword examples", Type: models.ScriptFieldText, Width: "half", Value: "We do not use them"},
					{Label: "Billing country", Type: models.ScriptFieldText, Width: "half", Value: "Brazil"},
					{Label: "Do you have one or several accounts?", Type: models.ScriptFieldText, Width: "half", Value: "One"},
					{Label: "Are you advertising your own company?", Type: models.ScriptFieldText, Width: "half", Value: "Yes"},
					{Label: "Who pays?", Type: models.ScriptFieldText, Width: "half", Value: "I pay myself"},
					{Label: "Payment method", Type: models.ScriptFieldText, Width: "half", Value: "Credit card"},
					{Label: "Describe your company", Type: models.ScriptFieldTextarea, Width: "full", Value: "Digital marketing company focused on paid traffic"},
				},
			},
		},
	},
	{
		Key:      VerificationIndividualNew,
		Name:     "Advertiser Verification Individual - New",
		Category: models.ScriptCategoryVerification,
		Sections: []models.ScriptSection{
			{
				Title: "Advertiser Details (Individual)",
				Fields: []models.ScriptField{
					{Label: "Full name", Type: models.ScriptFieldText, Width: "full"},
					{Label: "Full address", Type: models.ScriptFieldTextarea, Width: "full"},
					{Label: "Contact email", Type: models.ScriptFieldText, Width: "full"},
				},
			},
			{
				Title: "Business Model",
				Fields: []models.ScriptField{
					{Label: "Business description", Type: models.ScriptFieldTextarea, Width: "full", Value: selfManagedAnswer},
					{Label: "Marketing model", Type: models.ScriptFieldText, Width: "full", Value: selfManagedAnswer},
					{Label: "Who is responsible for the ads", Type: models.ScriptFieldText, Width: "half", Value: selfManagedAnswer},
					{Label: "Who pays for the ads?", Type: models.ScriptFieldText, Width: "half", Value: selfManagedAnswer},
				},
			},
			{
				Title: "Policies & Data",
				Fields: []models.ScriptField{
					{Label: "Data protection", Type: models.ScriptFieldText, Width: "full", Value: selfManagedAnswer},
					{Label: "Privacy regulation policy", Type: models.ScriptFieldText, Width: "full", Value: selfManagedAnswer},
				},
			},
		},
	},
	{
		Key:      VerificationBusinessNew,
		Name:     "Advertiser Verification Business - New",
		Category: models.ScriptCategoryVerification,
		Sections: []models.ScriptSection{
			{
				Title: "Company Details (Business)",
				Fields: []models.ScriptField{
					{Label: "Legal / trade name", Type: models.ScriptFieldText, Width: "full"},
					{Label: "Tax ID", Type: models.ScriptFieldText, Width: "half"},
					{Label: "Business address", Type: models.ScriptFieldTextarea, Width: "full"},
				},
			},
			{
				Title: "Commercial Structure",
				Fields: []models.ScriptField{
					{Label: "Commercial model", Type: models.ScriptFieldTextarea, Width: "full", Value: agencyAnswer},
					{Label: "Relationship with partners", Type: models.ScriptFieldTextarea, Width: "full", Value: agencyAnswer},
					{Label: "Who pays for the ads?", Type: models.ScriptFieldText, Width: "half", Value: agencyAnswer},
					{Label: "Content creation", Type: models.ScriptFieldText, Width: "half", Value: agencyAnswer},
				},
			},
			{
				Title: "Compliance",
				Fields: []models.ScriptField{
					{Label: "Privacy policy", Type: models.ScriptFieldText, Width: "full", Value: agencyAnswer},
				},
			},
		},
	},
	{
		Key:      VerificationIndividualOld,
		Name:     "Advertiser Verification Individual - Legacy",
		Category: models.ScriptCategoryVerification,
		Sections: []models.ScriptSection{
			{
				Title: "Identification",
				Fields: []models.ScriptField{
					{Label: "Account ID", Type: models.ScriptFieldText, Width: "half"},
					{Label: "Website", Type: models.ScriptFieldText, Width: "half"},
				},
			},
			{
				Title: "Usage & Management",
				Fields: []models.ScriptField{
					{Label: "Account usage", Type: models.ScriptFieldTextarea, Width: "full", Value: selfManagedAnswer},
					{Label: "Who manages it", Type: models.ScriptFieldText, Width: "full", Value: selfManagedAnswer},
				},
			},
			{
				Title: "Data & Operation",
				Fields: []models.ScriptField{
					{Label: "Personal details", Type: models.ScriptFieldTextarea, Width: "full"},
					{Label: "Work description", Type: models.ScriptFieldTextarea, Width: "full", Value: selfManagedAnswer},
					{Label: "Marketing model", Type: models.ScriptFieldText, Width: "full", Value: selfManagedAnswer},
					{Label: "Who pays", Type: models.ScriptFieldText, Width: "half", Value: selfManagedAnswer},
					{Label: "Data protection", Type: models.ScriptFieldText, Width: "half", Value: selfManagedAnswer},
				},
			},
		},
	},
	{
		Key:      VerificationBusinessOld,
		Name:     "Advertiser Verification Business - Legacy",
		Category: models.ScriptCategoryVerification,
		Sections: []models.ScriptSection{
			{
				Title: "Company Details",
				Fields: []models.ScriptField{
					{Label: "Company details", Type: models.ScriptFieldTextarea, Width: "full"},
					{Label: "Tax ID", Type: models.ScriptFieldText, Width: "full"},
					{Label: "Address", Type: models.ScriptFieldTextarea, Width: "full"},
					{Label: "Website", Type: models.ScriptFieldText, Width: "full"},
				},
			},
			{
				Title: "Commercial Model",
				Fields: []models.ScriptField{
					{Label: "Business type", Type: models.ScriptFieldText, Width: "full", Value: ownCampaignsAnswer},
					{Label: "Commercial model", Type: models.ScriptFieldTextarea, Width: "full", Value: ownCampaignsAnswer},
					{Label: "Partners", Type: models.ScriptFieldText, Width: "full", Value: ownCampaignsAnswer},
				},
			},
			{
				Title: "Execution & Payment",
				Fields: []models.ScriptField{
					{Label: "Who creates the ads", Type: models.ScriptFieldText, Width: "full", Value: ownCampaignsAnswer},
					{Label: "Who pays", Type: models.ScriptFieldText, Width: "half", Value: ownCampaignsAnswer},
					{Label: "Privacy policy", Type: models.ScriptFieldText, Width: "half", Value: ownCampaignsAnswer},
				},
			},
		},
	},
	{
		Key:      Blank,
		Name:     "Custom",
		Category: models.ScriptCategoryOther,
		Sections: []models.ScriptSection{
			{Title: "New Section", Fields: []models.ScriptField{}},
		},
	},
}

// All returns the full template library
func All() []ScriptTemplate {
	out := make([]ScriptTemplate, len(library))
	copy(out, library)
	return out
}

// Get returns the template with the given key, or false when unknown
func Get(key string) (ScriptTemplate, bool) {
	for _, t := range library {
		if t.Key == key {
			return t, true
		}
	}
	return ScriptTemplate{}, false
}
