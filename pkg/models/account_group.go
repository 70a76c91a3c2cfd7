package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountGroup is a named bundle of ad accounts, typically one browser
// profile's worth. BrowserProfileRef correlates the group with the
// external anti-detect browser tooling.
type AccountGroup struct {
	ID                uuid.UUID `db:"id" json:"id"`
	TenantID          uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name              string    `db:"name" json:"name"`
	BrowserProfileRef *string   `db:"browser_profile_ref" json:"browser_profile_ref,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (AccountGroup) TableName() string {
	return "account_groups"
}

// AccountGroupDetail is an account group with its accounts embedded and
// the list-view derivations filled in. HasActiveAccounts and TotalSpent
// are computed per request, never stored.
type AccountGroupDetail struct {
	AccountGroup
	Accounts          []Account `db:"-" json:"accounts"`
	HasActiveAccounts bool      `db:"-" json:"has_active_accounts"`
	TotalSpent        float64   `db:"-" json:"total_spent"`
}
