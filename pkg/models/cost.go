package models

import (
	"time"

	"github.com/google/uuid"
)

// CostScope separates standalone operational costs from the per-account
// rows synthesized out of an account's cost components
type CostScope string

const (
	CostScopeGlobal  CostScope = "global"
	CostScopeAccount CostScope = "account"
)

// Cost is one operational cost entry. Account-scoped rows are regenerated
// whenever their account is saved; AccountLabel is denormalized so the
// entry stays readable after the account is deleted from a report export.
type Cost struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	TenantID      uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Date          time.Time  `db:"date" json:"date"`
	Scope         CostScope  `db:"scope" json:"scope"`
	AccountID     *uuid.UUID `db:"account_id" json:"account_id,omitempty"`
	AccountLabel  *string    `db:"account_label" json:"account_label,omitempty"`
	Category      string     `db:"category" json:"category"`
	Amount        float64    `db:"amount" json:"amount"`
	Description   *string    `db:"description" json:"description,omitempty"`
	CreatedByName *string    `db:"created_by_name" json:"created_by_name,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// TableName returns the database table name
func (Cost) TableName() string {
	return "costs"
}
