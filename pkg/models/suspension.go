package models

import (
	"time"

	"github.com/google/uuid"
)

// SuspensionStatus tracks the appeal lifecycle of a suspension record
type SuspensionStatus string

const (
	SuspensionStatusPending   SuspensionStatus = "pending"
	SuspensionStatusAppealed  SuspensionStatus = "appealed"
	SuspensionStatusRecovered SuspensionStatus = "recovered"
	SuspensionStatusLost      SuspensionStatus = "lost"
)

// Suspension is one suspension incident on an account. Creating one bumps
// the account's suspension counter and flips an active account to contested.
type Suspension struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	TenantID         uuid.UUID        `db:"tenant_id" json:"tenant_id"`
	AccountID        uuid.UUID        `db:"account_id" json:"account_id"`
	SuspensionType   *string          `db:"suspension_type" json:"suspension_type,omitempty"`
	Reason           *string          `db:"reason" json:"reason,omitempty"`
	Status           SuspensionStatus `db:"status" json:"status"`
	DetectedAt       time.Time        `db:"detected_at" json:"detected_at"`
	ResolvedAt       *time.Time       `db:"resolved_at" json:"resolved_at,omitempty"`
	RecoveryScriptID *uuid.UUID       `db:"recovery_script_id" json:"recovery_script_id,omitempty"`
	RecoveryCost     *float64         `db:"recovery_cost" json:"recovery_cost,omitempty"`
	RecoveryNotes    *string          `db:"recovery_notes" json:"recovery_notes,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Suspension) TableName() string {
	return "suspensions"
}
