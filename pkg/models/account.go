package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shieldads/shieldads/pkg/database"
)

// AccountStatus is the lifecycle state of an ad account
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusPaused    AccountStatus = "paused"
	AccountStatusBlocked   AccountStatus = "blocked"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusRecovered AccountStatus = "recovered"
	AccountStatusContested AccountStatus = "contested"
	AccountStatusRejected  AccountStatus = "rejected"
)

// AccountTier buckets accounts by spend maturity
type AccountTier string

const (
	AccountTierT1 AccountTier = "T1"
	AccountTierT2 AccountTier = "T2"
	AccountTierT3 AccountTier = "T3"
	AccountTierT4 AccountTier = "T4"
)

// AcquisitionKind records how the account was obtained
type AcquisitionKind string

const (
	AcquisitionPurchased AcquisitionKind = "purchased"
	AcquisitionFarmed    AcquisitionKind = "farmed"
)

// BlockReason is one entry of an account's append-only block reason list,
// referencing the block reason taxonomy
type BlockReason struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Reason     string    `json:"reason"`
	AddedAt    time.Time `json:"added_at"`
}

// Account is a single ad account inside an account group.
// Email and Password are operator credentials for the upstream ad platform;
// they require encryption at rest before any non-isolated deployment.
type Account struct {
	ID                 uuid.UUID                    `db:"id" json:"id"`
	TenantID           uuid.UUID                    `db:"tenant_id" json:"tenant_id"`
	GroupID            uuid.UUID                    `db:"group_id" json:"group_id"`
	CustomerID         *string                      `db:"customer_id" json:"customer_id,omitempty"`
	Email              *string                      `db:"email" json:"email,omitempty"`
	Password           *string                      `db:"password" json:"password,omitempty"`
	Status             AccountStatus                `db:"status" json:"status"`
	Tier               AccountTier                  `db:"tier" json:"tier"`
	HasProxy           bool                         `db:"has_proxy" json:"has_proxy"`
	Proxy              *string                      `db:"proxy" json:"proxy,omitempty"`
	Domain             *string                      `db:"domain" json:"domain,omitempty"`
	CardLastFour       *string                      `db:"card_last_four" json:"card_last_four,omitempty"`
	CardHolderName     *string                      `db:"card_holder_name" json:"card_holder_name,omitempty"`
	CardBank           *string                      `db:"card_bank" json:"card_bank,omitempty"`
	CostGmail          float64                      `db:"cost_gmail" json:"cost_gmail"`
	CostDomain         float64                      `db:"cost_domain" json:"cost_domain"`
	CostProxy          float64                      `db:"cost_proxy" json:"cost_proxy"`
	AdsSpent           float64                      `db:"ads_spent" json:"ads_spent"`
	TotalInvestment    float64                      `db:"total_investment" json:"total_investment"`
	BlockReasons       database.JSONB[[]BlockReason] `db:"block_reasons" json:"block_reasons"`
	AdvertiserVerified bool                         `db:"advertiser_verified" json:"advertiser_verified"`
	IdentityVerified   bool                         `db:"identity_verified" json:"identity_verified"`
	ProfileChanged     bool                         `db:"profile_changed" json:"profile_changed"`
	PaymentChanged     bool                         `db:"payment_changed" json:"payment_changed"`
	LegalName          *string                      `db:"legal_name" json:"legal_name,omitempty"`
	Acquisition        *AcquisitionKind             `db:"acquisition" json:"acquisition,omitempty"`
	AppealRegion       *string                      `db:"appeal_region" json:"appeal_region,omitempty"`
	AppealCount        int                          `db:"appeal_count" json:"appeal_count"`
	SuspensionCount    int                          `db:"suspension_count" json:"suspension_count"`
	LastSuspensionAt   *time.Time                   `db:"last_suspension_at" json:"last_suspension_at,omitempty"`
	Notes              *string                      `db:"notes" json:"notes,omitempty"`
	ContestedAt        *time.Time                   `db:"contested_at" json:"contested_at,omitempty"`
	ActivatedAt        *time.Time                   `db:"activated_at" json:"activated_at,omitempty"`
	RecoveredAt        *time.Time                   `db:"recovered_at" json:"recovered_at,omitempty"`
	ScriptID           *uuid.UUID                   `db:"script_id" json:"script_id,omitempty"`
	LastActionBy       *string                      `db:"last_action_by" json:"last_action_by,omitempty"`
	CreatedAt          time.Time                    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time                    `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Account) TableName() string {
	return "accounts"
}
