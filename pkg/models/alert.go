package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert is one entry of the tenant's alert feed
type Alert struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	TenantID       uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	AlertType      string     `db:"alert_type" json:"alert_type"`
	Severity       string     `db:"severity" json:"severity"`
	Title          string     `db:"title" json:"title"`
	Message        string     `db:"message" json:"message"`
	EntityType     *string    `db:"entity_type" json:"entity_type,omitempty"`
	EntityID       *uuid.UUID `db:"entity_id" json:"entity_id,omitempty"`
	Acknowledged   bool       `db:"acknowledged" json:"acknowledged"`
	AcknowledgedAt *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// TableName returns the database table name
func (Alert) TableName() string {
	return "alerts"
}
