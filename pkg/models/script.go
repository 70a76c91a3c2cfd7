package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shieldads/shieldads/pkg/database"
)

// ScriptCategory groups appeal scripts by the violation family they answer
type ScriptCategory string

const (
	ScriptCategoryFraud        ScriptCategory = "fraud"
	ScriptCategoryCommercial   ScriptCategory = "commercial"
	ScriptCategoryVerification ScriptCategory = "verification"
	ScriptCategoryChanges      ScriptCategory = "changes"
	ScriptCategoryOther        ScriptCategory = "other"
)

// ScriptFieldType enumerates the input kinds a script questionnaire uses
type ScriptFieldType string

const (
	ScriptFieldText     ScriptFieldType = "text"
	ScriptFieldTextarea ScriptFieldType = "textarea"
	ScriptFieldBoolean  ScriptFieldType = "boolean"
	ScriptFieldSelect   ScriptFieldType = "select"
)

// ScriptField is one question of a script section
type ScriptField struct {
	Label   string          `json:"label"`
	Type    ScriptFieldType `json:"type"`
	Width   string          `json:"width,omitempty"`
	Options []string        `json:"options,omitempty"`
	Value   string          `json:"value,omitempty"`
}

// ScriptSection is a titled block of questionnaire fields
type ScriptSection struct {
	Title  string        `json:"title"`
	Fields []ScriptField `json:"fields"`
}

// Script is a reusable appeal/verification script. SuccessRate is a stored
// figure maintained by operators; the dashboard reads it, it is never
// recomputed from executions here.
type Script struct {
	ID             uuid.UUID                       `db:"id" json:"id"`
	TenantID       uuid.UUID                       `db:"tenant_id" json:"tenant_id"`
	Title          string                          `db:"title" json:"title"`
	Category       ScriptCategory                  `db:"category" json:"category"`
	TemplateKey    *string                         `db:"template_key" json:"template_key,omitempty"`
	Description    *string                         `db:"description" json:"description,omitempty"`
	Active         bool                            `db:"active" json:"active"`
	Sections       database.JSONB[[]ScriptSection] `db:"sections" json:"sections"`
	Content        *string                         `db:"content" json:"content,omitempty"`
	SuccessRate    float64                         `db:"success_rate" json:"success_rate"`
	UsageCount     int                             `db:"usage_count" json:"usage_count"`
	RejectionCount int                             `db:"rejection_count" json:"rejection_count"`
	LastUsed       *time.Time                      `db:"last_used" json:"last_used,omitempty"`
	CreatedAt      time.Time                       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time                       `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Script) TableName() string {
	return "scripts"
}
