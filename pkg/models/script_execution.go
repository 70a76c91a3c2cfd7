package models

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionResult is the outcome of running a script against an account
type ExecutionResult string

const (
	ExecutionResultPending  ExecutionResult = "pending"
	ExecutionResultApproved ExecutionResult = "approved"
	ExecutionResultRejected ExecutionResult = "rejected"
)

// ScriptExecution is an append-only audit row recording that a script was
// run against an account. Registering one bumps the script's usage counter.
type ScriptExecution struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	TenantID  uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	ScriptID  uuid.UUID       `db:"script_id" json:"script_id"`
	AccountID *uuid.UUID      `db:"account_id" json:"account_id,omitempty"`
	GroupID   *uuid.UUID      `db:"group_id" json:"group_id,omitempty"`
	UserID    *string         `db:"user_id" json:"user_id,omitempty"`
	Operator  *string         `db:"operator" json:"operator,omitempty"`
	Result    ExecutionResult `db:"result" json:"result"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (ScriptExecution) TableName() string {
	return "script_executions"
}
