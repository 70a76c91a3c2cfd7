// Package events publishes entity lifecycle events for downstream consumers
// (reporting, alert pipelines). Emission is fire-and-forget: a broker outage
// must never fail the request that triggered the event.
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/kafka"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter publishes domain events. A nil producer disables emission, so
// callers never need to guard on configuration.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

func (e *Emitter) emit(ctx context.Context, eventType, entityType, entityID string, data any) {
	if e == nil || e.producer == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.emit")
	defer span.End()

	payload := map[string]any{
		"schema_version": SchemaVersion,
		"data":           data,
	}
	dataJSON, err := json.Marshal(payload)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to encode domain event")
		return
	}

	event := &kafka.DomainEvent{
		EventType:  eventType,
		TenantID:   appctx.GetTenantID(ctx),
		EntityID:   entityID,
		EntityType: entityType,
		Data:       dataJSON,
	}

	if err := e.producer.Publish(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": eventType,
			"entity_id":  entityID,
		}).Error("Failed to emit domain event")
	}
}

// AccountSaved emits an account.saved event with the authoritative totals
func (e *Emitter) AccountSaved(ctx context.Context, account *models.Account) {
	e.emit(ctx, "account.saved", "account", account.ID.String(), map[string]any{
		"group_id":         account.GroupID,
		"status":           account.Status,
		"total_investment": account.TotalInvestment,
	})
}

// AccountStatusChanged emits an account.status_changed event
func (e *Emitter) AccountStatusChanged(ctx context.Context, account *models.Account, previous models.AccountStatus) {
	e.emit(ctx, "account.status_changed", "account", account.ID.String(), map[string]any{
		"previous": previous,
		"current":  account.Status,
	})
}

// GroupDeleted emits a group.deleted event after the cascade commits
func (e *Emitter) GroupDeleted(ctx context.Context, groupID string, accountsRemoved int64) {
	e.emit(ctx, "group.deleted", "account_group", groupID, map[string]any{
		"accounts_removed": accountsRemoved,
	})
}

// SuspensionOpened emits a suspension.opened event
func (e *Emitter) SuspensionOpened(ctx context.Context, suspension *models.Suspension) {
	e.emit(ctx, "suspension.opened", "suspension", suspension.ID.String(), map[string]any{
		"account_id":      suspension.AccountID,
		"suspension_type": suspension.SuspensionType,
		"detected_at":     suspension.DetectedAt,
	})
}

// SuspensionResolved emits a suspension.resolved event
func (e *Emitter) SuspensionResolved(ctx context.Context, suspension *models.Suspension) {
	e.emit(ctx, "suspension.resolved", "suspension", suspension.ID.String(), map[string]any{
		"account_id": suspension.AccountID,
		"status":     suspension.Status,
	})
}
