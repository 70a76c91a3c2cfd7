package repositories

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/tracing"
)

const alertsTable = "alerts"

var alertStruct = database.NewStruct(new(models.Alert))

// AlertRepository handles database operations for the tenant alert feed
type AlertRepository struct {
	*Repository
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db database.DB, logger ectologger.Logger) *AlertRepository {
	return &AlertRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create appends an alert to the feed
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	ctx, span := tracing.StartSpan(ctx, "AlertRepository.Create")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	alert.TenantID = tenantID

	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	alert.CreatedAt = time.Now().UTC()

	ib := alertStruct.InsertInto(alertsTable, alert)
	query, args := ib.Build()

	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"alert_id":   alert.ID,
			"alert_type": alert.AlertType,
		}).Error("failed to create alert")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create alert")
	}

	return nil
}

// ListUnacknowledged retrieves the open alerts for the current tenant,
// newest first
func (r *AlertRepository) ListUnacknowledged(ctx context.Context) ([]models.Alert, error) {
	ctx, span := tracing.StartSpan(ctx, "AlertRepository.ListUnacknowledged")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := alertStruct.SelectFrom(alertsTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("acknowledged", false))
	sb.OrderBy("created_at").Desc()

	query, args := sb.Build()

	var alerts []models.Alert
	err = r.conn(ctx).SelectContext(ctx, &alerts, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to list alerts")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list alerts")
	}

	return alerts, nil
}

// Acknowledge marks an alert as seen
func (r *AlertRepository) Acknowledge(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "AlertRepository.Acknowledge")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	ub := database.NewUpdateBuilder()
	ub.Update(alertsTable).
		Set(
			ub.Assign("acknowledged", true),
			ub.Assign("acknowledged_at", time.Now().UTC()),
		).
		Where(ub.Equal("tenant_id", tenantID), ub.Equal("id", id))

	query, args := ub.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"alert_id": id,
		}).Error("failed to acknowledge alert")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to acknowledge alert")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "alert %s does not exist", id)
	}

	return nil
}
