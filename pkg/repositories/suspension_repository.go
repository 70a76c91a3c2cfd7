package repositories

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/tracing"
)

const suspensionsTable = "suspensions"

var suspensionStruct = database.NewStruct(new(models.Suspension))

// SuspensionRepository handles database operations for suspension records
type SuspensionRepository struct {
	*Repository
}

// NewSuspensionRepository creates a new suspension repository
func NewSuspensionRepository(db database.DB, logger ectologger.Logger) *SuspensionRepository {
	return &SuspensionRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create creates a new suspension record
func (r *SuspensionRepository) Create(ctx context.Context, suspension *models.Suspension) error {
	ctx, span := tracing.StartSpan(ctx, "SuspensionRepository.Create")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	suspension.TenantID = tenantID

	if suspension.ID == uuid.Nil {
		suspension.ID = uuid.New()
	}
	if suspension.Status == "" {
		suspension.Status = models.SuspensionStatusPending
	}
	if suspension.DetectedAt.IsZero() {
		suspension.DetectedAt = time.Now().UTC()
	}

	now := time.Now().UTC()
	suspension.CreatedAt = now
	suspension.UpdatedAt = now

	ib := suspensionStruct.InsertInto(suspensionsTable, suspension)
	query, args := ib.Build()

	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"suspension_id": suspension.ID,
			"account_id":    suspension.AccountID,
		}).Error("failed to create suspension")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create suspension")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"suspension_id": suspension.ID,
	}).Debugf("Created %s", suspensionsTable)
	return nil
}

// GetByID retrieves a suspension record by ID (tenant-scoped)
func (r *SuspensionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Suspension, error) {
	ctx, span := tracing.StartSpan(ctx, "SuspensionRepository.GetByID")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := suspensionStruct.SelectFrom(suspensionsTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("id", id))

	query, args := sb.Build()

	var suspension models.Suspension
	err = r.conn(ctx).GetContext(ctx, &suspension, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "suspension %s does not exist", id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"suspension_id": id,
		}).Error("failed to get suspension")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get suspension")
	}

	return &suspension, nil
}

// List retrieves all suspension records for the current tenant, newest first
func (r *SuspensionRepository) List(ctx context.Context) ([]models.Suspension, error) {
	ctx, span := tracing.StartSpan(ctx, "SuspensionRepository.List")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := suspensionStruct.SelectFrom(suspensionsTable)
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("detected_at").Desc()

	query, args := sb.Build()

	var suspensions []models.Suspension
	err = r.conn(ctx).SelectContext(ctx, &suspensions, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to list suspensions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list suspensions")
	}

	return suspensions, nil
}

// ListByAccount retrieves the suspension history of one account, newest first
func (r *SuspensionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Suspension, error) {
	ctx, span := tracing.StartSpan(ctx, "SuspensionRepository.ListByAccount")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := suspensionStruct.SelectFrom(suspensionsTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("account_id", accountID))
	sb.OrderBy("detected_at").Desc()

	query, args := sb.Build()

	var suspensions []models.Suspension
	err = r.conn(ctx).SelectContext(ctx, &suspensions, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"account_id": accountID,
		}).Error("failed to list suspensions by account")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list suspensions")
	}

	return suspensions, nil
}

// Update rewrites the full suspension row
func (r *SuspensionRepository) Update(ctx context.Context, suspension *models.Suspension) error {
	ctx, span := tracing.StartSpan(ctx, "SuspensionRepository.Update")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	suspension.TenantID = tenantID
	suspension.UpdatedAt = time.Now().UTC()

	ub := suspensionStruct.Update(suspensionsTable, suspension)
	ub.Where(ub.Equal("tenant_id", tenantID), ub.Equal("id", suspension.ID))

	query, args := ub.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"suspension_id": suspension.ID,
		}).Error("failed to update suspension")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update suspension")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "suspension %s does not exist", suspension.ID)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"suspension_id": suspension.ID,
	}).Debugf("Updated %s", suspensionsTable)
	return nil
}

// Delete removes a suspension record
func (r *SuspensionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "SuspensionRepository.Delete")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(suspensionsTable).
		Where(db.Equal("tenant_id", tenantID), db.Equal("id", id))

	query, args := db.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"suspension_id": id,
		}).Error("failed to delete suspension")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete suspension")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "suspension %s does not exist", id)
	}

	return nil
}
