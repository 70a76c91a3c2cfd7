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

const scriptsTable = "scripts"

var scriptStruct = database.NewStruct(new(models.Script))

// ScriptRepository handles database operations for appeal scripts
type ScriptRepository struct {
	*Repository
}

// NewScriptRepository creates a new script repository
func NewScriptRepository(db database.DB, logger ectologger.Logger) *ScriptRepository {
	return &ScriptRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create creates a new script
func (r *ScriptRepository) Create(ctx context.Context, script *models.Script) error {
	ctx, span := tracing.StartSpan(ctx, "ScriptRepository.Create")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	script.TenantID = tenantID

	if script.ID == uuid.Nil {
		script.ID = uuid.New()
	}
	if script.Category == "" {
		script.Category = models.ScriptCategoryOther
	}

	now := time.Now().UTC()
	script.CreatedAt = now
	script.UpdatedAt = now

	ib := scriptStruct.InsertInto(scriptsTable, script)
	query, args := ib.Build()

	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"script_id": script.ID,
			"title":     script.Title,
		}).Error("failed to create script")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create script")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"script_id": script.ID,
	}).Debugf("Created %s", scriptsTable)
	return nil
}

// GetByID retrieves a script by ID (tenant-scoped)
func (r *ScriptRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptRepository.GetByID")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := scriptStruct.SelectFrom(scriptsTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("id", id))

	query, args := sb.Build()

	var script models.Script
	err = r.conn(ctx).GetContext(ctx, &script, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "script %s does not exist", id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"script_id": id,
		}).Error("failed to get script")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get script")
	}

	return &script, nil
}

// List retrieves all scripts for the current tenant
func (r *ScriptRepository) List(ctx context.Context) ([]models.Script, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptRepository.List")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := scriptStruct.SelectFrom(scriptsTable)
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at").Desc()

	query, args := sb.Build()

	var scripts []models.Script
	err = r.conn(ctx).SelectContext(ctx, &scripts, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to list scripts")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list scripts")
	}

	return scripts, nil
}

// Update rewrites the full script row
func (r *ScriptRepository) Update(ctx context.Context, script *models.Script) error {
	ctx, span := tracing.StartSpan(ctx, "ScriptRepository.Update")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	script.TenantID = tenantID
	script.UpdatedAt = time.Now().UTC()

	ub := scriptStruct.Update(scriptsTable, script)
	ub.Where(ub.Equal("tenant_id", tenantID), ub.Equal("id", script.ID))

	query, args := ub.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"script_id": script.ID,
		}).Error("failed to update script")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update script")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "script %s does not exist", script.ID)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"script_id": script.ID,
	}).Debugf("Updated %s", scriptsTable)
	return nil
}

// RegisterUse bumps the script's usage counter and stamps last_used. A single
// statement so concurrent executions never lose a count.
func (r *ScriptRepository) RegisterUse(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	ctx, span := tracing.StartSpan(ctx, "ScriptRepository.RegisterUse")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE scripts
		SET usage_count = usage_count + 1,
			last_used = $3,
			updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`

	result, err := r.conn(ctx).ExecContext(ctx, query, tenantID, id, usedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"script_id": id,
		}).Error("failed to register script use")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to register script use")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "script %s does not exist", id)
	}

	return nil
}

// Delete deletes a script
func (r *ScriptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "ScriptRepository.Delete")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(scriptsTable).
		Where(db.Equal("tenant_id", tenantID), db.Equal("id", id))

	query, args := db.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"script_id": id,
		}).Error("failed to delete script")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete script")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "script %s does not exist", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"script_id": id,
	}).Debugf("Deleted %s", scriptsTable)
	return nil
}
