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

const scriptExecutionsTable = "script_executions"

var scriptExecutionStruct = database.NewStruct(new(models.ScriptExecution))

// ScriptExecutionRepository handles database operations for the script
// execution audit log
type ScriptExecutionRepository struct {
	*Repository
}

// NewScriptExecutionRepository creates a new script execution repository
func NewScriptExecutionRepository(db database.DB, logger ectologger.Logger) *ScriptExecutionRepository {
	return &ScriptExecutionRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create appends an execution record
func (r *ScriptExecutionRepository) Create(ctx context.Context, execution *models.ScriptExecution) error {
	ctx, span := tracing.StartSpan(ctx, "ScriptExecutionRepository.Create")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	execution.TenantID = tenantID

	if execution.ID == uuid.Nil {
		execution.ID = uuid.New()
	}
	if execution.Result == "" {
		execution.Result = models.ExecutionResultPending
	}

	now := time.Now().UTC()
	execution.CreatedAt = now
	execution.UpdatedAt = now

	ib := scriptExecutionStruct.InsertInto(scriptExecutionsTable, execution)
	query, args := ib.Build()

	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"execution_id": execution.ID,
			"script_id":    execution.ScriptID,
		}).Error("failed to create script execution")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create script execution")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"execution_id": execution.ID,
	}).Debugf("Created %s", scriptExecutionsTable)
	return nil
}

// GetByID retrieves one execution record
func (r *ScriptExecutionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScriptExecution, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptExecutionRepository.GetByID")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := scriptExecutionStruct.SelectFrom(scriptExecutionsTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("id", id))

	query, args := sb.Build()

	var execution models.ScriptExecution
	err = r.conn(ctx).GetContext(ctx, &execution, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "script execution %s does not exist", id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"execution_id": id,
		}).Error("failed to get script execution")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get script execution")
	}

	return &execution, nil
}

// List retrieves the tenant's execution log, newest first
func (r *ScriptExecutionRepository) List(ctx context.Context) ([]models.ScriptExecution, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptExecutionRepository.List")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := scriptExecutionStruct.SelectFrom(scriptExecutionsTable)
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at").Desc()

	query, args := sb.Build()

	var executions []models.ScriptExecution
	err = r.conn(ctx).SelectContext(ctx, &executions, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to list script executions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list script executions")
	}

	return executions, nil
}

// ListByScript retrieves the execution log of one script, newest first
func (r *ScriptExecutionRepository) ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptExecution, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptExecutionRepository.ListByScript")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := scriptExecutionStruct.SelectFrom(scriptExecutionsTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("script_id", scriptID))
	sb.OrderBy("created_at").Desc()

	query, args := sb.Build()

	var executions []models.ScriptExecution
	err = r.conn(ctx).SelectContext(ctx, &executions, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"script_id": scriptID,
		}).Error("failed to list script executions by script")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list script executions")
	}

	return executions, nil
}

// UpdateResult records the outcome of an execution once the platform answers
func (r *ScriptExecutionRepository) UpdateResult(ctx context.Context, id uuid.UUID, result models.ExecutionResult) error {
	ctx, span := tracing.StartSpan(ctx, "ScriptExecutionRepository.UpdateResult")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	ub := database.NewUpdateBuilder()
	ub.Update(scriptExecutionsTable).
		Set(
			ub.Assign("result", result),
			ub.Assign("updated_at", time.Now().UTC()),
		).
		Where(ub.Equal("tenant_id", tenantID), ub.Equal("id", id))

	query, args := ub.Build()
	res, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"execution_id": id,
			"result":       result,
		}).Error("failed to update script execution result")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update script execution")
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "script execution %s does not exist", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"execution_id": id,
		"result":       result,
	}).Debugf("Updated %s", scriptExecutionsTable)
	return nil
}
