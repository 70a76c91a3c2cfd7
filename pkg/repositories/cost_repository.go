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

const costsTable = "costs"

var costStruct = database.NewStruct(new(models.Cost))

// CostRepository handles database operations for operational costs
type CostRepository struct {
	*Repository
}

// NewCostRepository creates a new cost repository
func NewCostRepository(db database.DB, logger ectologger.Logger) *CostRepository {
	return &CostRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create creates a new cost entry
func (r *CostRepository) Create(ctx context.Context, cost *models.Cost) error {
	ctx, span := tracing.StartSpan(ctx, "CostRepository.Create")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	cost.TenantID = tenantID

	if cost.ID == uuid.Nil {
		cost.ID = uuid.New()
	}
	if cost.Date.IsZero() {
		cost.Date = time.Now().UTC()
	}
	cost.CreatedAt = time.Now().UTC()

	ib := costStruct.InsertInto(costsTable, cost)
	query, args := ib.Build()

	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"cost_id": cost.ID,
			"scope":   cost.Scope,
		}).Error("failed to create cost")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create cost")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"cost_id": cost.ID,
	}).Debugf("Created %s", costsTable)
	return nil
}

// CreateBatch inserts several cost entries at once. Used when regenerating
// an account's synthesized component costs.
func (r *CostRepository) CreateBatch(ctx context.Context, costs []models.Cost) error {
	ctx, span := tracing.StartSpan(ctx, "CostRepository.CreateBatch")
	defer span.End()

	if len(costs) == 0 {
		return nil
	}

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rows := make([]any, 0, len(costs))
	for i := range costs {
		costs[i].TenantID = tenantID
		if costs[i].ID == uuid.Nil {
			costs[i].ID = uuid.New()
		}
		if costs[i].Date.IsZero() {
			costs[i].Date = now
		}
		costs[i].CreatedAt = now
		rows = append(rows, &costs[i])
	}

	ib := costStruct.InsertInto(costsTable, rows...)
	query, args := ib.Build()

	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"count": len(costs),
		}).Error("failed to create cost batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create costs")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"count": len(costs),
	}).Debugf("Created %s batch", costsTable)
	return nil
}

// List retrieves all cost entries for the current tenant
func (r *CostRepository) List(ctx context.Context) ([]models.Cost, error) {
	ctx, span := tracing.StartSpan(ctx, "CostRepository.List")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := costStruct.SelectFrom(costsTable)
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("date").Desc()

	query, args := sb.Build()

	var costs []models.Cost
	err = r.conn(ctx).SelectContext(ctx, &costs, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to list costs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list costs")
	}

	return costs, nil
}

// ListByAccount retrieves the synthesized cost entries of one account
func (r *CostRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Cost, error) {
	ctx, span := tracing.StartSpan(ctx, "CostRepository.ListByAccount")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := costStruct.SelectFrom(costsTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("account_id", accountID))
	sb.OrderBy("date").Desc()

	query, args := sb.Build()

	var costs []models.Cost
	err = r.conn(ctx).SelectContext(ctx, &costs, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"account_id": accountID,
		}).Error("failed to list costs by account")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list costs")
	}

	return costs, nil
}

// Delete deletes a cost entry
func (r *CostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "CostRepository.Delete")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(costsTable).
		Where(db.Equal("tenant_id", tenantID), db.Equal("id", id))

	query, args := db.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"cost_id": id,
		}).Error("failed to delete cost")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete cost")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "cost %s does not exist", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"cost_id": id,
	}).Debugf("Deleted %s", costsTable)
	return nil
}

// DeleteByAccount removes every account-scoped cost entry of one account,
// the first half of the regenerate-on-save cycle
func (r *CostRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "CostRepository.DeleteByAccount")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return 0, err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(costsTable).
		Where(
			db.Equal("tenant_id", tenantID),
			db.Equal("account_id", accountID),
			db.Equal("scope", models.CostScopeAccount),
		)

	query, args := db.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"account_id": accountID,
		}).Error("failed to delete costs by account")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete costs")
	}

	rows, _ := result.RowsAffected()
	return rows, nil
}

// DeleteByGroup removes the account-scoped cost entries of every account in
// a group, used by the group cascade delete
func (r *CostRepository) DeleteByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "CostRepository.DeleteByGroup")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return 0, err
	}

	query := `
		DELETE FROM costs
		WHERE tenant_id = $1
		  AND scope = $2
		  AND account_id IN (SELECT id FROM accounts WHERE tenant_id = $1 AND group_id = $3)
	`

	result, err := r.conn(ctx).ExecContext(ctx, query, tenantID, models.CostScopeAccount, groupID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"group_id": groupID,
		}).Error("failed to delete costs by group")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete costs")
	}

	rows, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"group_id": groupID,
		"count":    rows,
	}).Debug("Deleted costs by group")
	return rows, nil
}
