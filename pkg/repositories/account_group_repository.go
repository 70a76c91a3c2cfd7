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
	"github.com/huandu/go-sqlbuilder"

	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/tracing"
)

const accountGroupsTable = "account_groups"

// AccountGroupRepository handles database operations for account groups
type AccountGroupRepository struct {
	*Repository
}

// NewAccountGroupRepository creates a new account group repository
func NewAccountGroupRepository(db database.DB, logger ectologger.Logger) *AccountGroupRepository {
	return &AccountGroupRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create creates a new account group
func (r *AccountGroupRepository) Create(ctx context.Context, group *models.AccountGroup) error {
	ctx, span := tracing.StartSpan(ctx, "AccountGroupRepository.Create")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	group.TenantID = tenantID

	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}

	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	ib := database.NewInsertBuilder()
	ib.InsertInto(accountGroupsTable).
		Cols("id", "tenant_id", "name", "browser_profile_ref", "created_at", "updated_at").
		Values(group.ID, group.TenantID, group.Name, group.BrowserProfileRef, group.CreatedAt, group.UpdatedAt)

	query, args := ib.Build()
	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"group_id": group.ID,
		}).Error("failed to create account group")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create account group")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"group_id": group.ID,
	}).Debugf("Created %s", accountGroupsTable)
	return nil
}

// GetByID retrieves an account group by ID (tenant-scoped)
func (r *AccountGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AccountGroup, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountGroupRepository.GetByID")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := database.NewSelectBuilder()
	sb.Select("*").From(accountGroupsTable).
		Where(sb.Equal("tenant_id", tenantID), sb.Equal("id", id))

	query, args := sb.Build()

	var group models.AccountGroup
	err = r.conn(ctx).GetContext(ctx, &group, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "account group %s does not exist", id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"group_id": id,
		}).Error("failed to get account group")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get account group")
	}

	return &group, nil
}

// List retrieves all account groups for the current tenant
func (r *AccountGroupRepository) List(ctx context.Context) ([]models.AccountGroup, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountGroupRepository.List")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := database.NewSelectBuilder()
	sb.Select("*").From(accountGroupsTable).
		Where(sb.Equal("tenant_id", tenantID)).
		OrderBy("created_at").Desc()

	query, args := sb.Build()

	var groups []models.AccountGroup
	err = r.conn(ctx).SelectContext(ctx, &groups, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to list account groups")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list account groups")
	}

	return groups, nil
}

// Update updates an account group's editable fields
func (r *AccountGroupRepository) Update(ctx context.Context, group *models.AccountGroup) error {
	ctx, span := tracing.StartSpan(ctx, "AccountGroupRepository.Update")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	ub := database.NewUpdateBuilder()
	ub.Update(accountGroupsTable).
		Set(
			ub.Assign("name", group.Name),
			ub.Assign("browser_profile_ref", group.BrowserProfileRef),
			ub.Assign("updated_at", sqlbuilder.Raw("NOW()")),
		).
		Where(ub.Equal("tenant_id", tenantID), ub.Equal("id", group.ID))
	ub.SQL("RETURNING updated_at")

	query, args := ub.Build()
	err = r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&group.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "account group %s does not exist", group.ID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"group_id": group.ID,
		}).Error("failed to update account group")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update account group")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"group_id": group.ID,
	}).Debugf("Updated %s", accountGroupsTable)
	return nil
}

// Delete deletes an account group row. Callers are responsible for running
// this inside the cascade transaction that also removes the group's accounts
// and their synthesized costs.
func (r *AccountGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "AccountGroupRepository.Delete")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(accountGroupsTable).
		Where(db.Equal("tenant_id", tenantID), db.Equal("id", id))

	query, args := db.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"group_id": id,
		}).Error("failed to delete account group")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete account group")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"group_id": id,
		}).Error("failed to delete account group")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete account group")
	}
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "account group %s does not exist", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"group_id": id,
	}).Debugf("Deleted %s", accountGroupsTable)
	return nil
}

// DeleteByTenantID deletes all account groups for a tenant (for testing cleanup)
func (r *AccountGroupRepository) DeleteByTenantID(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountGroupRepository.DeleteByTenantID")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(accountGroupsTable).
		Where(db.Equal("tenant_id", tenantID))

	query, args := db.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to delete account groups by tenant")
		return 0, err
	}

	rows, _ := result.RowsAffected()
	return rows, nil
}
