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

const accountsTable = "accounts"

var accountStruct = database.NewStruct(new(models.Account))

// AccountRepository handles database operations for ad accounts
type AccountRepository struct {
	*Repository
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db database.DB, logger ectologger.Logger) *AccountRepository {
	return &AccountRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	ctx, span := tracing.StartSpan(ctx, "AccountRepository.Create")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	account.TenantID = tenantID

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.Status == "" {
		account.Status = models.AccountStatusActive
	}
	if account.Tier == "" {
		account.Tier = models.AccountTierT1
	}

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	ib := accountStruct.InsertInto(accountsTable, account)
	query, args := ib.Build()

	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"account_id": account.ID,
			"group_id":   account.GroupID,
		}).Error("failed to create account")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create account")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"account_id": account.ID,
		"group_id":   account.GroupID,
	}).Debugf("Created %s", accountsTable)
	return nil
}

// GetByID retrieves an account by ID (tenant-scoped)
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountRepository.GetByID")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := accountStruct.SelectFrom(accountsTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("id", id))

	query, args := sb.Build()

	var account models.Account
	err = r.conn(ctx).GetContext(ctx, &account, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "account %s does not exist", id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"account_id": id,
		}).Error("failed to get account")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get account")
	}

	return &account, nil
}

// List retrieves all accounts for the current tenant
func (r *AccountRepository) List(ctx context.Context) ([]models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountRepository.List")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := accountStruct.SelectFrom(accountsTable)
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at").Desc()

	query, args := sb.Build()

	var accounts []models.Account
	err = r.conn(ctx).SelectContext(ctx, &accounts, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to list accounts")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list accounts")
	}

	return accounts, nil
}

// ListByGroup retrieves all accounts of one group
func (r *AccountRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountRepository.ListByGroup")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := accountStruct.SelectFrom(accountsTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("group_id", groupID))
	sb.OrderBy("created_at").Desc()

	query, args := sb.Build()

	var accounts []models.Account
	err = r.conn(ctx).SelectContext(ctx, &accounts, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"group_id": groupID,
		}).Error("failed to list accounts by group")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list accounts")
	}

	return accounts, nil
}

// Count returns the number of accounts the tenant currently has, used for
// plan quota checks
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountRepository.Count")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return 0, err
	}

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(accountsTable).
		Where(sb.Equal("tenant_id", tenantID))

	query, args := sb.Build()

	var count int
	err = r.conn(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to count accounts")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count accounts")
	}

	return count, nil
}

// Update rewrites the full account row. TotalInvestment is expected to be
// recomputed by the caller before this is called; the stored value is
// authoritative for everything downstream.
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	ctx, span := tracing.StartSpan(ctx, "AccountRepository.Update")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	account.TenantID = tenantID
	account.UpdatedAt = time.Now().UTC()

	ub := accountStruct.Update(accountsTable, account)
	ub.Where(ub.Equal("tenant_id", tenantID), ub.Equal("id", account.ID))

	query, args := ub.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"account_id": account.ID,
		}).Error("failed to update account")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update account")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"account_id": account.ID,
		}).Error("failed to update account")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update account")
	}
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "account %s does not exist", account.ID)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"account_id": account.ID,
	}).Debugf("Updated %s", accountsTable)
	return nil
}

// RecordSuspension bumps the account's suspension counter, stamps the
// detection time and flips an active account into contestation. Done in one
// statement so concurrent suspensions never lose a count.
func (r *AccountRepository) RecordSuspension(ctx context.Context, id uuid.UUID, detectedAt time.Time) error {
	ctx, span := tracing.StartSpan(ctx, "AccountRepository.RecordSuspension")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE accounts
		SET suspension_count = suspension_count + 1,
			last_suspension_at = $3,
			contested_at = CASE WHEN status = $4 THEN $3 ELSE contested_at END,
			status = CASE WHEN status = $4 THEN $5 ELSE status END,
			updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`

	result, err := r.conn(ctx).ExecContext(ctx, query, tenantID, id, detectedAt,
		models.AccountStatusActive, models.AccountStatusContested)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"account_id": id,
		}).Error("failed to record suspension on account")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to record suspension")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "account %s does not exist", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"account_id": id,
	}).Debug("Recorded suspension on account")
	return nil
}

// Delete deletes an account row. Callers remove its synthesized costs in the
// same transaction.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "AccountRepository.Delete")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(accountsTable).
		Where(db.Equal("tenant_id", tenantID), db.Equal("id", id))

	query, args := db.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"account_id": id,
		}).Error("failed to delete account")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete account")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "account %s does not exist", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"account_id": id,
	}).Debugf("Deleted %s", accountsTable)
	return nil
}

// DeleteByGroup deletes every account of a group, returning the number of
// rows removed
func (r *AccountRepository) DeleteByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "AccountRepository.DeleteByGroup")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return 0, err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(accountsTable).
		Where(db.Equal("tenant_id", tenantID), db.Equal("group_id", groupID))

	query, args := db.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"group_id": groupID,
		}).Error("failed to delete accounts by group")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete accounts")
	}

	rows, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"group_id": groupID,
		"count":    rows,
	}).Debug("Deleted accounts by group")
	return rows, nil
}
