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

const teamMembersTable = "team_members"

var teamMemberStruct = database.NewStruct(new(models.TeamMember))

// TeamMemberRepository handles database operations for team members
type TeamMemberRepository struct {
	*Repository
}

// NewTeamMemberRepository creates a new team member repository
func NewTeamMemberRepository(db database.DB, logger ectologger.Logger) *TeamMemberRepository {
	return &TeamMemberRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create creates a new team member
func (r *TeamMemberRepository) Create(ctx context.Context, member *models.TeamMember) error {
	ctx, span := tracing.StartSpan(ctx, "TeamMemberRepository.Create")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}
	member.TenantID = tenantID

	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	if member.Role == "" {
		member.Role = models.RoleViewer
	}

	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	ib := teamMemberStruct.InsertInto(teamMembersTable, member)
	query, args := ib.Build()

	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"member_id": member.ID,
			"email":     member.Email,
		}).Error("failed to create team member")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create team member")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"member_id": member.ID,
	}).Debugf("Created %s", teamMembersTable)
	return nil
}

// List retrieves all team members for the current tenant
func (r *TeamMemberRepository) List(ctx context.Context) ([]models.TeamMember, error) {
	ctx, span := tracing.StartSpan(ctx, "TeamMemberRepository.List")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := teamMemberStruct.SelectFrom(teamMembersTable)
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at")

	query, args := sb.Build()

	var members []models.TeamMember
	err = r.conn(ctx).SelectContext(ctx, &members, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to list team members")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list team members")
	}

	return members, nil
}

// Count returns the number of registered team members, used for the seat
// quota check
func (r *TeamMemberRepository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "TeamMemberRepository.Count")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return 0, err
	}

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(teamMembersTable).
		Where(sb.Equal("tenant_id", tenantID))

	query, args := sb.Build()

	var count int
	err = r.conn(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("failed to count team members")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count team members")
	}

	return count, nil
}

// GetByUserID retrieves the team member row for an identity provider
// subject, or nil when the user has no row yet
func (r *TeamMemberRepository) GetByUserID(ctx context.Context, userID string) (*models.TeamMember, error) {
	ctx, span := tracing.StartSpan(ctx, "TeamMemberRepository.GetByUserID")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sb := teamMemberStruct.SelectFrom(teamMembersTable)
	sb.Where(sb.Equal("tenant_id", tenantID), sb.Equal("user_id", userID))

	query, args := sb.Build()

	var member models.TeamMember
	err = r.conn(ctx).GetContext(ctx, &member, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"user_id": userID,
		}).Error("failed to get team member by user")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get team member")
	}

	return &member, nil
}

// UpdateRole changes a member's access tier
func (r *TeamMemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	ctx, span := tracing.StartSpan(ctx, "TeamMemberRepository.UpdateRole")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	ub := database.NewUpdateBuilder()
	ub.Update(teamMembersTable).
		Set(
			ub.Assign("role", role),
			ub.Assign("updated_at", sqlbuilder.Raw("NOW()")),
		).
		Where(ub.Equal("tenant_id", tenantID), ub.Equal("id", id))

	query, args := ub.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"member_id": id,
			"role":      role,
		}).Error("failed to update team member role")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update team member")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "team member %s does not exist", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"member_id": id,
		"role":      role,
	}).Debugf("Updated %s", teamMembersTable)
	return nil
}

// Delete removes a team member
func (r *TeamMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "TeamMemberRepository.Delete")
	defer span.End()

	tenantID, err := GetTenantID(ctx)
	if err != nil {
		return err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(teamMembersTable).
		Where(db.Equal("tenant_id", tenantID), db.Equal("id", id))

	query, args := db.Build()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"member_id": id,
		}).Error("failed to delete team member")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete team member")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "team member %s does not exist", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"member_id": id,
	}).Debugf("Deleted %s", teamMembersTable)
	return nil
}
