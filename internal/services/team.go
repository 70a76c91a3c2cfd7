package services

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/plans"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/telemetry"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// TeamService manages workspace membership under the plan's seat quota
type TeamService struct {
	logger  ectologger.Logger
	members *repositories.TeamMemberRepository
	plan    plans.Plan
}

// NewTeamService creates a new team service
func NewTeamService(logger ectologger.Logger, members *repositories.TeamMemberRepository, plan plans.Plan) *TeamService {
	return &TeamService{logger: logger, members: members, plan: plan}
}

// List returns the tenant's team members
func (s *TeamService) List(ctx context.Context) ([]models.TeamMember, error) {
	ctx, span := tracing.StartSpan(ctx, "TeamService.List")
	defer span.End()

	return s.members.List(ctx)
}

// Add registers a team member, subject to the plan's seat quota
func (s *TeamService) Add(ctx context.Context, member *models.TeamMember) (*models.TeamMember, error) {
	ctx, span := tracing.StartSpan(ctx, "TeamService.Add")
	defer span.End()

	current, err := s.members.Count(ctx)
	if err != nil {
		return nil, err
	}
	if !s.plan.CanAddUser(current) {
		telemetry.RecordQuotaRejection(appctx.GetTenantID(ctx), "team_members")
		return nil, httperror.NewHTTPErrorf(http.StatusUnprocessableEntity,
			"plan %s allows at most %d team members", s.plan.Name, s.plan.MaxUsers)
	}

	member.Active = true
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateRole changes a member's access tier. Members cannot change their own
// role; that keeps every workspace with at least one acting admin.
func (s *TeamService) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	ctx, span := tracing.StartSpan(ctx, "TeamService.UpdateRole")
	defer span.End()

	if !role.AtLeast(models.RoleViewer) {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid role %q", role)
	}

	member, err := s.members.GetByUserID(ctx, appctx.GetUserID(ctx))
	if err != nil {
		return err
	}
	if member != nil && member.ID == id {
		return httperror.NewHTTPError(http.StatusBadRequest, "cannot change your own role")
	}

	return s.members.UpdateRole(ctx, id, role)
}

// Remove deletes a team member
func (s *TeamService) Remove(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "TeamService.Remove")
	defer span.End()

	member, err := s.members.GetByUserID(ctx, appctx.GetUserID(ctx))
	if err != nil {
		return err
	}
	if member != nil && member.ID == id {
		return httperror.NewHTTPError(http.StatusBadRequest, "cannot remove yourself")
	}

	return s.members.Delete(ctx, id)
}
