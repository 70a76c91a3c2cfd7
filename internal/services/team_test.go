package services_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/plans"
	"github.com/shieldads/shieldads/pkg/repositories"
)

func TestTeamService_SeatQuota(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	members := repositories.NewTeamMemberRepository(db, logger)
	// One seat is reserved for the owner, so MaxUsers 2 admits a single
	// registered member
	plan := plans.Plan{ID: "TEST", Name: "Test", MaxAccounts: 10, MaxUsers: 2}
	svc := services.NewTeamService(logger, members, plan)

	ctx := getTestContext(uuid.New())

	first, err := svc.Add(ctx, &models.TeamMember{
		UserID: "auth0|first",
		Name:   "First",
		Email:  "first@example.com",
		Role:   models.RoleOperator,
	})
	require.NoError(t, err)
	assert.True(t, first.Active)

	_, err = svc.Add(ctx, &models.TeamMember{
		UserID: "auth0|second",
		Name:   "Second",
		Email:  "second@example.com",
	})
	assertStatusCode(t, err, http.StatusUnprocessableEntity)
	assert.Contains(t, err.Error(), "at most 2 team members")
}

func TestTeamService_SelfGuards(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	members := repositories.NewTeamMemberRepository(db, logger)
	svc := services.NewTeamService(logger, members, plans.Plan{ID: "TEST", Name: "Test", MaxUsers: 10})

	// getTestContext authenticates as auth0|tester
	ctx := getTestContext(uuid.New())

	self, err := svc.Add(ctx, &models.TeamMember{
		UserID: "auth0|tester",
		Name:   "Tester",
		Email:  "tester@example.com",
		Role:   models.RoleAdmin,
	})
	require.NoError(t, err)

	other, err := svc.Add(ctx, &models.TeamMember{
		UserID: "auth0|colleague",
		Name:   "Colleague",
		Email:  "colleague@example.com",
	})
	require.NoError(t, err)

	// Role changes and removals on yourself are rejected
	err = svc.UpdateRole(ctx, self.ID, models.RoleViewer)
	assertStatusCode(t, err, http.StatusBadRequest)

	err = svc.Remove(ctx, self.ID)
	assertStatusCode(t, err, http.StatusBadRequest)

	// Unknown roles are rejected
	err = svc.UpdateRole(ctx, other.ID, models.Role("superuser"))
	assertStatusCode(t, err, http.StatusBadRequest)

	// Acting on a colleague works
	require.NoError(t, svc.UpdateRole(ctx, other.ID, models.RoleOperator))
	require.NoError(t, svc.Remove(ctx, other.ID))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, self.ID, list[0].ID)
}
