package services_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/templates"
)

func newScriptService(db database.DB) *services.ScriptService {
	logger := getTestLogger()
	return services.NewScriptService(
		db,
		logger,
		repositories.NewScriptRepository(db, logger),
		repositories.NewScriptExecutionRepository(db, logger),
	)
}

func TestScriptService_CreateFromTemplate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	svc := newScriptService(db)

	ctx := getTestContext(uuid.New())

	script, err := svc.CreateFromTemplate(ctx, templates.SystemFraudR1, "")
	require.NoError(t, err)
	require.NotNil(t, script.TemplateKey)
	assert.Equal(t, templates.SystemFraudR1, *script.TemplateKey)
	assert.NotEmpty(t, script.Title, "defaults to the template name")
	assert.True(t, script.Active)
	assert.NotEmpty(t, script.Sections.Data)

	_, err = svc.CreateFromTemplate(ctx, "NOT_A_TEMPLATE", "")
	assertStatusCode(t, err, http.StatusBadRequest)
}

func TestScriptService_Duplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	svc := newScriptService(db)

	ctx := getTestContext(uuid.New())

	source, err := svc.Create(ctx, &models.Script{
		Title:       "Working appeal",
		Category:    models.ScriptCategoryFraud,
		SuccessRate: 80,
	})
	require.NoError(t, err)

	// Bump usage so there are counters to reset
	_, err = svc.RegisterExecution(ctx, &models.ScriptExecution{ScriptID: source.ID})
	require.NoError(t, err)

	clone, err := svc.Duplicate(ctx, source.ID)
	require.NoError(t, err)
	assert.NotEqual(t, source.ID, clone.ID)
	assert.Equal(t, "Working appeal (copy)", clone.Title)
	assert.Equal(t, models.ScriptCategoryFraud, clone.Category)
	assert.Zero(t, clone.SuccessRate)
	assert.Zero(t, clone.UsageCount)
	assert.Zero(t, clone.RejectionCount)
	assert.Nil(t, clone.LastUsed)
}

func TestScriptService_ExecutionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	svc := newScriptService(db)

	ctx := getTestContext(uuid.New())

	script, err := svc.Create(ctx, &models.Script{Title: "Verification walkthrough"})
	require.NoError(t, err)

	// Registering an execution stamps the actor and bumps usage
	execution, err := svc.RegisterExecution(ctx, &models.ScriptExecution{ScriptID: script.ID})
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionResultPending, execution.Result)
	require.NotNil(t, execution.UserID)
	assert.Equal(t, "auth0|tester", *execution.UserID)
	require.NotNil(t, execution.Operator)
	assert.Equal(t, "Tester", *execution.Operator)

	used, err := svc.Get(ctx, script.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, used.UsageCount)
	require.NotNil(t, used.LastUsed)

	// A rejection bumps the script's rejection counter once
	err = svc.SetExecutionResult(ctx, execution.ID, models.ExecutionResultRejected)
	require.NoError(t, err)
	err = svc.SetExecutionResult(ctx, execution.ID, models.ExecutionResultRejected)
	require.NoError(t, err)

	rejected, err := svc.Get(ctx, script.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rejected.RejectionCount)

	// Invalid results are rejected up front
	err = svc.SetExecutionResult(ctx, execution.ID, models.ExecutionResult("maybe"))
	assertStatusCode(t, err, http.StatusBadRequest)

	// Registering against a missing script fails before writing
	_, err = svc.RegisterExecution(ctx, &models.ScriptExecution{ScriptID: uuid.New()})
	assertNotFound(t, err)

	// The execution log survives script deletion
	require.NoError(t, svc.Delete(ctx, script.ID))
	log, err := svc.ListExecutions(ctx, script.ID)
	require.NoError(t, err)
	assert.Len(t, log, 1)
}
