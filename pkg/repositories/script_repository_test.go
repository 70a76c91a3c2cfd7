package repositories_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
)

func TestScriptRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewScriptRepository(db, logger)

	tenantID := uuid.New()
	ctx := getTestContext(tenantID)

	// Test Create with defaults and a questionnaire section
	script := &models.Script{
		Title:  "Custom appeal",
		Active: true,
		Sections: database.JSONB[[]models.ScriptSection]{
			Data: []models.ScriptSection{
				{
					Title: "Contact",
					Fields: []models.ScriptField{
						{Label: "Full name", Type: models.ScriptFieldText},
					},
				},
			},
		},
	}

	err := repo.Create(ctx, script)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, script.ID)
	assert.Equal(t, tenantID, script.TenantID)
	assert.Equal(t, models.ScriptCategoryOther, script.Category)

	// Test GetByID, sections round-trip through JSONB
	fetched, err := repo.GetByID(ctx, script.ID)
	require.NoError(t, err)
	assert.Equal(t, script.Title, fetched.Title)
	require.Len(t, fetched.Sections.Data, 1)
	assert.Equal(t, "Contact", fetched.Sections.Data[0].Title)
	require.Len(t, fetched.Sections.Data[0].Fields, 1)
	assert.Equal(t, models.ScriptFieldText, fetched.Sections.Data[0].Fields[0].Type)

	// Test Update
	script.Title = "Custom appeal v2"
	script.SuccessRate = 62.5
	err = repo.Update(ctx, script)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, script.ID)
	require.NoError(t, err)
	assert.Equal(t, "Custom appeal v2", updated.Title)
	assert.Equal(t, 62.5, updated.SuccessRate)

	// Test RegisterUse bumps the counter and stamps last_used
	err = repo.RegisterUse(ctx, script.ID, time.Now().UTC())
	require.NoError(t, err)
	err = repo.RegisterUse(ctx, script.ID, time.Now().UTC())
	require.NoError(t, err)

	used, err := repo.GetByID(ctx, script.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, used.UsageCount)
	require.NotNil(t, used.LastUsed)

	// Test tenant isolation
	otherTenantCtx := getTestContext(uuid.New())
	_, err = repo.GetByID(otherTenantCtx, script.ID)
	assertNotFound(t, err)

	// Test Delete
	err = repo.Delete(ctx, script.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, script.ID)
	assertNotFound(t, err)
}

func TestScriptExecutionRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	scripts := repositories.NewScriptRepository(db, logger)
	executions := repositories.NewScriptExecutionRepository(db, logger)

	ctx := getTestContext(uuid.New())

	script := &models.Script{Title: "Verification walkthrough", Active: true}
	require.NoError(t, scripts.Create(ctx, script))

	execution := &models.ScriptExecution{
		ScriptID: script.ID,
		Operator: strPtr("alex"),
	}
	err := executions.Create(ctx, execution)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, execution.ID)
	assert.Equal(t, models.ExecutionResultPending, execution.Result)

	byScript, err := executions.ListByScript(ctx, script.ID)
	require.NoError(t, err)
	require.Len(t, byScript, 1)

	// Test UpdateResult
	err = executions.UpdateResult(ctx, execution.ID, models.ExecutionResultApproved)
	require.NoError(t, err)

	fetched, err := executions.GetByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionResultApproved, fetched.Result)

	// The execution log outlives the script
	require.NoError(t, scripts.Delete(ctx, script.ID))

	byScript, err = executions.ListByScript(ctx, script.ID)
	require.NoError(t, err)
	assert.Len(t, byScript, 1)
}
