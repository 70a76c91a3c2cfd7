package services

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/templates"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// ScriptService manages appeal scripts and their execution log
type ScriptService struct {
	db         database.DB
	logger     ectologger.Logger
	scripts    *repositories.ScriptRepository
	executions *repositories.ScriptExecutionRepository
}

// NewScriptService creates a new script service
func NewScriptService(
	db database.DB,
	logger ectologger.Logger,
	scripts *repositories.ScriptRepository,
	executions *repositories.ScriptExecutionRepository,
) *ScriptService {
	return &ScriptService{
		db:         db,
		logger:     logger,
		scripts:    scripts,
		executions: executions,
	}
}

// Create stores a custom script
func (s *ScriptService) Create(ctx context.Context, script *models.Script) (*models.Script, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.Create")
	defer span.End()

	script.Active = true
	if err := s.scripts.Create(ctx, script); err != nil {
		return nil, err
	}
	return script, nil
}

// CreateFromTemplate instantiates a script from the template library. The
// template key is kept on the script as lineage.
func (s *ScriptService) CreateFromTemplate(ctx context.Context, key, title string) (*models.Script, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.CreateFromTemplate")
	defer span.End()

	tpl, ok := templates.Get(key)
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "unknown script template %q", key)
	}

	if title == "" {
		title = tpl.Name
	}

	templateKey := tpl.Key
	script := &models.Script{
		Title:       title,
		Category:    tpl.Category,
		TemplateKey: &templateKey,
		Active:      true,
		Sections:    database.JSONB[[]models.ScriptSection]{Data: tpl.Sections},
	}
	if tpl.DefaultContent != "" {
		content := tpl.DefaultContent
		script.Content = &content
	}

	if err := s.scripts.Create(ctx, script); err != nil {
		return nil, err
	}
	return script, nil
}

// Get returns one script
func (s *ScriptService) Get(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.Get")
	defer span.End()

	return s.scripts.GetByID(ctx, id)
}

// List returns every script of the tenant
func (s *ScriptService) List(ctx context.Context) ([]models.Script, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.List")
	defer span.End()

	return s.scripts.List(ctx)
}

// Update rewrites a script
func (s *ScriptService) Update(ctx context.Context, script *models.Script) (*models.Script, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.Update")
	defer span.End()

	if err := s.scripts.Update(ctx, script); err != nil {
		return nil, err
	}
	return script, nil
}

// Duplicate clones a script with fresh counters so operators can iterate on
// a working script without losing its track record
func (s *ScriptService) Duplicate(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.Duplicate")
	defer span.End()

	source, err := s.scripts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := *source
	clone.ID = uuid.Nil
	clone.Title = source.Title + " (copy)"
	clone.SuccessRate = 0
	clone.UsageCount = 0
	clone.RejectionCount = 0
	clone.LastUsed = nil

	if err := s.scripts.Create(ctx, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

// Delete removes a script. Its execution history stays for auditing.
func (s *ScriptService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.Delete")
	defer span.End()

	return s.scripts.Delete(ctx, id)
}

// RegisterExecution appends an execution row and bumps the script's usage
// counter in the same transaction
func (s *ScriptService) RegisterExecution(ctx context.Context, execution *models.ScriptExecution) (*models.ScriptExecution, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.RegisterExecution")
	defer span.End()

	if _, err := s.scripts.GetByID(ctx, execution.ScriptID); err != nil {
		return nil, err
	}

	if userID := appctx.GetUserID(ctx); userID != "" && execution.UserID == nil {
		execution.UserID = &userID
	}
	if name := appctx.GetUserName(ctx); name != "" && execution.Operator == nil {
		execution.Operator = &name
	}

	now := time.Now().UTC()

	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.executions.Create(txCtx, execution); err != nil {
		return nil, err
	}

	if err := s.scripts.RegisterUse(txCtx, execution.ScriptID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	return execution, nil
}

// ListExecutions returns a script's execution log, newest first
func (s *ScriptService) ListExecutions(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptExecution, error) {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.ListExecutions")
	defer span.End()

	return s.executions.ListByScript(ctx, scriptID)
}

// SetExecutionResult records the outcome of an execution. A rejection also
// bumps the script's rejection counter.
func (s *ScriptService) SetExecutionResult(ctx context.Context, executionID uuid.UUID, result models.ExecutionResult) error {
	ctx, span := tracing.StartSpan(ctx, "ScriptService.SetExecutionResult")
	defer span.End()

	switch result {
	case models.ExecutionResultPending, models.ExecutionResultApproved, models.ExecutionResultRejected:
	default:
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid execution result %q", result)
	}

	execution, err := s.executions.GetByID(ctx, executionID)
	if err != nil {
		return err
	}

	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.executions.UpdateResult(txCtx, executionID, result); err != nil {
		return err
	}

	if result == models.ExecutionResultRejected && execution.Result != models.ExecutionResultRejected {
		script, err := s.scripts.GetByID(txCtx, execution.ScriptID)
		if err != nil {
			return err
		}
		script.RejectionCount++
		if err := s.scripts.Update(txCtx, script); err != nil {
			return err
		}
	}

	return tx.Commit(txCtx)
}
