package services

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/events"
	"github.com/shieldads/shieldads/pkg/metrics"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/telemetry"
	"github.com/shieldads/shieldads/pkg/tracing"
)

// SuspensionService tracks suspension incidents and keeps the owning
// account's counters and status in step with them.
type SuspensionService struct {
	db          database.DB
	logger      ectologger.Logger
	suspensions *repositories.SuspensionRepository
	accounts    *repositories.AccountRepository
	alerts      *repositories.AlertRepository
	emitter     *events.Emitter
}

// NewSuspensionService creates a new suspension service
func NewSuspensionService(
	db database.DB,
	logger ectologger.Logger,
	suspensions *repositories.SuspensionRepository,
	accounts *repositories.AccountRepository,
	alerts *repositories.AlertRepository,
	emitter *events.Emitter,
) *SuspensionService {
	return &SuspensionService{
		db:          db,
		logger:      logger,
		suspensions: suspensions,
		accounts:    accounts,
		alerts:      alerts,
		emitter:     emitter,
	}
}

// Create records a suspension incident. In the same transaction the
// account's suspension counter is bumped, an active account flips to
// contested, and a radar alert is raised once the account crosses the
// high-risk threshold.
func (s *SuspensionService) Create(ctx context.Context, suspension *models.Suspension) (*models.Suspension, error) {
	ctx, span := tracing.StartSpan(ctx, "SuspensionService.Create")
	defer span.End()

	account, err := s.accounts.GetByID(ctx, suspension.AccountID)
	if err != nil {
		return nil, err
	}

	if suspension.DetectedAt.IsZero() {
		suspension.DetectedAt = time.Now().UTC()
	}

	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.suspensions.Create(txCtx, suspension); err != nil {
		return nil, err
	}

	if err := s.accounts.RecordSuspension(txCtx, account.ID, suspension.DetectedAt); err != nil {
		return nil, err
	}

	if account.SuspensionCount+1 >= metrics.HighRiskThreshold {
		entityType := "account"
		accountID := account.ID
		alert := models.Alert{
			AlertType:  "high_risk_account",
			Severity:   "warning",
			Title:      "Account on high-risk radar",
			Message:    "Account " + accountLabel(account) + " has reached the suspension threshold",
			EntityType: &entityType,
			EntityID:   &accountID,
		}
		if err := s.alerts.Create(txCtx, &alert); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	suspensionType := ""
	if suspension.SuspensionType != nil {
		suspensionType = *suspension.SuspensionType
	}
	telemetry.RecordSuspension(appctx.GetTenantID(ctx), suspensionType)

	s.emitter.SuspensionOpened(ctx, suspension)
	if account.Status == models.AccountStatusActive {
		contested := *account
		contested.Status = models.AccountStatusContested
		s.emitter.AccountStatusChanged(ctx, &contested, account.Status)
	}

	return suspension, nil
}

// Get returns one suspension record
func (s *SuspensionService) Get(ctx context.Context, id uuid.UUID) (*models.Suspension, error) {
	ctx, span := tracing.StartSpan(ctx, "SuspensionService.Get")
	defer span.End()

	return s.suspensions.GetByID(ctx, id)
}

// List returns the tenant's suspension records, newest first
func (s *SuspensionService) List(ctx context.Context) ([]models.Suspension, error) {
	ctx, span := tracing.StartSpan(ctx, "SuspensionService.List")
	defer span.End()

	return s.suspensions.List(ctx)
}

// ListByAccount returns one account's suspension history
func (s *SuspensionService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Suspension, error) {
	ctx, span := tracing.StartSpan(ctx, "SuspensionService.ListByAccount")
	defer span.End()

	return s.suspensions.ListByAccount(ctx, accountID)
}

// Update rewrites a suspension record. Moving it to a terminal status stamps
// the resolution time, and a recovered appeal flips the account to recovered.
func (s *SuspensionService) Update(ctx context.Context, suspension *models.Suspension) (*models.Suspension, error) {
	ctx, span := tracing.StartSpan(ctx, "SuspensionService.Update")
	defer span.End()

	current, err := s.suspensions.GetByID(ctx, suspension.ID)
	if err != nil {
		return nil, err
	}
	suspension.AccountID = current.AccountID

	terminal := suspension.Status == models.SuspensionStatusRecovered || suspension.Status == models.SuspensionStatusLost
	if terminal && suspension.ResolvedAt == nil {
		now := time.Now().UTC()
		suspension.ResolvedAt = &now
	}

	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.suspensions.Update(txCtx, suspension); err != nil {
		return nil, err
	}

	var recovered *models.Account
	var previousStatus models.AccountStatus
	if suspension.Status == models.SuspensionStatusRecovered && current.Status != models.SuspensionStatusRecovered {
		account, err := s.accounts.GetByID(txCtx, suspension.AccountID)
		if err != nil {
			return nil, err
		}
		previousStatus = account.Status
		now := time.Now().UTC()
		account.Status = models.AccountStatusRecovered
		account.RecoveredAt = &now
		if err := s.accounts.Update(txCtx, account); err != nil {
			return nil, err
		}
		recovered = account
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if recovered != nil {
		s.emitter.AccountStatusChanged(ctx, recovered, previousStatus)
	}
	if terminal && current.Status != suspension.Status {
		s.emitter.SuspensionResolved(ctx, suspension)
	}
	return suspension, nil
}

// Delete removes a suspension record. Counters on the account are left
// untouched; the record is audit history, not the source of the counter.
func (s *SuspensionService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "SuspensionService.Delete")
	defer span.End()

	return s.suspensions.Delete(ctx, id)
}
