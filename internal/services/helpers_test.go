package services_test

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbUser := os.Getenv("DB_USER_NAME")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "shieldads"
	}

	dsn := "host=" + dbHost + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	return database.NewDatabaseInstance(db, getTestLogger())
}

func getTestContext(tenantID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = appctx.SetTenantID(ctx, tenantID.String())
	ctx = appctx.SetUserID(ctx, "auth0|tester")
	return appctx.SetUserName(ctx, "Tester")
}

func createTestGroup(t *testing.T, db database.DB, ctx context.Context) *models.AccountGroup {
	t.Helper()
	repo := repositories.NewAccountGroupRepository(db, getTestLogger())
	group := &models.AccountGroup{Name: "Test Group"}
	require.NoError(t, repo.Create(ctx, group))
	return group
}

func assertStatusCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err), "expected HTTP error, got: %v", err)
	assert.Equal(t, code, httperror.GetStatusCode(err), "expected %d, got: %d", code, httperror.GetStatusCode(err))
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	assertStatusCode(t, err, http.StatusNotFound)
}

func strPtr(s string) *string {
	return &s
}
