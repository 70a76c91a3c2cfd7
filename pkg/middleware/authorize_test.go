package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/models"
)

func callWithRole(t *testing.T, role string, min models.Role) error {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if role != "" {
		req = req.WithContext(appctx.SetUserRole(req.Context(), role))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireRole(min)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	return handler(c)
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, callWithRole(t, "admin", models.RoleOperator))
	assert.NoError(t, callWithRole(t, "operator", models.RoleOperator))

	err := callWithRole(t, "viewer", models.RoleOperator)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	// No role in context at all
	err = callWithRole(t, "", models.RoleViewer)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	// Unknown roles grant nothing
	err = callWithRole(t, "superuser", models.RoleViewer)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))
}
