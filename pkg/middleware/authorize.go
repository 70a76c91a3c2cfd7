package middleware

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/models"
)

// RequireRole gates a route on the caller's workspace role. The role is
// resolved by the Identity middleware, so this must run after it.
func RequireRole(min models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := models.Role(appctx.GetUserRole(c.Request().Context()))
			if !role.AtLeast(min) {
				return httperror.NewHTTPErrorf(http.StatusForbidden, "requires %s access", min)
			}
			return next(c)
		}
	}
}
