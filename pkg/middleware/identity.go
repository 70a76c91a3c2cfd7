package middleware

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/models"
	"github.com/shieldads/shieldads/pkg/repositories"
)

// Identity resolves the authenticated user to a team member row, creating
// one on first request. The tenant owner (matched by email) is provisioned
// as admin; everyone else starts as viewer until an admin promotes them.
// Must run after Context and Authentication.
func Identity(members *repositories.TeamMemberRepository, ownerEmail string, logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			userID := appctx.GetUserID(ctx)
			if userID == "" {
				return httperror.NewHTTPError(http.StatusUnauthorized, "missing user identity")
			}

			member, err := members.GetByUserID(ctx, userID)
			if err != nil {
				return err
			}

			if member == nil {
				email := appctx.GetUserEmail(ctx)
				role := models.RoleViewer
				if ownerEmail != "" && strings.EqualFold(email, ownerEmail) {
					role = models.RoleAdmin
				}

				member = &models.TeamMember{
					UserID: userID,
					Name:   appctx.GetUserName(ctx),
					Email:  email,
					Role:   role,
					Active: true,
				}
				if err := members.Create(ctx, member); err != nil {
					return err
				}
				logger.WithContext(ctx).WithFields(map[string]any{
					"member_id": member.ID,
					"role":      member.Role,
				}).Info("Provisioned team member")
			}

			if !member.Active {
				return httperror.NewHTTPError(http.StatusForbidden, "account is deactivated")
			}

			ctx = appctx.SetUserRole(ctx, string(member.Role))
			if member.Name != "" {
				ctx = appctx.SetUserName(ctx, member.Name)
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
