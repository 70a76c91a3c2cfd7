package middleware

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	appctx "github.com/shieldads/shieldads/pkg/context"
	"github.com/shieldads/shieldads/pkg/redis"
	"github.com/shieldads/shieldads/pkg/telemetry"
)

// RateLimit throttles mutating requests per tenant using a sliding window.
// Reads pass through untouched. Limiter failures fail open so a Redis
// outage does not take writes down with it.
func RateLimit(limiter *redis.RateLimiter, limit int64, window time.Duration, logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return next(c)
			}

			ctx := c.Request().Context()
			tenantID := appctx.GetTenantID(ctx)

			result, err := limiter.Allow(ctx, tenantID, limit, window)
			if err != nil {
				logger.WithContext(ctx).WithError(err).Warn("Rate limit check failed, allowing request")
				return next(c)
			}

			if !result.Allowed {
				telemetry.RateLimitHits.WithLabelValues(tenantID).Inc()
				c.Response().Header().Set("Retry-After", result.RetryIn.Round(time.Second).String())
				return httperror.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}

			return next(c)
		}
	}
}
