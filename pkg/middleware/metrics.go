package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shieldads/shieldads/pkg/telemetry"
)

// Metrics records request counts and latency per route
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			method := c.Request().Method
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			telemetry.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			telemetry.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
