package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/goride/admin-api/internal/api/metrics"
)

// Metrics records request latency per route template. Errors are rendered
// here, like echo's Logger middleware, so the final status is known.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
