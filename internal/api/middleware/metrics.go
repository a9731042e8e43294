package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peerlend/loan-tracker/internal/api/metrics"
)

// Metrics records request count and latency per method, route and status.
// A handler error is rendered first so the recorded status is final, then
// passed on for the access log.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			code := strconv.Itoa(c.Response().Status)
			metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, code).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(c.Request().Method, route, code).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
