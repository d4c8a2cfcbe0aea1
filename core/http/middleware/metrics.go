package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flux-anime/weaver/core/services"
)

// Metrics observes per-request durations through the OpenTelemetry
// meter. The /metrics endpoint itself is not measured.
func Metrics(metricsService *services.MetricsService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if path == "/metrics" {
				return next(c)
			}
			method := c.Request().Method

			start := time.Now()
			err := next(c)
			elapsed := float64(time.Since(start)) / float64(time.Second)
			metricsService.ObserveAPICall(method, path, elapsed)
			return err
		}
	}
}
