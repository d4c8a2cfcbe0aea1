package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flux-anime/weaver/core/config"
	"github.com/flux-anime/weaver/core/http/endpoints/weaver"
)

// HealthRoutes must be registered before the auth middleware: probes
// stay reachable even when API keys are configured.
func HealthRoutes(e *echo.Echo, modelConfig config.ModelConfig) {
	ok := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	e.GET("/healthz", ok)
	e.GET("/readyz", ok)
	e.GET("/health", weaver.HealthEndpoint(modelConfig))
}
