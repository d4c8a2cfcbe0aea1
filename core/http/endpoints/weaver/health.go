package weaver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flux-anime/weaver/core/config"
	"github.com/flux-anime/weaver/core/schema"
)

// HealthEndpoint handles GET /health.
// @Summary Liveness probe reporting the configured model.
// @Produce application/json
// @Success 200 {object} schema.HealthResponse
// @Router /health [get]
func HealthEndpoint(modelConfig config.ModelConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, schema.HealthResponse{
			Status: "healthy",
			Model:  modelConfig.Model,
		})
	}
}
