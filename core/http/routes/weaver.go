package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/flux-anime/weaver/core/application"
	"github.com/flux-anime/weaver/core/http/endpoints/weaver"
)

func RegisterWeaverRoutes(e *echo.Echo, app *application.Application) {
	e.POST("/generate", weaver.GenerateEndpoint(app))
	e.GET("/default-preview", weaver.DefaultPreviewEndpoint(app.ModelConfig()))
}
