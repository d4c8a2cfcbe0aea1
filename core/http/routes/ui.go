package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/flux-anime/weaver/core/application"
	"github.com/flux-anime/weaver/core/http/endpoints/weaver"
)

func RegisterUIRoutes(e *echo.Echo, app *application.Application) {
	e.GET("/", weaver.WelcomeEndpoint(app.ModelConfig()))
}
