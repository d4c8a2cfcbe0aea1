package http

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/flux-anime/weaver/core/application"
	httpMiddleware "github.com/flux-anime/weaver/core/http/middleware"
	"github.com/flux-anime/weaver/core/http/routes"
	"github.com/flux-anime/weaver/core/schema"
	"github.com/flux-anime/weaver/core/services"
)

//go:embed static/*
var embedDirStatic embed.FS

// @title Anime Dream Weaver API
// @version 0.1.0
// @description Text-to-image generation over a remote FLUX pipeline.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func API(app *application.Application) (*echo.Echo, error) {
	appConfig := app.ApplicationConfig()

	e := echo.New()
	e.HideBanner = true

	if appConfig.UploadLimitMB > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", appConfig.UploadLimitMB)))
	}

	if !appConfig.OpaqueErrors {
		e.HTTPErrorHandler = func(err error, c echo.Context) {
			code := http.StatusInternalServerError
			var he *echo.HTTPError
			if errors.As(err, &he) {
				code = he.Code
			}

			if code == http.StatusNotFound {
				notFoundHandler(c)
				return
			}

			c.JSON(code, schema.ErrorResponse{
				Error: &schema.APIError{Message: err.Error(), Code: code},
			})
		}
	} else {
		e.HTTPErrorHandler = func(err error, c echo.Context) {
			code := http.StatusInternalServerError
			var he *echo.HTTPError
			if errors.As(err, &he) {
				code = he.Code
			}
			c.NoContent(code)
		}
	}

	e.Renderer = renderEngine()

	// StripPathPrefix rewrites the path, so it must run before routing
	e.Pre(httpMiddleware.StripPathPrefix())

	if appConfig.MachineTag != "" {
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Response().Header().Set("Machine-Tag", appConfig.MachineTag)
				return next(c)
			}
		})
	}

	// Request logging via zerolog
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			err := next(c)
			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Msg("HTTP request")
			return err
		}
	})

	if !appConfig.Debug {
		e.Use(middleware.Recover())
	}

	if !appConfig.DisableMetrics {
		metricsService, err := services.NewMetricsService()
		if err != nil {
			return nil, err
		}
		e.Use(httpMiddleware.Metrics(metricsService))
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
		e.Server.RegisterOnShutdown(func() {
			metricsService.Shutdown()
		})
	}

	// Health checks are exempt from auth, register them first
	routes.HealthRoutes(e, app.ModelConfig())

	e.GET("/favicon.svg", func(c echo.Context) error {
		data, err := embedDirStatic.ReadFile("static/favicon.svg")
		if err != nil {
			return c.NoContent(http.StatusNotFound)
		}
		return c.Blob(http.StatusOK, "image/svg+xml", data)
	})

	staticFS, err := fs.Sub(embedDirStatic, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to create static filesystem: %w", err)
	}
	e.StaticFS("/static", staticFS)

	if appConfig.GeneratedContentDir != "" {
		e.Static("/generated-images", appConfig.GeneratedContentDir)
	}

	// Everything below requires a key when keys are configured
	e.Use(httpMiddleware.KeyAuth(appConfig))

	if appConfig.CORS {
		corsConfig := middleware.CORSConfig{}
		if appConfig.CORSAllowOrigins != "" {
			corsConfig.AllowOrigins = strings.Split(appConfig.CORSAllowOrigins, ",")
		}
		e.Use(middleware.CORSWithConfig(corsConfig))
	}

	if appConfig.CSRF {
		log.Debug().Msg("Enabling CSRF middleware. Tokens are now required for state-modifying requests")
		e.Use(middleware.CSRF())
	}

	routes.RegisterWeaverRoutes(e, app)
	if !appConfig.DisableWebUI {
		routes.RegisterUIRoutes(e, app)
	}

	e.Server.RegisterOnShutdown(func() {
		log.Info().Msg("Anime Weaver API server shutting down")
	})

	return e, nil
}
