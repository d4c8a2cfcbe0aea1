package http

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/labstack/echo/v4"

	"github.com/flux-anime/weaver/core/schema"
)

//go:embed views/*
var viewsfs embed.FS

type renderer struct {
	templates *template.Template
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

func renderEngine() *renderer {
	tmpl := template.Must(
		template.New("").Funcs(sprig.FuncMap()).ParseFS(viewsfs, "views/*.html"),
	)
	return &renderer{templates: tmpl}
}

func notFoundHandler(c echo.Context) error {
	accept := c.Request().Header.Get("Accept")
	if strings.Contains(c.Request().Header.Get("Content-Type"), "application/json") || !strings.Contains(accept, "html") {
		return c.JSON(http.StatusNotFound, schema.ErrorResponse{
			Error: &schema.APIError{Message: "Resource not found", Code: http.StatusNotFound},
		})
	}
	return c.Render(http.StatusNotFound, "404.html", map[string]interface{}{})
}
