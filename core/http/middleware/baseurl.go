package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// BaseURL returns the externally visible base URL for the request,
// honoring X-Forwarded-Proto, X-Forwarded-Host and any prefix stripped
// by StripPathPrefix. The result always ends with "/".
func BaseURL(c echo.Context) string {
	routePath := c.Path()
	origPath := c.Request().URL.Path
	if storedPath, ok := c.Get(originalPathKey).(string); ok && storedPath != "" {
		origPath = storedPath
	}

	scheme := "http"
	if c.Request().Header.Get("X-Forwarded-Proto") == "https" || c.Request().TLS != nil {
		scheme = "https"
	}

	host := c.Request().Host
	if forwardedHost := c.Request().Header.Get("X-Forwarded-Host"); forwardedHost != "" {
		host = forwardedHost
	}

	if routePath != origPath && strings.HasSuffix(origPath, routePath) && len(routePath) > 0 {
		prefixLen := len(origPath) - len(routePath)
		if prefixLen > 0 && prefixLen <= len(origPath) {
			pathPrefix := origPath[:prefixLen]
			if !strings.HasSuffix(pathPrefix, "/") {
				pathPrefix += "/"
			}
			return scheme + "://" + host + pathPrefix
		}
	}

	return scheme + "://" + host + "/"
}
