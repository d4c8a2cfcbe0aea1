package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const originalPathKey = "_original_path"

// StripPathPrefix strips the path prefix announced by a reverse proxy
// through the X-Forwarded-Prefix header, so routes keep working when
// the service is mounted under a sub-path. Register it with e.Pre so
// it rewrites the path before routing happens.
func StripPathPrefix() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			originalPath := c.Request().URL.Path

			for _, prefix := range c.Request().Header.Values("X-Forwarded-Prefix") {
				if prefix == "" {
					continue
				}
				normalizedPrefix := prefix
				if !strings.HasSuffix(prefix, "/") {
					normalizedPrefix = prefix + "/"
				}

				if strings.HasPrefix(originalPath, normalizedPrefix) {
					newPath := originalPath[len(normalizedPrefix):]
					if !strings.HasPrefix(newPath, "/") {
						newPath = "/" + newPath
					}
					c.Request().URL.Path = newPath
					c.Request().URL.RawPath = ""
					if q := c.Request().URL.RawQuery; q != "" {
						c.Request().RequestURI = newPath + "?" + q
					} else {
						c.Request().RequestURI = newPath
					}
					// BaseURL reconstructs the external URL from this
					c.Set(originalPathKey, originalPath)
					break
				}

				if originalPath == prefix || originalPath == prefix+"/" {
					return c.Redirect(http.StatusFound, normalizedPrefix)
				}
			}

			return next(c)
		}
	}
}
