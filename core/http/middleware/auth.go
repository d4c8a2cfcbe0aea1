package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/flux-anime/weaver/core/config"
	"github.com/flux-anime/weaver/core/schema"
)

// KeyAuth guards every route registered after it. When no API keys are
// configured the middleware is a no-op, so a bare deployment stays
// open.
func KeyAuth(appConfig *config.ApplicationConfig) echo.MiddlewareFunc {
	validate := keyValidator(appConfig)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(appConfig.ApiKeys) == 0 {
				return next(c)
			}

			if isGetExempt(c, appConfig) {
				return next(c)
			}

			if key := extractKey(c.Request()); key != "" && validate(key) {
				return next(c)
			}

			c.Response().Header().Set("WWW-Authenticate", "Bearer")
			if appConfig.OpaqueErrors {
				return c.NoContent(http.StatusUnauthorized)
			}
			return c.JSON(http.StatusUnauthorized, schema.ErrorResponse{
				Error: &schema.APIError{
					Message: "An authentication key is required",
					Code:    http.StatusUnauthorized,
					Type:    "invalid_request_error",
				},
			})
		}
	}
}

// extractKey looks for an API key in the places clients usually put
// them: Authorization bearer token, x-api-key header, or a token
// cookie.
func extractKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if key := r.Header.Get("x-api-key"); key != "" {
		return key
	}
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

func keyValidator(appConfig *config.ApplicationConfig) func(string) bool {
	if appConfig.UseSubtleKeyComparison {
		return func(apiKey string) bool {
			for _, validKey := range appConfig.ApiKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(validKey)) == 1 {
					return true
				}
			}
			return false
		}
	}

	return func(apiKey string) bool {
		for _, validKey := range appConfig.ApiKeys {
			if apiKey == validKey {
				return true
			}
		}
		return false
	}
}

func isGetExempt(c echo.Context, appConfig *config.ApplicationConfig) bool {
	if !appConfig.DisableApiKeyRequirementForHttpGet {
		return false
	}
	if c.Request().Method != http.MethodGet {
		return false
	}
	for _, rx := range appConfig.HttpGetExemptedEndpoints {
		if rx.MatchString(c.Request().URL.Path) {
			return true
		}
	}
	return false
}
