package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/flux-anime/weaver/core/config"
)

func doAuthRequest(t *testing.T, appConfig *config.ApplicationConfig, method string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/generate", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := KeyAuth(appConfig)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestKeyAuthNoKeysConfigured(t *testing.T) {
	appConfig := config.NewApplicationConfig()
	rec := doAuthRequest(t, appConfig, http.MethodPost, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestKeyAuthRejectsMissingKey(t *testing.T) {
	appConfig := config.NewApplicationConfig(config.WithApiKeys([]string{"valid-key"}))
	rec := doAuthRequest(t, appConfig, http.MethodPost, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	require.Contains(t, rec.Body.String(), "authentication key is required")
}

func TestKeyAuthOpaqueRejection(t *testing.T) {
	appConfig := config.NewApplicationConfig(
		config.WithApiKeys([]string{"valid-key"}),
		config.WithOpaqueErrors(true),
	)
	rec := doAuthRequest(t, appConfig, http.MethodPost, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestKeyAuthAcceptsKey(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*http.Request)
	}{
		{name: "bearer token", mutate: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer valid-key")
		}},
		{name: "x-api-key header", mutate: func(r *http.Request) {
			r.Header.Set("x-api-key", "valid-key")
		}},
		{name: "token cookie", mutate: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "token", Value: "valid-key"})
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			appConfig := config.NewApplicationConfig(config.WithApiKeys([]string{"valid-key"}))
			rec := doAuthRequest(t, appConfig, http.MethodPost, tc.mutate)
			require.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestKeyAuthRejectsWrongKey(t *testing.T) {
	for _, subtleComparison := range []bool{false, true} {
		appConfig := config.NewApplicationConfig(
			config.WithApiKeys([]string{"valid-key"}),
			config.WithSubtleKeyComparison(subtleComparison),
		)
		rec := doAuthRequest(t, appConfig, http.MethodPost, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer wrong-key")
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestKeyAuthGetExemption(t *testing.T) {
	appConfig := config.NewApplicationConfig(
		config.WithApiKeys([]string{"valid-key"}),
		config.WithDisableApiKeyRequirementForHttpGet(true),
	)
	appConfig.HttpGetExemptedEndpoints = []*regexp.Regexp{regexp.MustCompile("^/generate$")}

	rec := doAuthRequest(t, appConfig, http.MethodGet, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// exemption never applies to mutating methods
	rec = doAuthRequest(t, appConfig, http.MethodPost, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// nor to paths outside the exemption list
	appConfig.HttpGetExemptedEndpoints = []*regexp.Regexp{regexp.MustCompile("^/health$")}
	rec = doAuthRequest(t, appConfig, http.MethodGet, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
