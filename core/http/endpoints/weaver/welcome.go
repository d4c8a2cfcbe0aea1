package weaver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/flux-anime/weaver/core/config"
	"github.com/flux-anime/weaver/internal"
)

// WelcomeEndpoint serves the single-page interface on GET /.
func WelcomeEndpoint(modelConfig config.ModelConfig) echo.HandlerFunc {
	// The preview is read once: the bundled asset cannot change at
	// runtime and inlining it avoids a disk read per page load.
	defaultImage := ""
	if encoded := LoadDefaultImage(modelConfig); encoded != nil {
		defaultImage = "data:image/png;base64," + *encoded
	}

	return func(c echo.Context) error {
		summary := map[string]interface{}{
			"Title":         "Anime Dream Weaver",
			"Version":       internal.PrintableVersion(),
			"Model":         modelConfig.Model,
			"DefaultPrompt": modelConfig.DefaultPrompt,
			"DefaultImage":  defaultImage,
			"Suggestions":   modelConfig.PromptSuggestions,
			"DefaultSteps":  modelConfig.DefaultSteps,
			"MaxSteps":      modelConfig.MaxSteps,
		}

		if wantsJSON(c) {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"title":   "Anime Dream Weaver",
				"version": internal.PrintableVersion(),
				"model":   modelConfig.Model,
			})
		}
		return c.Render(http.StatusOK, "index.html", summary)
	}
}

func wantsJSON(c echo.Context) bool {
	if strings.Contains(c.Request().Header.Get("Content-Type"), "application/json") {
		return true
	}
	accept := c.Request().Header.Get("Accept")
	return accept != "" && !strings.Contains(accept, "html") && !strings.Contains(accept, "*/*")
}
