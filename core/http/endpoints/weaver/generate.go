package weaver

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/flux-anime/weaver/core/application"
	"github.com/flux-anime/weaver/core/backend"
	"github.com/flux-anime/weaver/core/http/middleware"
	"github.com/flux-anime/weaver/core/schema"
	"github.com/flux-anime/weaver/core/services"
)

// echoPromptLimit caps how much of the enhanced prompt is echoed back
// in responses and logs.
const echoPromptLimit = 100

// GenerateEndpoint handles POST /generate.
// @Summary Generates an image from a text prompt.
// @Accept x-www-form-urlencoded
// @Produce application/json
// @Param prompt formData string true "Text prompt guiding the generation"
// @Param steps formData int false "Number of denoising steps"
// @Param seed formData int false "Sampling seed, -1 picks a random one"
// @Success 200 {object} schema.GenerationResponse
// @Failure 400 {object} schema.GenerationResponse
// @Failure 500 {object} schema.GenerationResponse
// @Router /generate [post]
func GenerateEndpoint(app *application.Application) echo.HandlerFunc {
	return func(c echo.Context) error {
		appConfig := app.ApplicationConfig()
		modelConfig := app.ModelConfig()

		prompt := c.FormValue("prompt")
		steps := modelConfig.DefaultSteps
		if v := c.FormValue("steps"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				steps = parsed
			}
		}
		var seed int64 = -1
		if v := c.FormValue("seed"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				seed = parsed
			}
		}

		if err := app.PromptProcessor().Validate(prompt); err != nil {
			log.Debug().Err(err).Msg("rejecting generation request")
			return c.JSON(http.StatusBadRequest, schema.GenerationResponse{
				Success: false,
				Error:   fmt.Sprintf("Invalid prompt: %s", err.Error()),
				Seed:    seed,
				Steps:   steps,
			})
		}

		enhanced := app.PromptProcessor().Enhance(prompt)
		steps = modelConfig.ClampSteps(steps)
		seed = backend.ResolveSeed(seed)

		log.Info().
			Int("steps", steps).
			Int64("seed", seed).
			Str("prompt", services.TruncatePrompt(enhanced, echoPromptLimit)).
			Msg("generating image")

		ctx, cancel := context.WithTimeout(c.Request().Context(), appConfig.InferenceTimeout)
		defer cancel()

		result, err := backend.ImageGenerationFunc(ctx, app.InferenceClient(), enhanced, seed, steps)
		if err != nil {
			log.Error().Err(err).Msg("image generation failed")
			return c.JSON(http.StatusInternalServerError, schema.GenerationResponse{
				Success: false,
				Error:   err.Error(),
				Seed:    seed,
				Steps:   steps,
			})
		}

		resp := schema.GenerationResponse{
			Success:        true,
			Image:          result.Image,
			Seed:           result.Seed,
			Steps:          result.Steps,
			OriginalPrompt: prompt,
			EnhancedPrompt: services.TruncatePrompt(enhanced, echoPromptLimit),
		}

		if appConfig.GeneratedContentDir != "" {
			if imgURL, err := persistImage(c, appConfig.GeneratedContentDir, result.Image); err != nil {
				log.Warn().Err(err).Msg("could not persist generated image")
			} else {
				resp.URL = imgURL
			}
		}

		return c.JSON(http.StatusOK, resp)
	}
}

// persistImage writes the base64 PNG under the generated content dir
// and returns the URL it is served from.
func persistImage(c echo.Context, dir, b64 string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decoding image payload: %w", err)
	}

	name := fmt.Sprintf("weaver_%s.png", uuid.New().String())
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, data, 0640); err != nil {
		return "", err
	}

	imgURL, err := url.JoinPath(middleware.BaseURL(c), "generated-images", name)
	if err != nil {
		return "", err
	}

	log.Debug().Str("path", dst).Msg("generated image persisted")
	return imgURL, nil
}
