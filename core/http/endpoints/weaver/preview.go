package weaver

import (
	"embed"
	"encoding/base64"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/flux-anime/weaver/core/config"
	"github.com/flux-anime/weaver/core/schema"
)

//go:embed assets/cherry_blossom_girl.png
var bundledAssets embed.FS

const bundledPreviewFile = "assets/cherry_blossom_girl.png"

// DefaultPreviewEndpoint handles GET /default-preview.
// @Summary Returns the bundled preview image for the default prompt.
// @Produce application/json
// @Success 200 {object} schema.PreviewResponse
// @Router /default-preview [get]
func DefaultPreviewEndpoint(modelConfig config.ModelConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, schema.PreviewResponse{
			Prompt: modelConfig.DefaultPrompt,
			Image:  LoadDefaultImage(modelConfig),
		})
	}
}

// LoadDefaultImage returns the base64 encoding of the preview image,
// or nil when it cannot be read. A configured preview_image_file takes
// precedence over the bundled asset.
func LoadDefaultImage(modelConfig config.ModelConfig) *string {
	var data []byte
	var err error

	if modelConfig.PreviewImageFile != "" {
		data, err = os.ReadFile(modelConfig.PreviewImageFile)
	} else {
		data, err = bundledAssets.ReadFile(bundledPreviewFile)
	}
	if err != nil {
		log.Warn().Err(err).Str("file", modelConfig.PreviewImageFile).Msg("default preview image not available")
		return nil
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return &encoded
}
