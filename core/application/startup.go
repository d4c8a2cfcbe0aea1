package application

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/flux-anime/weaver/core/config"
	"github.com/flux-anime/weaver/internal"
)

// New bootstraps the application: resolves the application config,
// loads the model configuration and prepares the inference client.
func New(opts ...config.AppOption) (*Application, error) {
	options := config.NewApplicationConfig(opts...)

	log.Info().Msgf("Starting Anime Weaver version: %s", internal.PrintableVersion())

	modelConfig, err := config.LoadModelConfig(options.ModelConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading model config: %w", err)
	}

	log.Info().
		Str("model", modelConfig.Model).
		Int("defaultSteps", modelConfig.DefaultSteps).
		Int("maxSteps", modelConfig.MaxSteps).
		Msg("model configuration loaded")

	if options.GeneratedContentDir != "" {
		if err := os.MkdirAll(options.GeneratedContentDir, 0750); err != nil {
			return nil, fmt.Errorf("creating generated content dir: %w", err)
		}
	}

	app := newApplication(options, modelConfig)

	if options.DynamicConfigsDir != "" {
		configHandler := newConfigFileHandler(options)
		if err := configHandler.Watch(); err != nil {
			log.Error().Err(err).Msg("failed to watch the dynamic configuration directory")
		}
	}

	return app, nil
}
