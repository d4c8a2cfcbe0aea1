package application

import (
	"github.com/flux-anime/weaver/core/backend"
	"github.com/flux-anime/weaver/core/config"
	"github.com/flux-anime/weaver/core/services"
)

type Application struct {
	applicationConfig *config.ApplicationConfig
	modelConfig       config.ModelConfig
	inferenceClient   *backend.InferenceClient
	promptProcessor   *services.PromptProcessor
}

func newApplication(appConfig *config.ApplicationConfig, modelConfig config.ModelConfig) *Application {
	return &Application{
		applicationConfig: appConfig,
		modelConfig:       modelConfig,
		inferenceClient:   backend.NewInferenceClient(appConfig, modelConfig),
		promptProcessor:   services.NewPromptProcessor(modelConfig),
	}
}

func (a *Application) ApplicationConfig() *config.ApplicationConfig {
	return a.applicationConfig
}

func (a *Application) ModelConfig() config.ModelConfig {
	return a.modelConfig
}

func (a *Application) InferenceClient() *backend.InferenceClient {
	return a.inferenceClient
}

func (a *Application) PromptProcessor() *services.PromptProcessor {
	return a.promptProcessor
}
