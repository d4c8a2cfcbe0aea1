package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flux-anime/weaver/core/application"
	cliContext "github.com/flux-anime/weaver/core/cli/context"
	"github.com/flux-anime/weaver/core/config"
	"github.com/flux-anime/weaver/core/http"
	"github.com/flux-anime/weaver/pkg/signals"
)

type RunCMD struct {
	Address          string `env:"WEAVER_ADDRESS,ADDRESS" default:":8080" help:"Bind address for the API server" group:"api"`
	ModelConfigFile  string `env:"WEAVER_MODEL_CONFIG_FILE" help:"YAML file overriding the model and prompt-policy defaults" group:"model"`
	InferenceURL     string `env:"WEAVER_INFERENCE_URL" help:"URL of the remote GPU inference function" group:"model"`
	InferenceToken   string `env:"WEAVER_INFERENCE_TOKEN" help:"Bearer token for the remote inference function" group:"model"`
	InferenceTimeout string `env:"WEAVER_INFERENCE_TIMEOUT" default:"10m" help:"Timeout for a single generation call" group:"model"`

	GeneratedContentPath   string        `env:"WEAVER_GENERATED_CONTENT_PATH" type:"path" default:"/tmp/weaver/generated" help:"Location for persisted generated images, empty disables persistence" group:"storage"`
	ConfigDir              string        `env:"WEAVER_CONFIG_DIR" type:"path" help:"Directory for dynamic loading of certain configuration files (currently api_keys.json)" group:"storage"`
	ConfigDirPollInterval  time.Duration `env:"WEAVER_CONFIG_DIR_POLL_INTERVAL" help:"If your system has broken fsnotify events, set this to an interval to poll the config dir (example: 1m)" group:"storage"`

	CORS                               bool     `env:"WEAVER_CORS,CORS" help:"" group:"api"`
	CORSAllowOrigins                   string   `env:"WEAVER_CORS_ALLOW_ORIGINS,CORS_ALLOW_ORIGINS" group:"api"`
	CSRF                               bool     `env:"WEAVER_CSRF" help:"Enables the CSRF middleware" group:"api"`
	UploadLimit                        int      `env:"WEAVER_UPLOAD_LIMIT,UPLOAD_LIMIT" default:"15" help:"Default upload-limit in MB" group:"api"`
	APIKeys                            []string `env:"WEAVER_API_KEY,API_KEY" help:"List of API Keys to enable API authentication. When this is set, all the requests must be authenticated with one of these API keys" group:"api"`
	DisableWebUI                       bool     `env:"WEAVER_DISABLE_WEBUI,DISABLE_WEBUI" default:"false" help:"Disables the web interface, only the API endpoints are served" group:"api"`
	DisableMetricsEndpoint             bool     `env:"WEAVER_DISABLE_METRICS_ENDPOINT,DISABLE_METRICS_ENDPOINT" default:"false" help:"Disable the /metrics endpoint" group:"api"`
	MachineTag                         string   `env:"WEAVER_MACHINE_TAG,MACHINE_TAG" help:"Add Machine-Tag header to each response which is useful to track the machine behind a load balancer" group:"api"`
	OpaqueErrors                       bool     `env:"WEAVER_OPAQUE_ERRORS" default:"false" help:"If true, all error responses are replaced with blank responses. This is intended only for hardening against information leaks and is normally not recommended" group:"hardening"`
	UseSubtleKeyComparison             bool     `env:"WEAVER_SUBTLE_KEY_COMPARISON" default:"false" help:"If true, API Key validation comparisons will be performed using constant-time comparisons rather than simple equality" group:"hardening"`
	DisableApiKeyRequirementForHttpGet bool     `env:"WEAVER_DISABLE_API_KEY_REQUIREMENT_FOR_HTTP_GET" default:"false" help:"If true, a valid API key is not required to issue GET requests to exempted endpoints. This should only be enabled in secure testing environments" group:"hardening"`
	HttpGetExemptedEndpoints           []string `env:"WEAVER_HTTP_GET_EXEMPTED_ENDPOINTS" default:"^/$,^/health$,^/default-preview$,^/static/.*$,^/favicon.svg$" help:"If WEAVER_DISABLE_API_KEY_REQUIREMENT_FOR_HTTP_GET is overridden to true, this is the list of endpoints to exempt" group:"hardening"`
}

func (r *RunCMD) Run(ctx *cliContext.Context) error {
	inferenceTimeout, err := time.ParseDuration(r.InferenceTimeout)
	if err != nil {
		return err
	}

	opts := []config.AppOption{
		config.WithContext(context.Background()),
		config.WithAPIAddress(r.Address),
		config.WithModelConfigFile(r.ModelConfigFile),
		config.WithInferenceURL(r.InferenceURL),
		config.WithInferenceToken(r.InferenceToken),
		config.WithInferenceTimeout(inferenceTimeout),
		config.WithGeneratedContentDir(r.GeneratedContentPath),
		config.WithDynamicConfigDir(r.ConfigDir),
		config.WithDynamicConfigDirPollInterval(r.ConfigDirPollInterval),
		config.WithCors(r.CORS),
		config.WithCorsAllowOrigins(r.CORSAllowOrigins),
		config.WithCsrf(r.CSRF),
		config.WithUploadLimitMB(r.UploadLimit),
		config.WithApiKeys(r.APIKeys),
		config.WithMachineTag(r.MachineTag),
		config.WithDebug(ctx.Debug || (ctx.LogLevel != nil && *ctx.LogLevel == "debug")),
		config.WithOpaqueErrors(r.OpaqueErrors),
		config.WithSubtleKeyComparison(r.UseSubtleKeyComparison),
		config.WithDisableApiKeyRequirementForHttpGet(r.DisableApiKeyRequirementForHttpGet),
		config.WithHttpGetExemptedEndpoints(r.HttpGetExemptedEndpoints),
	}

	if r.DisableWebUI {
		opts = append(opts, config.DisableWebUI)
	}

	if r.DisableMetricsEndpoint {
		opts = append(opts, config.DisableMetricsEndpoint)
	}

	if r.InferenceURL == "" {
		log.Warn().Msg("no inference endpoint configured, generation requests will fail")
	}

	app, err := application.New(opts...)
	if err != nil {
		return err
	}

	appHTTP, err := http.API(app)
	if err != nil {
		log.Error().Err(err).Msg("error during HTTP App construction")
		return err
	}

	signals.RegisterGracefulTerminationHandler(func() {
		if err := appHTTP.Close(); err != nil {
			log.Error().Err(err).Msg("error while shutting down the HTTP server")
		}
	})

	log.Info().Str("address", r.Address).Msg("Anime Weaver API is listening")

	return appHTTP.Start(r.Address)
}
