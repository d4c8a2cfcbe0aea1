package config

import (
	"context"
	"regexp"
	"time"
)

type ApplicationConfig struct {
	Context          context.Context
	APIAddress       string
	UploadLimitMB    int
	Debug            bool
	CORS             bool
	CSRF             bool
	CORSAllowOrigins string
	ApiKeys          []string
	MachineTag       string

	ModelConfigFile string

	InferenceURL     string
	InferenceToken   string
	InferenceTimeout time.Duration

	GeneratedContentDir           string
	DynamicConfigsDir             string
	DynamicConfigsDirPollInterval time.Duration

	DisableWebUI                       bool
	DisableMetrics                     bool
	OpaqueErrors                       bool
	UseSubtleKeyComparison             bool
	DisableApiKeyRequirementForHttpGet bool
	HttpGetExemptedEndpoints           []*regexp.Regexp
}

type AppOption func(*ApplicationConfig)

func NewApplicationConfig(o ...AppOption) *ApplicationConfig {
	opt := &ApplicationConfig{
		Context:          context.Background(),
		APIAddress:       ":8080",
		UploadLimitMB:    15,
		InferenceTimeout: 10 * time.Minute,
	}
	for _, oo := range o {
		oo(opt)
	}
	return opt
}

func WithContext(ctx context.Context) AppOption {
	return func(o *ApplicationConfig) {
		o.Context = ctx
	}
}

func WithAPIAddress(address string) AppOption {
	return func(o *ApplicationConfig) {
		o.APIAddress = address
	}
}

func WithModelConfigFile(path string) AppOption {
	return func(o *ApplicationConfig) {
		o.ModelConfigFile = path
	}
}

func WithInferenceURL(url string) AppOption {
	return func(o *ApplicationConfig) {
		o.InferenceURL = url
	}
}

func WithInferenceToken(token string) AppOption {
	return func(o *ApplicationConfig) {
		o.InferenceToken = token
	}
}

func WithInferenceTimeout(d time.Duration) AppOption {
	return func(o *ApplicationConfig) {
		if d > 0 {
			o.InferenceTimeout = d
		}
	}
}

func WithCors(b bool) AppOption {
	return func(o *ApplicationConfig) {
		o.CORS = b
	}
}

func WithCorsAllowOrigins(b string) AppOption {
	return func(o *ApplicationConfig) {
		o.CORSAllowOrigins = b
	}
}

func WithCsrf(b bool) AppOption {
	return func(o *ApplicationConfig) {
		o.CSRF = b
	}
}

func WithUploadLimitMB(limit int) AppOption {
	return func(o *ApplicationConfig) {
		o.UploadLimitMB = limit
	}
}

func WithApiKeys(apiKeys []string) AppOption {
	return func(o *ApplicationConfig) {
		o.ApiKeys = apiKeys
	}
}

func WithMachineTag(tag string) AppOption {
	return func(o *ApplicationConfig) {
		o.MachineTag = tag
	}
}

func WithGeneratedContentDir(dir string) AppOption {
	return func(o *ApplicationConfig) {
		o.GeneratedContentDir = dir
	}
}

func WithDynamicConfigDir(dir string) AppOption {
	return func(o *ApplicationConfig) {
		o.DynamicConfigsDir = dir
	}
}

func WithDynamicConfigDirPollInterval(interval time.Duration) AppOption {
	return func(o *ApplicationConfig) {
		o.DynamicConfigsDirPollInterval = interval
	}
}

func WithDebug(debug bool) AppOption {
	return func(o *ApplicationConfig) {
		o.Debug = debug
	}
}

func WithOpaqueErrors(opaque bool) AppOption {
	return func(o *ApplicationConfig) {
		o.OpaqueErrors = opaque
	}
}

func WithSubtleKeyComparison(subtle bool) AppOption {
	return func(o *ApplicationConfig) {
		o.UseSubtleKeyComparison = subtle
	}
}

func WithDisableApiKeyRequirementForHttpGet(disabled bool) AppOption {
	return func(o *ApplicationConfig) {
		o.DisableApiKeyRequirementForHttpGet = disabled
	}
}

func WithHttpGetExemptedEndpoints(endpoints []string) AppOption {
	return func(o *ApplicationConfig) {
		o.HttpGetExemptedEndpoints = []*regexp.Regexp{}
		for _, epr := range endpoints {
			r, err := regexp.Compile(epr)
			if err == nil && r != nil {
				o.HttpGetExemptedEndpoints = append(o.HttpGetExemptedEndpoints, r)
			}
		}
	}
}

var DisableWebUI AppOption = func(o *ApplicationConfig) {
	o.DisableWebUI = true
}

var DisableMetricsEndpoint AppOption = func(o *ApplicationConfig) {
	o.DisableMetrics = true
}
