package config

import (
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

const (
	// Sentinel seed value requesting a randomly chosen seed.
	RandomSeed = -1
)

// ModelConfig describes the diffusion pipeline and the prompt policy
// applied in front of it. All fields can be overridden from a YAML file
// passed with --model-config-file.
type ModelConfig struct {
	Model             string  `yaml:"model"`
	DefaultSteps      int     `yaml:"default_steps"`
	MaxSteps          int     `yaml:"max_steps"`
	MaxPromptLength   int     `yaml:"max_prompt_length"`
	MaxSequenceLength int     `yaml:"max_sequence_length"`
	GuidanceScale     float64 `yaml:"guidance_scale"`

	StyleSuffix      string `yaml:"style_suffix"`
	DefaultPrompt    string `yaml:"default_prompt"`
	PreviewImageFile string `yaml:"preview_image_file"`

	PromptSuggestions []string `yaml:"prompt_suggestions"`
}

func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Model:             "black-forest-labs/FLUX.1-schnell",
		DefaultSteps:      4,
		MaxSteps:          8,
		MaxPromptLength:   1000,
		MaxSequenceLength: 256,
		GuidanceScale:     0,
		StyleSuffix:       ", **anime style, vibrant colors, fantastical, cinematic lighting, highly detailed, studio quality, trending on ArtStation.**",
		DefaultPrompt:     "A serene girl standing under a cherry blossom tree",
		PromptSuggestions: []string{
			"An ancient samurai meditating by a waterfall",
			"A dragon soaring through cloudy skies",
			"A cozy cafe scene with anime characters",
		},
	}
}

// LoadModelConfig reads a YAML model config and overlays it on the
// defaults, so a partial file only overrides the fields it names.
func LoadModelConfig(path string) (ModelConfig, error) {
	cfg := DefaultModelConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read model config file %q: %w", path, err)
	}

	fileCfg := ModelConfig{}
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("cannot unmarshal model config file %q: %w", path, err)
	}

	if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *ModelConfig) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("max_steps must be at least 1, got %d", c.MaxSteps)
	}
	if c.DefaultSteps < 1 || c.DefaultSteps > c.MaxSteps {
		return fmt.Errorf("default_steps must be within [1,%d], got %d", c.MaxSteps, c.DefaultSteps)
	}
	if c.MaxPromptLength < 1 {
		return fmt.Errorf("max_prompt_length must be positive, got %d", c.MaxPromptLength)
	}
	return nil
}

// ClampSteps replaces out-of-range step counts with the default.
func (c *ModelConfig) ClampSteps(steps int) int {
	if steps < 1 || steps > c.MaxSteps {
		return c.DefaultSteps
	}
	return steps
}
