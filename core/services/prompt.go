package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flux-anime/weaver/core/config"
)

var (
	ErrEmptyPrompt = errors.New("prompt must not be empty")
)

// PromptProcessor validates user prompts and applies the configured
// style suffix before they reach the diffusion pipeline.
type PromptProcessor struct {
	modelConfig config.ModelConfig
}

func NewPromptProcessor(modelConfig config.ModelConfig) *PromptProcessor {
	return &PromptProcessor{modelConfig: modelConfig}
}

func (p *PromptProcessor) Validate(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	if len(prompt) > p.modelConfig.MaxPromptLength {
		return fmt.Errorf("prompt exceeds maximum length of %d characters", p.modelConfig.MaxPromptLength)
	}
	return nil
}

// Enhance appends the style suffix to the trimmed user prompt.
func (p *PromptProcessor) Enhance(prompt string) string {
	return strings.TrimSpace(prompt) + p.modelConfig.StyleSuffix
}

// TruncatePrompt shortens a prompt for echoing back in API responses
// and logs. Truncation counts runes so multi-byte prompts are not cut
// mid-character.
func TruncatePrompt(prompt string, max int) string {
	runes := []rune(prompt)
	if len(runes) <= max {
		return prompt
	}
	return string(runes[:max]) + "..."
}
