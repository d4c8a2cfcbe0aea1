package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/flux-anime/weaver/core/config"
)

// InferenceRequest is the JSON payload posted to the remote diffusion
// endpoint.
type InferenceRequest struct {
	Prompt            string  `json:"prompt"`
	Steps             int     `json:"steps"`
	Seed              int64   `json:"seed"`
	MaxSequenceLength int     `json:"max_sequence_length"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

// InferenceResponse is the JSON payload returned by the remote
// diffusion endpoint. Image carries the base64-encoded PNG.
type InferenceResponse struct {
	Success bool   `json:"success"`
	Image   string `json:"image"`
	Seed    int64  `json:"seed"`
	Error   string `json:"error,omitempty"`
}

// InferenceClient talks to the serverless GPU function hosting the
// pretrained pipeline. It owns no model state: warm starts, batching
// and GPU memory are all the remote platform's problem.
type InferenceClient struct {
	url        string
	token      string
	httpClient *http.Client

	modelConfig config.ModelConfig
}

func NewInferenceClient(appConfig *config.ApplicationConfig, modelConfig config.ModelConfig) *InferenceClient {
	return &InferenceClient{
		url:   appConfig.InferenceURL,
		token: appConfig.InferenceToken,
		httpClient: &http.Client{
			Timeout: appConfig.InferenceTimeout,
		},
		modelConfig: modelConfig,
	}
}

// Generate submits a prompt to the remote pipeline. The seed must
// already be resolved and the step count clamped by the caller.
func (c *InferenceClient) Generate(ctx context.Context, prompt string, seed int64, steps int) (*GenerationResult, error) {
	if c.url == "" {
		return nil, fmt.Errorf("no inference endpoint configured")
	}

	payload, err := json.Marshal(InferenceRequest{
		Prompt:            prompt,
		Steps:             steps,
		Seed:              seed,
		MaxSequenceLength: c.modelConfig.MaxSequenceLength,
		GuidanceScale:     c.modelConfig.GuidanceScale,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug().Str("model", c.modelConfig.Model).Int("steps", steps).Int64("seed", seed).Msg("calling remote inference endpoint")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading inference response: %w", err)
	}

	var out InferenceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("inference endpoint returned status %d with unparseable body", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK || !out.Success {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("inference endpoint returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s", msg)
	}

	if out.Image == "" {
		return nil, fmt.Errorf("inference endpoint returned an empty image")
	}

	usedSeed := out.Seed
	if usedSeed == 0 && seed != 0 {
		usedSeed = seed
	}

	log.Debug().Int("size", len(out.Image)).Int64("seed", usedSeed).Msg("image generated")

	return &GenerationResult{
		Image: out.Image,
		Seed:  usedSeed,
		Steps: steps,
	}, nil
}
