package backend

import (
	"context"
	"math/rand"

	"github.com/flux-anime/weaver/core/config"
)

// GenerationResult is the outcome of a single text-to-image run.
type GenerationResult struct {
	Image string
	Seed  int64
	Steps int
}

// ResolveSeed replaces the random-seed sentinel with a concrete
// uniformly distributed 32-bit value. Any other value passes through.
func ResolveSeed(seed int64) int64 {
	if seed == config.RandomSeed {
		return rand.Int63n(1 << 32)
	}
	return seed
}

// ImageGenerationFunc performs a generation run against the remote
// pipeline. It is a variable so tests and alternative transports can
// stub it out.
var ImageGenerationFunc = func(ctx context.Context, client *InferenceClient, prompt string, seed int64, steps int) (*GenerationResult, error) {
	return client.Generate(ctx, prompt, seed, steps)
}
