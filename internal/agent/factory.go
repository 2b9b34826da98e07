package agent

import (
	"context"
	"fmt"

	"github.com/vampirenirmal/comicscript/internal/config"
	"github.com/vampirenirmal/comicscript/internal/metrics"
)

// NewFromConfig builds the configured backend, instruments it and, when a
// cache TTL is set, puts a response cache in front of it.
func NewFromConfig(ctx context.Context, cfg *config.Config, m *metrics.Collectors) (Generator, error) {
	var backend Generator

	switch cfg.AI.Provider {
	case config.ProviderMock:
		backend = NewMockClient()
	case config.ProviderOpenAI:
		backend = NewClient(cfg.AI.APIKey,
			WithAPIConfig(cfg.AI.BaseURL, cfg.AI.Model),
			WithSystemPrompt(cfg.AI.SystemPrompt),
			WithTimeout(cfg.AI.Timeout),
			WithRateLimit(cfg.Limits.RateLimit.RequestsPerMinute, cfg.Limits.RateLimit.BurstSize),
		)
	case config.ProviderGemini:
		g, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:            cfg.AI.APIKey,
			Model:             cfg.AI.Model,
			BaseURL:           cfg.AI.BaseURL,
			SystemPrompt:      cfg.AI.SystemPrompt,
			Timeout:           cfg.AI.Timeout,
			RequestsPerMinute: cfg.Limits.RateLimit.RequestsPerMinute,
			Burst:             cfg.Limits.RateLimit.BurstSize,
		})
		if err != nil {
			return nil, err
		}
		backend = g
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.AI.Provider)
	}

	gen := Generator(NewInstrumentedGenerator(backend, m))
	if cfg.Limits.CacheTTL > 0 {
		gen = NewCachingGenerator(gen, cfg.Limits.CacheTTL)
	}
	return gen, nil
}

// ParamsFromConfig returns the sampling parameters for normal stage calls.
func ParamsFromConfig(cfg *config.Config) Params {
	g := cfg.AI.Generation
	return Params{
		Temperature: g.Temperature,
		TopP:        g.TopP,
		TopK:        g.TopK,
		MaxTokens:   g.MaxTokens,
	}
}
