package agent

import "context"

// Generator turns a prompt into text. Implementations never retry on their own;
// retry policy belongs to the caller.
type Generator interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// Params are the sampling parameters passed with every request.
type Params struct {
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	TopK        int     `json:"top_k"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultParams returns the sampling parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		Temperature: 0.8,
		TopP:        0.9,
		TopK:        40,
		MaxTokens:   2048,
	}
}

// WithTemperature returns a copy of p using temperature t.
func (p Params) WithTemperature(t float32) Params {
	p.Temperature = t
	return p
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string, params Params) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	return f(ctx, prompt, params)
}
