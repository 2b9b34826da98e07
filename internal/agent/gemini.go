package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	client       *genai.Client
	model        string
	systemPrompt string
	limiter      *rate.Limiter
	logger       *slog.Logger
}

type GeminiConfig struct {
	APIKey       string
	Model        string
	BaseURL      string // overrides the API endpoint, mainly for tests
	SystemPrompt string
	Timeout      time.Duration

	RequestsPerMinute int
	Burst             int
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPOptions.Timeout = genai.Ptr(cfg.Timeout)
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	g := &GeminiClient{
		client:       client,
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		limiter:      newLimiter(cfg.RequestsPerMinute, cfg.Burst),
		logger:       slog.Default().With("component", "gemini_client"),
	}
	g.logger.Debug("gemini client initialized", "model", model)
	return g, nil
}

func (g *GeminiClient) Name() string {
	return "gemini"
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	start := time.Now()

	if err := g.limiter.Wait(ctx); err != nil {
		return "", g.fail(0, fmt.Errorf("rate limit wait: %w", err))
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(params.Temperature),
		TopP:            genai.Ptr(params.TopP),
		MaxOutputTokens: int32(params.MaxTokens),
	}
	if params.TopK > 0 {
		config.TopK = genai.Ptr(float32(params.TopK))
	}
	if g.systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(g.systemPrompt, genai.RoleUser)
	}

	g.logger.Debug("sending gemini request",
		"model", g.model,
		"prompt_length", len(prompt),
		"temperature", params.Temperature)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		status := apiStatus(err)
		g.logger.Error("gemini request failed",
			"status_code", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return "", g.fail(status, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		g.logger.Warn("gemini response had no text")
		return "", g.fail(0, ErrEmptyResponse)
	}

	g.logger.Info("gemini request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(text))
	return text, nil
}

func (g *GeminiClient) fail(status int, cause error) error {
	return &GenerationError{Backend: g.Name(), StatusCode: status, Cause: cause}
}

// apiStatus extracts the HTTP status from a genai API error, or 0.
func apiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}
