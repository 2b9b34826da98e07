package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL      = "https://api.sambanova.ai/v1"
	DefaultModel        = "ALLaM-7B-Instruct-preview"
	DefaultSystemPrompt = "You are a professional comic book writer and visual storyteller."
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey       string
	baseURL      string
	model        string
	systemPrompt string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *slog.Logger
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		transport := c.httpClient.Transport
		c.httpClient = &http.Client{
			Timeout:   timeout,
			Transport: transport,
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit limits requests to requestsPerMinute with the given burst.
// A non-positive rate disables limiting.
func WithRateLimit(requestsPerMinute int, burst int) Option {
	return func(c *Client) {
		c.limiter = newLimiter(requestsPerMinute, burst)
	}
}

func WithAPIConfig(baseURL, model string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
		if model != "" {
			c.model = model
		}
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(c *Client) {
		c.systemPrompt = prompt
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func newLimiter(requestsPerMinute, burst int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
}

func NewClient(apiKey string, opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		model:        DefaultModel,
		systemPrompt: DefaultSystemPrompt,
		httpClient: &http.Client{
			Timeout:   120 * time.Second,
			Transport: transport,
		},
		limiter: newLimiter(60, 1),
		logger:  slog.Default().With("component", "chat_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger.Debug("chat client initialized",
		"base_url", c.baseURL,
		"model", c.model,
		"rate_limit", fmt.Sprintf("%v req/s", c.limiter.Limit()))

	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate sends one chat completion request. TopK is not part of the chat
// completions schema and is ignored.
func (c *Client) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	requestID := fmt.Sprintf("chat_%d", time.Now().UnixNano())
	startTime := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", c.fail(0, fmt.Errorf("rate limit wait: %w", err))
	}

	messages := make([]chatMessage, 0, 2)
	if c.systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: c.systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: params.Temperature,
		TopP:        params.TopP,
		MaxTokens:   params.MaxTokens,
	})
	if err != nil {
		return "", c.fail(0, permanent(fmt.Errorf("marshaling request: %w", err)))
	}

	c.logger.Debug("sending chat request",
		"request_id", requestID,
		"model", c.model,
		"prompt_length", len(prompt),
		"temperature", params.Temperature)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", c.fail(0, permanent(fmt.Errorf("creating request: %w", err)))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("chat HTTP request failed",
			"request_id", requestID,
			"duration_ms", time.Since(startTime).Milliseconds(),
			"error", err)
		return "", c.fail(0, fmt.Errorf("making request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(0, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("chat API error",
			"request_id", requestID,
			"status_code", resp.StatusCode,
			"response_body", truncate(string(respBody), 512))
		return "", c.fail(resp.StatusCode, fmt.Errorf("API error: %s", truncate(string(respBody), 512)))
	}

	var response chatResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", c.fail(resp.StatusCode, permanent(fmt.Errorf("parsing response: %w", err)))
	}

	var text string
	if len(response.Choices) > 0 {
		text = strings.TrimSpace(response.Choices[0].Message.Content)
	}
	if text == "" {
		c.logger.Warn("chat response had no text", "request_id", requestID)
		return "", c.fail(resp.StatusCode, ErrEmptyResponse)
	}

	c.logger.Info("chat request completed",
		"request_id", requestID,
		"duration_ms", time.Since(startTime).Milliseconds(),
		"prompt_tokens", response.Usage.PromptTokens,
		"completion_tokens", response.Usage.CompletionTokens,
		"response_length", len(text))

	return text, nil
}

// Name identifies the backend in errors and metrics.
func (c *Client) Name() string {
	return "openai"
}

func (c *Client) fail(status int, cause error) error {
	return &GenerationError{Backend: c.Name(), StatusCode: status, Cause: cause}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
