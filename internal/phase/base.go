// Package phase holds what every pipeline stage shares: the retry policy
// around generation calls and response cleanup.
package phase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vampirenirmal/comicscript/internal/agent"
)

// RetryConfig defines retry behavior for generation calls.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryConfig retries three times with a fixed pause.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	Delay:       8 * time.Second,
}

// RetryError is returned once every attempt has failed.
type RetryError struct {
	Stage    string
	Attempts int
	Cause    error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s: giving up after %d attempts: %v", e.Stage, e.Attempts, e.Cause)
}

func (e *RetryError) Unwrap() error {
	return e.Cause
}

type stageKey struct{}

// WithStage labels ctx with the stage issuing generation calls; the label
// appears in retry notices and errors.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey{}, stage)
}

// StageFrom returns the stage label carried by ctx, or "generation".
func StageFrom(ctx context.Context) string {
	if s, ok := ctx.Value(stageKey{}).(string); ok && s != "" {
		return s
	}
	return "generation"
}

// RetryObserver is told about every retry that is about to happen.
type RetryObserver interface {
	GenerationRetried(stage string)
}

// Retrying wraps a generator with bounded fixed-delay retries of temporary
// generation errors. Other errors are returned unchanged on first sight.
type Retrying struct {
	next     agent.Generator
	config   RetryConfig
	observer RetryObserver
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

type RetryOption func(*Retrying)

func WithLogger(logger *slog.Logger) RetryOption {
	return func(r *Retrying) {
		r.logger = logger
	}
}

func WithObserver(o RetryObserver) RetryOption {
	return func(r *Retrying) {
		r.observer = o
	}
}

func NewRetrying(next agent.Generator, config RetryConfig, opts ...RetryOption) *Retrying {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	r := &Retrying{
		next:   next,
		config: config,
		logger: slog.Default().With("component", "retry"),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Retrying) Generate(ctx context.Context, prompt string, params agent.Params) (string, error) {
	stage := StageFrom(ctx)
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		text, err := r.next.Generate(ctx, prompt, params)
		if err == nil {
			if attempt > 1 {
				r.logger.Info("generation succeeded after retries",
					"stage", stage,
					"attempt", attempt)
			}
			return text, nil
		}
		lastErr = err

		if !agent.IsTemporary(err) {
			return "", err
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		r.logger.Warn("generation failed, retrying",
			"stage", stage,
			"attempt", attempt,
			"max_attempts", r.config.MaxAttempts,
			"delay", r.config.Delay,
			"error", err)
		if r.observer != nil {
			r.observer.GenerationRetried(stage)
		}

		if err := r.sleep(ctx, r.config.Delay); err != nil {
			return "", err
		}
	}

	r.logger.Error("generation failed after all retries",
		"stage", stage,
		"attempts", r.config.MaxAttempts,
		"error", lastErr)

	return "", &RetryError{
		Stage:    stage,
		Attempts: r.config.MaxAttempts,
		Cause:    lastErr,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
