package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/vampirenirmal/comicscript/internal/agent"
	"github.com/vampirenirmal/comicscript/internal/approval"
	"github.com/vampirenirmal/comicscript/internal/config"
	"github.com/vampirenirmal/comicscript/internal/core"
	"github.com/vampirenirmal/comicscript/internal/metrics"
	"github.com/vampirenirmal/comicscript/internal/phase"
	"github.com/vampirenirmal/comicscript/internal/phase/storyboard"
	"github.com/vampirenirmal/comicscript/internal/prompt"
	"github.com/vampirenirmal/comicscript/internal/storage"
)

// app holds the components shared by the commands that generate text.
type app struct {
	cfg      *config.Config
	registry *prometheus.Registry
	metrics  *metrics.Collectors
	gen      agent.Generator
	prompts  *prompt.Library
	writer   *storyboard.Writer
	enforcer *storyboard.Enforcer
	store    *storage.ScriptStore
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	backend, err := agent.NewFromConfig(ctx, cfg, m)
	if err != nil {
		return nil, fmt.Errorf("creating %s backend: %w", cfg.AI.Provider, err)
	}
	gen := phase.NewRetrying(backend,
		phase.RetryConfig{MaxAttempts: cfg.Limits.MaxAttempts, Delay: cfg.Limits.RetryDelay},
		phase.WithObserver(m),
	)

	prompts := prompt.NewLibrary(cfg.Paths.PromptsDir)
	if err := prompts.Preload(prompt.Names()...); err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	store, err := newScriptStore(cfg)
	if err != nil {
		return nil, err
	}

	params := agent.ParamsFromConfig(cfg)
	return &app{
		cfg:      cfg,
		registry: registry,
		metrics:  m,
		gen:      gen,
		prompts:  prompts,
		writer: storyboard.NewWriter(gen, prompts, params,
			storyboard.WithStoryMaxWords(cfg.Pipeline.StoryMaxWords),
			storyboard.WithStyleHint(cfg.Pipeline.StyleHint),
		),
		enforcer: storyboard.NewEnforcer(gen, prompts, params, storyboard.WithResolutionObserver(m)),
		store:    store,
	}, nil
}

// orchestrator builds a pipeline whose stages are reviewed by reviewer.
func (a *app) orchestrator(reviewer approval.Reviewer, opts ...core.Option) *core.Orchestrator {
	revision := agent.ParamsFromConfig(a.cfg).WithTemperature(a.cfg.AI.RevisionTemperature)
	gate := approval.NewGate(reviewer, a.gen, a.prompts, revision)

	opts = append([]core.Option{
		core.WithSceneCount(a.cfg.Pipeline.SceneCount),
		core.WithConcurrency(a.cfg.Pipeline.Concurrency),
		core.WithApprovalRecorder(a.metrics),
	}, opts...)
	return core.New(a.writer, a.enforcer, gate, opts...)
}

func newScriptStore(cfg *config.Config) (*storage.ScriptStore, error) {
	naming, err := storage.ParseRunNaming(cfg.Paths.RunNaming)
	if err != nil {
		return nil, err
	}
	return storage.NewScriptStore(storage.NewFileSystem(cfg.Paths.OutputDir), naming), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderMarkdown renders md for a terminal and returns it unchanged otherwise.
func renderMarkdown(w io.Writer, md string) string {
	if !isTerminal(w) {
		return md
	}
	render, err := approval.MarkdownRenderer()
	if err != nil {
		return md
	}
	out, err := render(md)
	if err != nil {
		return md
	}
	return out
}
