package storyboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vampirenirmal/comicscript/internal/agent"
	"github.com/vampirenirmal/comicscript/internal/domain/comic"
	"github.com/vampirenirmal/comicscript/internal/phase"
	"github.com/vampirenirmal/comicscript/internal/prompt"
)

const (
	DefaultStoryMaxWords = 220
	DefaultStyleHint     = "dynamic comic, cinematic panels, high contrast"
)

var ErrEmptyDescription = errors.New("story description is empty")

// Writer generates the story, per-scene dialogue and per-scene image prompts.
// Prompts depend only on their arguments and the writer's fixed settings.
type Writer struct {
	gen      agent.Generator
	prompts  *prompt.Library
	params   agent.Params
	maxWords int
	style    string
	logger   *slog.Logger
}

type WriterOption func(*Writer)

func WithStoryMaxWords(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.maxWords = n
		}
	}
}

func WithStyleHint(style string) WriterOption {
	return func(w *Writer) {
		if style != "" {
			w.style = style
		}
	}
}

func NewWriter(gen agent.Generator, prompts *prompt.Library, params agent.Params, opts ...WriterOption) *Writer {
	w := &Writer{
		gen:      gen,
		prompts:  prompts,
		params:   params,
		maxWords: DefaultStoryMaxWords,
		style:    DefaultStyleHint,
		logger:   slog.Default().With("component", "storyboard_writer"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type storyPrompt struct {
	Description string
	MaxWords    int
}

type scenePrompt struct {
	Story string
	Scene comic.Scene
	Index int // 1-based
	Total int
	Style string
}

// Story writes a short story from the user's idea.
func (w *Writer) Story(ctx context.Context, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", ErrEmptyDescription
	}

	p, err := w.prompts.Render(prompt.Story, storyPrompt{Description: description, MaxWords: w.maxWords})
	if err != nil {
		return "", err
	}
	return w.generate(ctx, "story", p)
}

// Dialogue writes the dialogue for scene index (1-based) of total.
func (w *Writer) Dialogue(ctx context.Context, story string, scene comic.Scene, index, total int) (string, error) {
	p, err := w.prompts.Render(prompt.Dialogue, scenePrompt{
		Story: story,
		Scene: scene,
		Index: index,
		Total: total,
	})
	if err != nil {
		return "", err
	}
	return w.generate(ctx, fmt.Sprintf("dialogue %d", index), p)
}

// ImagePrompt writes the image generation prompt for scene index (1-based),
// ending with the configured style hint.
func (w *Writer) ImagePrompt(ctx context.Context, story string, scene comic.Scene, index, total int) (string, error) {
	p, err := w.prompts.Render(prompt.ImagePrompt, scenePrompt{
		Story: story,
		Scene: scene,
		Index: index,
		Total: total,
		Style: w.style,
	})
	if err != nil {
		return "", err
	}
	return w.generate(ctx, fmt.Sprintf("image prompt %d", index), p)
}

func (w *Writer) generate(ctx context.Context, what, p string) (string, error) {
	w.logger.Debug("generating", "what", what, "prompt_length", len(p))

	text, err := w.gen.Generate(ctx, p, w.params)
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", what, err)
	}
	return phase.CleanResponse(text), nil
}
