package storyboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vampirenirmal/comicscript/internal/agent"
	"github.com/vampirenirmal/comicscript/internal/domain/comic"
	"github.com/vampirenirmal/comicscript/internal/phase"
	"github.com/vampirenirmal/comicscript/internal/prompt"
)

// ErrInvalidTarget is returned for a scene count below one.
var ErrInvalidTarget = errors.New("scene count must be at least 1")

// Resolution names the step that produced the exact scene count.
type Resolution string

const (
	ResolvedFirstAttempt Resolution = "first_attempt"
	ResolvedCorrection   Resolution = "correction"
	ResolvedFallback     Resolution = "fallback"
)

// Breakdown is a scene list of exactly the requested length.
type Breakdown struct {
	Scenes []comic.Scene
	// Raw is the text a reviewer sees: the model output that parsed to the
	// right count, or the formatted fallback split.
	Raw        string
	Resolution Resolution
}

// ResolutionObserver is told how each breakdown was resolved.
type ResolutionObserver interface {
	BreakdownResolved(resolution string)
}

// Enforcer asks the model for a scene breakdown, asks once more with a
// correction if the count is wrong, and otherwise splits the story itself.
type Enforcer struct {
	gen      agent.Generator
	prompts  *prompt.Library
	params   agent.Params
	observer ResolutionObserver
	logger   *slog.Logger
}

type EnforcerOption func(*Enforcer)

func WithResolutionObserver(o ResolutionObserver) EnforcerOption {
	return func(e *Enforcer) {
		e.observer = o
	}
}

func NewEnforcer(gen agent.Generator, prompts *prompt.Library, params agent.Params, opts ...EnforcerOption) *Enforcer {
	e := &Enforcer{
		gen:     gen,
		prompts: prompts,
		params:  params,
		logger:  slog.Default().With("component", "scene_enforcer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type enforceState int

const (
	stateFirstAttempt enforceState = iota
	stateCorrection
	stateFallback
	stateDone
)

type scenesPrompt struct {
	Story string
	Count int
}

type correctionPrompt struct {
	Story    string
	Count    int
	Got      int
	Previous string
}

// Enforce returns exactly target scenes for story. Parse mismatches are
// never errors; only generation failures and a bad target are.
func (e *Enforcer) Enforce(ctx context.Context, story string, target int) (Breakdown, error) {
	if target < 1 {
		return Breakdown{}, fmt.Errorf("enforcing %d scenes: %w", target, ErrInvalidTarget)
	}

	var (
		result Breakdown
		raw    string
		scenes []comic.Scene
	)

	for state := stateFirstAttempt; state != stateDone; {
		switch state {
		case stateFirstAttempt:
			p, err := e.prompts.Render(prompt.Scenes, scenesPrompt{Story: story, Count: target})
			if err != nil {
				return Breakdown{}, err
			}
			raw, scenes, err = e.attempt(ctx, p)
			if err != nil {
				return Breakdown{}, err
			}
			if len(scenes) == target {
				result = Breakdown{Scenes: scenes, Raw: raw, Resolution: ResolvedFirstAttempt}
				state = stateDone
				continue
			}
			e.logger.Warn("scene count mismatch, asking for a correction",
				"want", target,
				"got", len(scenes))
			state = stateCorrection

		case stateCorrection:
			p, err := e.prompts.Render(prompt.ScenesRetry, correctionPrompt{
				Story:    story,
				Count:    target,
				Got:      len(scenes),
				Previous: raw,
			})
			if err != nil {
				return Breakdown{}, err
			}
			raw, scenes, err = e.attempt(ctx, p)
			if err != nil {
				return Breakdown{}, err
			}
			if len(scenes) == target {
				result = Breakdown{Scenes: scenes, Raw: raw, Resolution: ResolvedCorrection}
				state = stateDone
				continue
			}
			e.logger.Warn("scene count still wrong, splitting the story by sentences",
				"want", target,
				"got", len(scenes))
			state = stateFallback

		case stateFallback:
			fallback := FallbackSplit(story, target)
			result = Breakdown{
				Scenes:     fallback,
				Raw:        comic.FormatScenes(fallback),
				Resolution: ResolvedFallback,
			}
			state = stateDone
		}
	}

	if e.observer != nil {
		e.observer.BreakdownResolved(string(result.Resolution))
	}
	e.logger.Info("scene breakdown resolved",
		"scenes", len(result.Scenes),
		"resolution", result.Resolution)
	return result, nil
}

func (e *Enforcer) attempt(ctx context.Context, p string) (string, []comic.Scene, error) {
	e.logger.Debug("requesting scene breakdown", "prompt_length", len(p))

	text, err := e.gen.Generate(ctx, p, e.params)
	if err != nil {
		return "", nil, fmt.Errorf("generating scene breakdown: %w", err)
	}
	text = phase.CleanResponse(text)
	return text, ParseScenes(text), nil
}
