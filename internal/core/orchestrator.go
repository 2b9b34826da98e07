package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vampirenirmal/comicscript/internal/agent"
	"github.com/vampirenirmal/comicscript/internal/approval"
	"github.com/vampirenirmal/comicscript/internal/domain/comic"
	"github.com/vampirenirmal/comicscript/internal/phase"
	"github.com/vampirenirmal/comicscript/internal/phase/storyboard"
)

const DefaultSceneCount = 6

// Orchestrator runs the four stages in order, each behind the approval gate:
// story, scene breakdown, dialogue per scene, image prompt per scene.
// It holds no per-run state, so one instance may serve concurrent runs.
type Orchestrator struct {
	writer      StoryWriter
	breaker     SceneBreaker
	gate        ApprovalGate
	saver       ScriptSaver
	recorder    ApprovalRecorder
	sceneCount  int
	concurrency int
	logger      *slog.Logger
}

type Option func(*Orchestrator)

func WithSceneCount(n int) Option {
	return func(o *Orchestrator) {
		o.sceneCount = n
	}
}

// WithConcurrency lets per-scene candidates be generated n at a time.
// Review still happens one scene at a time, in order.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func WithSaver(s ScriptSaver) Option {
	return func(o *Orchestrator) {
		o.saver = s
	}
}

func WithApprovalRecorder(r ApprovalRecorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func New(writer StoryWriter, breaker SceneBreaker, gate ApprovalGate, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		writer:      writer,
		breaker:     breaker,
		gate:        gate,
		sceneCount:  DefaultSceneCount,
		concurrency: 1,
		logger:      slog.Default().With("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run turns a story idea into a complete script. On failure it returns a
// *StageError and no script, except when only the final save fails: the
// completed script is then returned together with the error.
func (o *Orchestrator) Run(ctx context.Context, description string) (*comic.Script, error) {
	if o.sceneCount < 1 {
		return nil, &StageError{Stage: StageScenes, Cause: storyboard.ErrInvalidTarget}
	}

	s := comic.NewScript(uuid.New().String(), description, o.sceneCount)
	logger := o.logger.With("run_id", s.RunID)
	logger.Info("run started", "scenes", o.sceneCount, "concurrency", o.concurrency)

	if err := o.storyStage(ctx, s); err != nil {
		return nil, err
	}
	logger.Info("stage complete", "stage", StageStory)

	if err := o.scenesStage(ctx, s, logger); err != nil {
		return nil, err
	}
	logger.Info("stage complete", "stage", StageScenes)

	if err := o.perSceneStage(ctx, s, StageDialogue, "DIALOGUE (Scene %d)", o.writer.Dialogue, s.AddDialogue); err != nil {
		return nil, err
	}
	logger.Info("stage complete", "stage", StageDialogue)

	if err := o.perSceneStage(ctx, s, StageImagePrompt, "IMAGE PROMPT (Scene %d)", o.writer.ImagePrompt, s.AddImagePrompt); err != nil {
		return nil, err
	}
	logger.Info("stage complete", "stage", StageImagePrompt)

	if o.saver != nil {
		dir, err := o.saver.SaveScript(ctx, s)
		if err != nil {
			logger.Error("saving script failed", "error", err)
			return s, &StageError{Stage: StageSave, Cause: err}
		}
		logger.Info("script saved", "dir", dir)
	}

	logger.Info("run complete")
	return s, nil
}

func (o *Orchestrator) storyStage(ctx context.Context, s *comic.Script) error {
	ctx = phase.WithStage(ctx, StageStory)

	candidate, err := o.writer.Story(ctx, s.Description)
	if err != nil {
		return &StageError{Stage: StageStory, Cause: err}
	}
	out, err := o.review(ctx, StageStory, "STORY GENERATION", candidate)
	if err != nil {
		return &StageError{Stage: StageStory, Cause: err}
	}
	if err := s.SetStory(out.Text); err != nil {
		return &StageError{Stage: StageStory, Cause: err}
	}
	return nil
}

func (o *Orchestrator) scenesStage(ctx context.Context, s *comic.Script, logger *slog.Logger) error {
	ctx = phase.WithStage(ctx, StageScenes)

	bd, err := o.breaker.Enforce(ctx, s.Story, o.sceneCount)
	if err != nil {
		return &StageError{Stage: StageScenes, Cause: err}
	}
	out, err := o.review(ctx, StageScenes, "SCENE BREAKDOWN", bd.Raw)
	if err != nil {
		return &StageError{Stage: StageScenes, Cause: err}
	}

	scenes := bd.Scenes
	if out.Decision == approval.Revised {
		scenes = storyboard.ParseScenes(out.Text)
		if len(scenes) != o.sceneCount {
			// The model is asked again, past any response cache, and the
			// result is used without a second review.
			logger.Warn("revised breakdown has wrong scene count, breaking down again",
				"got", len(scenes), "want", o.sceneCount)
			bd, err = o.breaker.Enforce(agent.BypassCache(ctx), s.Story, o.sceneCount)
			if err != nil {
				return &StageError{Stage: StageScenes, Cause: err}
			}
			scenes = bd.Scenes
		}
	}

	if err := s.SetScenes(scenes); err != nil {
		return &StageError{Stage: StageScenes, Cause: err}
	}
	return nil
}

type sceneWriter func(ctx context.Context, story string, scene comic.Scene, index, total int) (string, error)

func (o *Orchestrator) perSceneStage(ctx context.Context, s *comic.Script, kind, header string, write sceneWriter, add func(string) error) error {
	ctx = phase.WithStage(ctx, kind)
	total := len(s.Scenes)

	var candidates []string
	if o.concurrency > 1 && total > 1 {
		var err error
		if candidates, err = o.pregenerate(ctx, s, kind, write); err != nil {
			return err
		}
	}

	for i, sc := range s.Scenes {
		index := i + 1

		var candidate string
		if candidates != nil {
			candidate = candidates[i]
		} else {
			var err error
			if candidate, err = write(ctx, s.Story, sc, index, total); err != nil {
				return &StageError{Stage: kind, Scene: index, Cause: err}
			}
		}

		out, err := o.review(ctx, kind, fmt.Sprintf(header, index), candidate)
		if err != nil {
			return &StageError{Stage: kind, Scene: index, Cause: err}
		}
		if err := add(out.Text); err != nil {
			return &StageError{Stage: kind, Scene: index, Cause: err}
		}
	}
	return nil
}

// pregenerate writes every scene's candidate up front, bounded by the
// configured concurrency.
func (o *Orchestrator) pregenerate(ctx context.Context, s *comic.Script, kind string, write sceneWriter) ([]string, error) {
	total := len(s.Scenes)
	out := make([]string, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, sc := range s.Scenes {
		g.Go(func() error {
			text, err := write(gctx, s.Story, sc, i+1, total)
			if err != nil {
				return &StageError{Stage: kind, Scene: i + 1, Cause: err}
			}
			out[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *Orchestrator) review(ctx context.Context, kind, header, candidate string) (approval.Outcome, error) {
	out, err := o.gate.Review(ctx, header, candidate)
	if err != nil {
		return approval.Outcome{}, err
	}
	if o.recorder != nil {
		o.recorder.ApprovalDecided(kind, string(out.Decision))
	}
	return out, nil
}
