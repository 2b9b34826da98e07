package core

import (
	"context"

	"github.com/vampirenirmal/comicscript/internal/approval"
	"github.com/vampirenirmal/comicscript/internal/domain/comic"
	"github.com/vampirenirmal/comicscript/internal/phase/storyboard"
)

// StoryWriter produces the per-stage candidates.
type StoryWriter interface {
	Story(ctx context.Context, description string) (string, error)
	Dialogue(ctx context.Context, story string, scene comic.Scene, index, total int) (string, error)
	ImagePrompt(ctx context.Context, story string, scene comic.Scene, index, total int) (string, error)
}

// SceneBreaker turns a story into exactly target scenes.
type SceneBreaker interface {
	Enforce(ctx context.Context, story string, target int) (storyboard.Breakdown, error)
}

// ApprovalGate puts one candidate in front of a reviewer.
type ApprovalGate interface {
	Review(ctx context.Context, stage, candidate string) (approval.Outcome, error)
}

// ScriptSaver persists a finished script and returns where it went.
type ScriptSaver interface {
	SaveScript(ctx context.Context, s *comic.Script) (string, error)
}

type ScriptSaverFunc func(ctx context.Context, s *comic.Script) (string, error)

func (f ScriptSaverFunc) SaveScript(ctx context.Context, s *comic.Script) (string, error) {
	return f(ctx, s)
}

// ApprovalRecorder counts gate decisions per stage kind.
type ApprovalRecorder interface {
	ApprovalDecided(stage, decision string)
}
