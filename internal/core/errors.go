package core

import "fmt"

// Stage kinds. They label logs, metrics and the retry policy.
const (
	StageStory       = "story"
	StageScenes      = "scenes"
	StageDialogue    = "dialogue"
	StageImagePrompt = "image_prompt"
	StageSave        = "save"
)

// StageError identifies the stage, and for per-scene stages the 1-based
// scene, at which a run stopped.
type StageError struct {
	Stage string
	Scene int
	Cause error
}

func (e *StageError) Error() string {
	if e.Scene > 0 {
		return fmt.Sprintf("stage %s (scene %d) failed: %v", e.Stage, e.Scene, e.Cause)
	}
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
