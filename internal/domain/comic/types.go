package comic

import (
	"errors"
	"fmt"
)

// ErrStageOrder is returned when a Script field is written out of order or twice.
var ErrStageOrder = errors.New("script stage written out of order")

// Scene is one structured story unit; it maps to one comic panel.
// Characters is kept as free text because models format it inconsistently.
type Scene struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Characters  string `json:"characters"`
}

// Script is the state accumulated by a single pipeline run.
// Fields are only ever added: each stage sets its own field once and never
// rewrites an earlier one. Dialogues and ImagePrompts are index-aligned with Scenes.
type Script struct {
	RunID        string   `json:"run_id"`
	Description  string   `json:"description"`
	Story        string   `json:"story"`
	Scenes       []Scene  `json:"scenes"`
	Dialogues    []string `json:"dialogues"`
	ImagePrompts []string `json:"image_prompts"`

	target int
}

// NewScript creates an empty script for a run that must end with sceneCount scenes.
func NewScript(runID, description string, sceneCount int) *Script {
	return &Script{
		RunID:       runID,
		Description: description,
		target:      sceneCount,
	}
}

// SceneCount returns the number of scenes the script was created for.
func (s *Script) SceneCount() int {
	return s.target
}

func (s *Script) SetStory(story string) error {
	if s.Story != "" || len(s.Scenes) > 0 {
		return fmt.Errorf("setting story: %w", ErrStageOrder)
	}
	s.Story = story
	return nil
}

// SetScenes stores the scene breakdown. The slice length must equal the
// scene count the script was created with.
func (s *Script) SetScenes(scenes []Scene) error {
	if len(s.Scenes) > 0 || len(s.Dialogues) > 0 {
		return fmt.Errorf("setting scenes: %w", ErrStageOrder)
	}
	if len(scenes) != s.target {
		return fmt.Errorf("setting scenes: got %d scenes, want %d", len(scenes), s.target)
	}
	s.Scenes = append([]Scene(nil), scenes...)
	return nil
}

func (s *Script) AddDialogue(dialogue string) error {
	if len(s.Scenes) == 0 || len(s.Dialogues) >= len(s.Scenes) || len(s.ImagePrompts) > 0 {
		return fmt.Errorf("adding dialogue %d: %w", len(s.Dialogues)+1, ErrStageOrder)
	}
	s.Dialogues = append(s.Dialogues, dialogue)
	return nil
}

func (s *Script) AddImagePrompt(prompt string) error {
	if len(s.Dialogues) != len(s.Scenes) || len(s.ImagePrompts) >= len(s.Scenes) {
		return fmt.Errorf("adding image prompt %d: %w", len(s.ImagePrompts)+1, ErrStageOrder)
	}
	s.ImagePrompts = append(s.ImagePrompts, prompt)
	return nil
}

// Complete reports whether every scene has both its dialogue and image prompt.
func (s *Script) Complete() bool {
	return len(s.Scenes) > 0 &&
		len(s.Dialogues) == len(s.Scenes) &&
		len(s.ImagePrompts) == len(s.Scenes)
}

