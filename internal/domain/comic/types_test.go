package comic

import (
	"errors"
	"strings"
	"testing"
)

func twoScenes() []Scene {
	return []Scene{
		{Title: "Arrival", Description: "A ship lands.", Characters: "Mara"},
		{Title: "Departure", Description: "It leaves.", Characters: "Mara, Jo"},
	}
}

func TestScriptStageOrder(t *testing.T) {
	tests := []struct {
		name    string
		run     func(s *Script) error
		wantErr error
	}{
		{
			name: "scene count mismatch",
			run: func(s *Script) error {
				return s.SetScenes(twoScenes()[:1])
			},
			wantErr: nil,
		},
		{
			name: "story twice",
			run: func(s *Script) error {
				if err := s.SetStory("one"); err != nil {
					return err
				}
				return s.SetStory("two")
			},
			wantErr: ErrStageOrder,
		},
		{
			name: "dialogue before scenes",
			run: func(s *Script) error {
				return s.AddDialogue("hello")
			},
			wantErr: ErrStageOrder,
		},
		{
			name: "image prompt before all dialogues",
			run: func(s *Script) error {
				_ = s.SetStory("story")
				_ = s.SetScenes(twoScenes())
				_ = s.AddDialogue("d1")
				return s.AddImagePrompt("p1")
			},
			wantErr: ErrStageOrder,
		},
		{
			name: "dialogue after image prompts started",
			run: func(s *Script) error {
				_ = s.SetStory("story")
				_ = s.SetScenes(twoScenes())
				_ = s.AddDialogue("d1")
				_ = s.AddDialogue("d2")
				_ = s.AddImagePrompt("p1")
				return s.AddDialogue("d3")
			},
			wantErr: ErrStageOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScript("run", "idea", 2)
			err := tt.run(s)
			if tt.wantErr == nil {
				if err == nil {
					t.Fatal("expected count mismatch error")
				}
				if errors.Is(err, ErrStageOrder) {
					t.Fatalf("count mismatch reported as stage order: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestScriptComplete(t *testing.T) {
	s := NewScript("run", "idea", 2)
	if s.Complete() {
		t.Fatal("empty script reported complete")
	}

	steps := []func() error{
		func() error { return s.SetStory("A ship lands. It leaves.") },
		func() error { return s.SetScenes(twoScenes()) },
		func() error { return s.AddDialogue("MARA: Home.") },
		func() error { return s.AddDialogue("JO: Goodbye.") },
		func() error { return s.AddImagePrompt("ship on a dune") },
		func() error { return s.AddImagePrompt("ship in the sky") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if !s.Complete() {
		t.Fatal("script not complete after all stages")
	}
	if err := s.AddImagePrompt("extra"); !errors.Is(err, ErrStageOrder) {
		t.Errorf("extra image prompt: got %v", err)
	}
}

func TestSetScenesCopies(t *testing.T) {
	scenes := twoScenes()
	s := NewScript("run", "idea", 2)
	if err := s.SetScenes(scenes); err != nil {
		t.Fatal(err)
	}
	scenes[0].Title = "changed"
	if s.Scenes[0].Title != "Arrival" {
		t.Errorf("script shares caller slice: %q", s.Scenes[0].Title)
	}
}

func TestFormatScenes(t *testing.T) {
	got := FormatScenes(twoScenes())
	want := "1. Arrival\n   Description: A ship lands.\n   Characters: Mara\n\n" +
		"2. Departure\n   Description: It leaves.\n   Characters: Mara, Jo"
	if got != want {
		t.Errorf("FormatScenes() =\n%s\nwant\n%s", got, want)
	}
	if FormatScenes(nil) != "" {
		t.Error("FormatScenes(nil) should be empty")
	}
}

func TestMarkdown(t *testing.T) {
	s := NewScript("abc", "a lost ship", 2)
	_ = s.SetStory("A ship lands. It leaves.")
	_ = s.SetScenes(twoScenes())
	_ = s.AddDialogue("MARA: Home.")
	_ = s.AddDialogue("JO: Goodbye.")
	_ = s.AddImagePrompt("ship on a dune")
	_ = s.AddImagePrompt("ship in the sky")

	md := Markdown(s)
	for _, want := range []string{
		"# Comic script",
		"`abc`",
		"> a lost ship",
		"## Scenes (2)",
		"### 2. Departure",
		"*Characters:* Mara, Jo",
		"### Scene 1\n\nMARA: Home.",
		"2. ship in the sky",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
