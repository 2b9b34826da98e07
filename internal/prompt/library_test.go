package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLibraryRendersEmbeddedTemplates(t *testing.T) {
	lib := NewLibrary("")

	tests := []struct {
		name string
		data any
		want []string
	}{
		{
			name: Story,
			data: map[string]any{"Description": "a robot learns to paint", "MaxWords": 220},
			want: []string{"under 220 words", "a robot learns to paint"},
		},
		{
			name: Scenes,
			data: map[string]any{"Story": "Once upon a time.", "Count": 6},
			want: []string{"exactly 6 numbered SCENES", "Description:", "Once upon a time."},
		},
		{
			name: ScenesRetry,
			data: map[string]any{"Story": "s", "Count": 6, "Got": 4, "Previous": "1. A"},
			want: []string{"produced 4 scenes", "exactly 6 scenes", "1. A"},
		},
		{
			name: Revision,
			data: map[string]any{"Stage": "story generation", "Text": "old", "Changes": "make it rain"},
			want: []string{"previous story generation:\n\nold", "Apply these requested changes in a coherent way: make it rain", "Return only the revised output"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lib.Render(tt.name, tt.data)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Render(%s) missing %q in:\n%s", tt.name, w, got)
				}
			}
		})
	}
}

func TestLibraryPreloadsAll(t *testing.T) {
	if err := NewLibrary("").Preload(Names()...); err != nil {
		t.Fatal(err)
	}
}

func TestLibraryOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "story.tmpl"), []byte("Tell {{.Description}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	lib := NewLibrary(dir)

	got, err := lib.Render(Story, map[string]any{"Description": "tales"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Tell tales" {
		t.Errorf("override not used: %q", got)
	}

	// Templates without an override fall back to the embedded copy.
	if _, err := lib.Render(Revision, map[string]any{"Stage": "x", "Text": "y", "Changes": "z"}); err != nil {
		t.Errorf("embedded fallback: %v", err)
	}
}

func TestLibraryErrors(t *testing.T) {
	lib := NewLibrary("")

	if _, err := lib.Render("nope", nil); err == nil {
		t.Error("expected error for unknown template")
	}
	if _, err := lib.Render(Story, map[string]any{"Description": "x"}); err == nil {
		t.Error("expected error for missing key")
	}
}
