package agent

import (
	"context"
	"strings"
	"testing"
)

func TestMockClientDetectsPromptKind(t *testing.T) {
	m := NewMockClient()
	ctx := context.Background()

	tests := []struct {
		name   string
		prompt string
		want   []string
	}{
		{
			name:   "story",
			prompt: "Write a short, self-contained fictional story.\n\nDESCRIPTION:\na cat who flies",
			want:   []string{"a cat who flies", "Mara"},
		},
		{
			name:   "scenes",
			prompt: "Split the following story into exactly 3 numbered SCENES.",
			want:   []string{"1. Beat 1", "3. Beat 3", "Description:", "Characters:"},
		},
		{
			name:   "dialogue",
			prompt: "You are writing screenplay-style dialogue for a comic.\nScene Title: The Cliff",
			want:   []string{"MARA:", "the cliff"},
		},
		{
			name:   "image prompt",
			prompt: "Create a concise image-generation prompt\nScene Title: The Cliff\nAdd the style hint: ink wash",
			want:   []string{"The Cliff", "ink wash"},
		},
		{
			name:   "revision",
			prompt: "Here is the previous story generation:\n\nold text\n\nApply these requested changes in a coherent way: add rain\n\nReturn only the revised output.",
			want:   []string{"old text", "add rain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Generate(ctx, tt.prompt, DefaultParams())
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("response missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestMockClientScenesHonourCount(t *testing.T) {
	got, _ := NewMockClient().Generate(context.Background(), "Split the following story into exactly 4 numbered SCENES.", DefaultParams())
	if n := strings.Count(got, "Description:"); n != 4 {
		t.Errorf("got %d scenes, want 4", n)
	}
}
