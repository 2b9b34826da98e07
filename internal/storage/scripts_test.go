package storage

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vampirenirmal/comicscript/internal/domain/comic"
)

func finishedScript(t *testing.T, runID string) *comic.Script {
	t.Helper()
	s := comic.NewScript(runID, "A lighthouse keeper's last night", 1)
	steps := []error{
		s.SetStory("The keeper lit the lamp one last time."),
		s.SetScenes([]comic.Scene{{Title: "Last Light", Description: "The lamp flares.", Characters: "Keeper"}}),
		s.AddDialogue("KEEPER: Goodnight, sea."),
		s.AddImagePrompt("old keeper beside a blazing lamp, night storm"),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestScriptStoreRoundTrip(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	store := NewScriptStore(fs, RunUUID)
	ctx := context.Background()

	s := finishedScript(t, "3f1c9a2e-0000-4000-8000-000000000001")
	dir, err := store.SaveScript(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if dir != s.RunID {
		t.Errorf("dir = %q, want run ID", dir)
	}

	md, err := fs.Load(ctx, dir+"/script.md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(md), "### 1. Last Light") {
		t.Errorf("markdown missing scene heading:\n%s", md)
	}

	loaded, err := store.LoadScript(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Story != s.Story || !reflect.DeepEqual(loaded.Scenes, s.Scenes) ||
		!reflect.DeepEqual(loaded.Dialogues, s.Dialogues) || !reflect.DeepEqual(loaded.ImagePrompts, s.ImagePrompts) {
		t.Errorf("loaded script differs:\n%+v\nwant\n%+v", loaded, s)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(runs, []string{dir}) {
		t.Errorf("ListRuns() = %v", runs)
	}
}

func TestRunDir(t *testing.T) {
	now := time.Date(2025, 7, 16, 15, 30, 0, 0, time.UTC)
	id := "82f06b15-aaaa-4bbb-8ccc-dddddddddddd"

	tests := []struct {
		naming RunNaming
		desc   string
		want   string
	}{
		{RunUUID, "anything", id},
		{RunTimestamp, "anything", "2025-07-16_1530_82f06b15"},
		{RunDescriptive, "Keeper finds... a MAP!", "2025-07-16_1530_keeper-finds-a-map_82f06b15"},
		{RunDescriptive, "A lighthouse keeper finds a hidden map", "2025-07-16_1530_a-lighthouse-keeper-finds-a-hi_82f06b15"},
		{RunDescriptive, "¿¡!!", "2025-07-16_1530_comic_82f06b15"},
	}
	for _, tt := range tests {
		if got := RunDir(id, tt.desc, tt.naming, now); got != tt.want {
			t.Errorf("RunDir(%v, %q) = %q, want %q", tt.naming, tt.desc, got, tt.want)
		}
	}
}

func TestParseRunNaming(t *testing.T) {
	for in, want := range map[string]RunNaming{"": RunUUID, "uuid": RunUUID, "timestamp": RunTimestamp, "descriptive": RunDescriptive} {
		got, err := ParseRunNaming(in)
		if err != nil || got != want {
			t.Errorf("ParseRunNaming(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseRunNaming("random"); err == nil {
		t.Error("expected error for unknown naming")
	}
}
