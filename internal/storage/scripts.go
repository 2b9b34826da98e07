package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/vampirenirmal/comicscript/internal/domain/comic"
)

const (
	scriptJSON     = "script.json"
	scriptMarkdown = "script.md"
)

// ScriptStore writes finished scripts for downstream panel rendering: one
// directory per run holding script.json and script.md.
type ScriptStore struct {
	store  Storage
	naming RunNaming
	now    func() time.Time
}

func NewScriptStore(store Storage, naming RunNaming) *ScriptStore {
	return &ScriptStore{
		store:  store,
		naming: naming,
		now:    time.Now,
	}
}

// SaveScript writes s and returns the run directory relative to the store root.
func (ss *ScriptStore) SaveScript(ctx context.Context, s *comic.Script) (string, error) {
	dir := RunDir(s.RunID, s.Description, ss.naming, ss.now())

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding script: %w", err)
	}
	if err := ss.store.Save(ctx, path.Join(dir, scriptJSON), data); err != nil {
		return "", fmt.Errorf("saving script: %w", err)
	}
	if err := ss.store.Save(ctx, path.Join(dir, scriptMarkdown), []byte(comic.Markdown(s))); err != nil {
		return "", fmt.Errorf("saving script markdown: %w", err)
	}
	return dir, nil
}

// LoadScript reads the script saved under dir.
func (ss *ScriptStore) LoadScript(ctx context.Context, dir string) (*comic.Script, error) {
	data, err := ss.store.Load(ctx, path.Join(dir, scriptJSON))
	if err != nil {
		return nil, err
	}

	var s comic.Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding script %s: %w", dir, err)
	}
	return &s, nil
}

// ListRuns returns the directories holding a saved script, sorted by name.
func (ss *ScriptStore) ListRuns(ctx context.Context) ([]string, error) {
	matches, err := ss.store.List(ctx, path.Join("*", scriptJSON))
	if err != nil {
		return nil, err
	}

	runs := make([]string, 0, len(matches))
	for _, m := range matches {
		runs = append(runs, path.Dir(m))
	}
	sort.Strings(runs)
	return runs, nil
}
