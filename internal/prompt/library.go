// Package prompt renders the prompt templates sent to the text generator.
// Templates are embedded; a directory of *.tmpl files may override any of them.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
)

const (
	Story       = "story"
	Scenes      = "scenes"
	ScenesRetry = "scenes_retry"
	Dialogue    = "dialogue"
	ImagePrompt = "image_prompt"
	Revision    = "revision"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// Library caches parsed templates by name.
type Library struct {
	mu        sync.RWMutex
	dir       string
	templates map[string]*template.Template
}

// NewLibrary returns a library that prefers <dir>/<name>.tmpl over the
// embedded template. An empty dir uses only embedded templates.
func NewLibrary(dir string) *Library {
	return &Library{
		dir:       dir,
		templates: make(map[string]*template.Template),
	}
}

// Render executes the named template with data and trims the result.
func (l *Library) Render(name string, data any) (string, error) {
	tmpl, err := l.load(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Preload parses every named template so a bad override fails at startup.
func (l *Library) Preload(names ...string) error {
	for _, name := range names {
		if _, err := l.load(name); err != nil {
			return fmt.Errorf("preloading %s: %w", name, err)
		}
	}
	return nil
}

// Names lists the templates every pipeline run needs.
func Names() []string {
	return []string{Story, Scenes, ScenesRetry, Dialogue, ImagePrompt, Revision}
}

func (l *Library) load(name string) (*template.Template, error) {
	l.mu.RLock()
	if tmpl, ok := l.templates[name]; ok {
		l.mu.RUnlock()
		return tmpl, nil
	}
	l.mu.RUnlock()

	content, err := l.read(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing prompt %s: %w", name, err)
	}

	l.mu.Lock()
	l.templates[name] = tmpl
	l.mu.Unlock()

	return tmpl, nil
}

func (l *Library) read(name string) (string, error) {
	file := name + ".tmpl"
	if l.dir != "" {
		content, err := os.ReadFile(filepath.Join(l.dir, file))
		if err == nil {
			return string(content), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading prompt override: %w", err)
		}
	}

	content, err := embedded.ReadFile("templates/" + file)
	if err != nil {
		return "", fmt.Errorf("unknown prompt %q: %w", name, err)
	}
	return string(content), nil
}
