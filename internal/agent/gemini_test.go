package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newGeminiTestServer(t *testing.T, reply string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
}

func TestGeminiClientGenerate(t *testing.T) {
	var body map[string]any
	srv := newGeminiTestServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"A lighthouse at dusk.\n"}]}}]}`, &body)
	defer srv.Close()

	g, err := NewGeminiClient(context.Background(), GeminiConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL + "/",
		SystemPrompt: DefaultSystemPrompt,
	})
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}

	text, err := g.Generate(context.Background(), "describe the panel", DefaultParams())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "A lighthouse at dusk." {
		t.Errorf("Generate() = %q", text)
	}

	if _, ok := body["generationConfig"]; !ok {
		t.Errorf("request carried no generationConfig: %v", body)
	}
	if _, ok := body["systemInstruction"]; !ok {
		t.Errorf("request carried no systemInstruction: %v", body)
	}
}

func TestGeminiClientEmptyResponse(t *testing.T) {
	srv := newGeminiTestServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"  "}]}}]}`, nil)
	defer srv.Close()

	g, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "k", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = g.Generate(context.Background(), "p", DefaultParams())
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("got %v, want ErrEmptyResponse", err)
	}
	if !IsTemporary(err) {
		t.Error("empty response should be temporary")
	}
}

func TestGeminiClientRequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), GeminiConfig{}); err == nil {
		t.Error("expected error without API key")
	}
}
