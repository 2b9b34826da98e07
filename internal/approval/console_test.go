package approval

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestConsoleReviewer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Response
		wantErr error
	}{
		{"yes", "yes\n", Response{Approved: true}, nil},
		{"y with spaces and caps", "  Y \n", Response{Approved: true}, nil},
		{"no with changes", "no\nadd a dragon\n", Response{Changes: "add a dragon"}, nil},
		{"anything else is a rejection", "maybe\nshorter\n", Response{Changes: "shorter"}, nil},
		{"last line without newline", "n\nmore rain", Response{Changes: "more rain"}, nil},
		{"input closed before answer", "", Response{}, ErrInputClosed},
		{"input closed before changes", "no\n", Response{}, ErrInputClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r := NewConsoleReviewer(strings.NewReader(tt.input), &out)

			got, err := r.Review(context.Background(), Request{Stage: "STORY GENERATION", Text: "Once upon a time."})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Response = %+v, want %+v", got, tt.want)
			}
			if !strings.Contains(out.String(), "STORY GENERATION OUTPUT") || !strings.Contains(out.String(), "Once upon a time.") {
				t.Errorf("output missing header or text:\n%s", out.String())
			}
		})
	}
}

func TestConsoleReviewerOptions(t *testing.T) {
	var out bytes.Buffer
	r := NewConsoleReviewer(strings.NewReader("y\n"), &out,
		WithRenderer(func(s string) (string, error) { return "<" + s + ">", nil }),
		WithHeaderStyle(func(s string) string { return "[" + s + "]" }),
	)

	if _, err := r.Review(context.Background(), Request{Stage: "SCENE BREAKDOWN", Text: "1. A"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "<1. A>") {
		t.Errorf("renderer not applied:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "[📝 SCENE BREAKDOWN OUTPUT]") {
		t.Errorf("header style not applied:\n%s", out.String())
	}
}

func TestConsoleReviewerRenderFailureFallsBack(t *testing.T) {
	var out bytes.Buffer
	r := NewConsoleReviewer(strings.NewReader("y\n"), &out,
		WithRenderer(func(string) (string, error) { return "", errors.New("no tty") }),
	)
	if _, err := r.Review(context.Background(), Request{Stage: "S", Text: "raw text"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "raw text") {
		t.Error("raw text not shown after render failure")
	}
}

func TestConsoleReviewerSharesInputAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	r := NewConsoleReviewer(strings.NewReader("yes\nno\nfix it\n"), &out)

	first, err := r.Review(context.Background(), Request{Stage: "A", Text: "a"})
	if err != nil || !first.Approved {
		t.Fatalf("first = %+v, %v", first, err)
	}
	second, err := r.Review(context.Background(), Request{Stage: "B", Text: "b"})
	if err != nil || second.Approved || second.Changes != "fix it" {
		t.Fatalf("second = %+v, %v", second, err)
	}
}

func TestMarkdownRenderer(t *testing.T) {
	render, err := MarkdownRenderer()
	if err != nil {
		t.Fatal(err)
	}
	got, err := render("# Title\n\nbody")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Title") {
		t.Errorf("rendered output lost content: %q", got)
	}
	if s := HeaderStyle()("header"); !strings.Contains(s, "header") {
		t.Errorf("styled header lost content: %q", s)
	}
}
