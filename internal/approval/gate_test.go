package approval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vampirenirmal/comicscript/internal/agent"
	"github.com/vampirenirmal/comicscript/internal/prompt"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
	params  []agent.Params
}

func (s *stubGenerator) Generate(_ context.Context, p string, params agent.Params) (string, error) {
	s.prompts = append(s.prompts, p)
	s.params = append(s.params, params)
	return s.reply, s.err
}

func fixedReviewer(resp Response, err error) Reviewer {
	return ReviewerFunc(func(context.Context, Request) (Response, error) {
		return resp, err
	})
}

func revisionParams() agent.Params {
	return agent.DefaultParams().WithTemperature(0.7)
}

func TestGateApprovalIdentity(t *testing.T) {
	candidates := []string{
		"",
		"plain",
		"  leading and trailing whitespace \n\n",
		"```\nfenced\n```",
		"unicode ✓ — “quotes”",
	}

	for _, candidate := range candidates {
		gen := &stubGenerator{}
		g := NewGate(fixedReviewer(Response{Approved: true}, nil), gen, prompt.NewLibrary(""), revisionParams())

		out, err := g.Review(context.Background(), "STORY GENERATION", candidate)
		if err != nil {
			t.Fatal(err)
		}
		if out.Text != candidate {
			t.Errorf("approved text = %q, want %q byte for byte", out.Text, candidate)
		}
		if out.Decision != Approved {
			t.Errorf("Decision = %s", out.Decision)
		}
		if len(gen.prompts) != 0 {
			t.Errorf("approval made %d generation calls", len(gen.prompts))
		}
	}
}

func TestGateRevision(t *testing.T) {
	gen := &stubGenerator{reply: "the revised story"}
	g := NewGate(fixedReviewer(Response{Changes: " make it rain "}, nil), gen, prompt.NewLibrary(""), revisionParams())

	out, err := g.Review(context.Background(), "STORY GENERATION", "the old story")
	if err != nil {
		t.Fatal(err)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("generation calls = %d, want exactly 1", len(gen.prompts))
	}
	if out.Decision != Revised || out.Text != "the revised story" || out.Changes != "make it rain" {
		t.Errorf("Outcome = %+v", out)
	}

	p := gen.prompts[0]
	for _, want := range []string{
		"Here is the previous story generation:\n\nthe old story",
		"Apply these requested changes in a coherent way: make it rain",
		"Return only the revised output",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("revision prompt missing %q:\n%s", want, p)
		}
	}
	if gen.params[0].Temperature != 0.7 {
		t.Errorf("revision temperature = %v", gen.params[0].Temperature)
	}
}

func TestGateBlankChangesKeepCandidate(t *testing.T) {
	gen := &stubGenerator{reply: "unused"}
	g := NewGate(fixedReviewer(Response{Changes: "   "}, nil), gen, prompt.NewLibrary(""), revisionParams())

	out, err := g.Review(context.Background(), "SCENE BREAKDOWN", "candidate")
	if err != nil {
		t.Fatal(err)
	}
	if out.Text != "candidate" || out.Decision != Approved {
		t.Errorf("Outcome = %+v", out)
	}
	if len(gen.prompts) != 0 {
		t.Errorf("blank change request made %d calls", len(gen.prompts))
	}
}

func TestGateErrors(t *testing.T) {
	t.Run("generator failure propagates", func(t *testing.T) {
		genErr := &agent.GenerationError{Backend: "stub", StatusCode: 503, Cause: errors.New("down")}
		gen := &stubGenerator{err: genErr}
		g := NewGate(fixedReviewer(Response{Changes: "shorter"}, nil), gen, prompt.NewLibrary(""), revisionParams())

		_, err := g.Review(context.Background(), "DIALOGUE (Scene 1)", "text")
		if !errors.Is(err, genErr) {
			t.Errorf("got %v, want generation error", err)
		}
		if len(gen.prompts) != 1 {
			t.Errorf("gate retried: %d calls", len(gen.prompts))
		}
	})

	t.Run("reviewer failure propagates", func(t *testing.T) {
		gen := &stubGenerator{}
		g := NewGate(fixedReviewer(Response{}, ErrInputClosed), gen, prompt.NewLibrary(""), revisionParams())

		_, err := g.Review(context.Background(), "STORY GENERATION", "text")
		if !errors.Is(err, ErrInputClosed) {
			t.Errorf("got %v", err)
		}
		if len(gen.prompts) != 0 {
			t.Errorf("generator called after reviewer failure")
		}
	})
}

func TestAutoApprove(t *testing.T) {
	resp, err := AutoApprove{}.Review(context.Background(), Request{Stage: "x", Text: "y"})
	if err != nil || !resp.Approved {
		t.Errorf("got %+v, %v", resp, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (AutoApprove{}).Review(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
