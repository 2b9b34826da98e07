// Package approval implements the human checkpoint every generated artifact
// passes through: approve it as is, or ask for one revision.
package approval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vampirenirmal/comicscript/internal/agent"
	"github.com/vampirenirmal/comicscript/internal/phase"
	"github.com/vampirenirmal/comicscript/internal/prompt"
)

type Decision string

const (
	Approved Decision = "approved"
	Revised  Decision = "revised"
)

// Outcome is the final text of a gated stage. Both decisions carry the text
// to pass on; Decision only matters for logs and metrics.
type Outcome struct {
	Decision Decision
	Text     string
	Changes  string // change request that produced a revision
}

// Request is what a reviewer is shown.
type Request struct {
	Stage string
	Text  string
}

// Response is a reviewer's verdict. Changes is read only when Approved is false.
type Response struct {
	Approved bool
	Changes  string
}

// Reviewer is the human side of the gate.
type Reviewer interface {
	Review(ctx context.Context, req Request) (Response, error)
}

// ReviewerFunc adapts a function to the Reviewer interface.
type ReviewerFunc func(ctx context.Context, req Request) (Response, error)

func (f ReviewerFunc) Review(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Gate asks a reviewer about a candidate and, on rejection, makes exactly one
// revision call. It never retries; errors go back to the caller.
type Gate struct {
	reviewer Reviewer
	gen      agent.Generator
	prompts  *prompt.Library
	params   agent.Params
	logger   *slog.Logger
}

// NewGate creates a gate. params are used for revision calls.
func NewGate(reviewer Reviewer, gen agent.Generator, prompts *prompt.Library, params agent.Params) *Gate {
	return &Gate{
		reviewer: reviewer,
		gen:      gen,
		prompts:  prompts,
		params:   params,
		logger:   slog.Default().With("component", "approval_gate"),
	}
}

type revisionPrompt struct {
	Stage   string
	Text    string
	Changes string
}

// Review runs the gate for one candidate under the given stage label.
func (g *Gate) Review(ctx context.Context, stage, candidate string) (Outcome, error) {
	resp, err := g.reviewer.Review(ctx, Request{Stage: stage, Text: candidate})
	if err != nil {
		return Outcome{}, fmt.Errorf("reviewing %s: %w", stage, err)
	}

	if resp.Approved {
		g.logger.Info("stage approved", "stage", stage)
		return Outcome{Decision: Approved, Text: candidate}, nil
	}

	changes := strings.TrimSpace(resp.Changes)
	if changes == "" {
		g.logger.Info("rejection without changes, keeping candidate", "stage", stage)
		return Outcome{Decision: Approved, Text: candidate}, nil
	}

	p, err := g.prompts.Render(prompt.Revision, revisionPrompt{
		Stage:   strings.ToLower(stage),
		Text:    candidate,
		Changes: changes,
	})
	if err != nil {
		return Outcome{}, err
	}

	g.logger.Info("revising stage", "stage", stage, "changes", changes)
	revised, err := g.gen.Generate(ctx, p, g.params)
	if err != nil {
		return Outcome{}, fmt.Errorf("revising %s: %w", stage, err)
	}

	return Outcome{Decision: Revised, Text: phase.CleanResponse(revised), Changes: changes}, nil
}

// AutoApprove approves every candidate. It backs unattended runs.
type AutoApprove struct{}

func (AutoApprove) Review(ctx context.Context, _ Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	return Response{Approved: true}, nil
}
