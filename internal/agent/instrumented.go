package agent

import (
	"context"
	"time"

	"github.com/vampirenirmal/comicscript/internal/metrics"
)

// InstrumentedGenerator records request outcomes and latency.
type InstrumentedGenerator struct {
	next    Generator
	backend string
	metrics *metrics.Collectors
}

func NewInstrumentedGenerator(next Generator, m *metrics.Collectors) *InstrumentedGenerator {
	return &InstrumentedGenerator{
		next:    next,
		backend: backendName(next),
		metrics: m,
	}
}

func (g *InstrumentedGenerator) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	start := time.Now()
	text, err := g.next.Generate(ctx, prompt, params)
	g.metrics.ObserveGeneration(g.backend, err, time.Since(start))
	return text, err
}

func (g *InstrumentedGenerator) Name() string {
	return g.backend
}

type named interface {
	Name() string
}

func backendName(g Generator) string {
	if n, ok := g.(named); ok {
		return n.Name()
	}
	return "unknown"
}
