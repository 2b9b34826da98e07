// Package metrics holds the Prometheus collectors shared by the pipeline.
// A nil *Collectors is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Collectors struct {
	generationRequests *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	breakdowns         *prometheus.CounterVec
	approvals          *prometheus.CounterVec
	retries            *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		generationRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comicscript_generation_requests_total",
				Help: "Text generation requests by backend and outcome",
			},
			[]string{"backend", "outcome"},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "comicscript_generation_duration_seconds",
				Help:    "Duration of text generation requests",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"backend"},
		),
		breakdowns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comicscript_scene_breakdowns_total",
				Help: "Scene breakdowns by the step that produced the exact scene count",
			},
			[]string{"resolution"},
		),
		approvals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comicscript_approval_decisions_total",
				Help: "Approval gate decisions by stage kind",
			},
			[]string{"stage", "decision"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comicscript_generation_retries_total",
				Help: "Retried generation calls by stage",
			},
			[]string{"stage"},
		),
	}
	reg.MustRegister(
		c.generationRequests,
		c.generationDuration,
		c.breakdowns,
		c.approvals,
		c.retries,
	)
	return c
}

func (c *Collectors) ObserveGeneration(backend string, err error, d time.Duration) {
	if c == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.generationRequests.WithLabelValues(backend, outcome).Inc()
	c.generationDuration.WithLabelValues(backend).Observe(d.Seconds())
}

func (c *Collectors) BreakdownResolved(resolution string) {
	if c == nil {
		return
	}
	c.breakdowns.WithLabelValues(resolution).Inc()
}

func (c *Collectors) ApprovalDecided(stage, decision string) {
	if c == nil {
		return
	}
	c.approvals.WithLabelValues(stage, decision).Inc()
}

func (c *Collectors) GenerationRetried(stage string) {
	if c == nil {
		return
	}
	c.retries.WithLabelValues(stage).Inc()
}
