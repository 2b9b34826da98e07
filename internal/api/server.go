package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vampirenirmal/comicscript/internal/domain/comic"
)

const maxBodyBytes = 64 << 10

// StoryWriter produces a story from an idea without review.
type StoryWriter interface {
	Story(ctx context.Context, description string) (string, error)
}

// ScriptRunner runs the whole pipeline. The HTTP surface has no human in
// the loop, so the runner is expected to auto-approve every stage.
type ScriptRunner interface {
	Run(ctx context.Context, description string) (*comic.Script, error)
}

type Server struct {
	writer  StoryWriter
	runner  ScriptRunner
	metrics prometheus.Gatherer
	logger  *slog.Logger
}

type Option func(*Server)

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = g
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(writer StoryWriter, runner ScriptRunner, opts ...Option) *Server {
	s := &Server{
		writer: writer,
		runner: runner,
		logger: slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.health)
	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-story", s.generateStory)
		r.Post("/generate-script", s.generateScript)
	})
	return r
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type storyResponse struct {
	Story string `json:"story"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API is running"})
}

func (s *Server) generateStory(w http.ResponseWriter, r *http.Request) {
	prompt, ok := s.readPrompt(w, r)
	if !ok {
		return
	}

	story, err := s.writer.Story(r.Context(), prompt)
	if err != nil {
		s.logger.Error("story generation failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Story generation failed"})
		return
	}
	writeJSON(w, http.StatusOK, storyResponse{Story: story})
}

func (s *Server) generateScript(w http.ResponseWriter, r *http.Request) {
	prompt, ok := s.readPrompt(w, r)
	if !ok {
		return
	}

	script, err := s.runner.Run(r.Context(), prompt)
	if err != nil {
		s.logger.Error("script generation failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Script generation failed"})
		return
	}
	writeJSON(w, http.StatusOK, script)
}

func (s *Server) readPrompt(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req promptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return "", false
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Prompt required"})
		return "", false
	}
	return prompt, true
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encoding response", "error", err)
	}
}
