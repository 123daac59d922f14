package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/api"
	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/ports"
	"github.com/aretw0/questflow/pkg/session"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Server serves the questionnaire API over a session manager.
type Server struct {
	Engine   ports.Engine
	Sessions *session.Manager
	Streams  *StreamManager

	gatherer prometheus.Gatherer
	logger   *slog.Logger
	validate *validator.Validate
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics exposes the gatherer at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the API server.
func NewServer(engine ports.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		logger:   logging.NewNop(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.Raw())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/questionnaire-flow", s.GetFlow)
		r.Post("/validate", s.Validate)
		r.Post("/summary", s.Summarize)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.ListSessions)
			r.Post("/", s.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetSession)
				r.Patch("/", s.PatchSession)
				r.Delete("/", s.DeleteSession)
				r.Get("/progress", s.GetProgress)
				r.Get("/summary", s.GetSessionSummary)
				r.Get("/events", s.SubscribeEvents)
			})
		})
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>questflow API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := api.Load(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "questflow-http",
		"version":     strings.TrimSpace(questflow.Version),
		"api_version": apiVersion,
	})
}

// GetFlow handles the GET /api/questionnaire-flow request.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := s.Engine.Flow(r.Context())
	if err != nil {
		s.logger.Error("questionnaire-flow failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to load questionnaire flow")
		return
	}
	s.writeJSON(w, http.StatusOK, flow)
}

// writeJSON encodes v with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	s.writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

// writeSessionError maps store and engine errors to responses.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		s.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	s.logger.Error("session operation failed", "error", err)
	s.writeError(w, http.StatusInternalServerError, "Internal error")
}
