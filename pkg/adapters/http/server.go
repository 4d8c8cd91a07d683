package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/sample"
	"github.com/go-chi/chi/v5"
)

// ExpandRequest is the body of POST /expand.
type ExpandRequest struct {
	// Container is a sample entry, e.g. {"name": "scores", "type": "[int]", "value": [1, 2]}.
	Container map[string]any `json:"container"`
	// Save persists the resulting snapshot when a store is configured.
	Save bool `json:"save"`
}

// Server exposes the engine over HTTP.
type Server struct {
	Engine  ports.TreeBuilder
	Store   ports.SnapshotStore
	Metrics http.Handler
	Version string
	Limits  sample.Limits
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStore enables snapshot persistence and the /snapshots routes.
func WithStore(store ports.SnapshotStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLimits bounds the trees POST /expand may request.
func WithLimits(l sample.Limits) Option {
	return func(s *Server) {
		s.Limits = l
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.TreeBuilder, opts ...Option) http.Handler {
	server := &Server{
		Engine:  engine,
		Version: "unknown",
		Limits:  sample.DefaultLimits(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Post("/expand", server.Expand)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}
	if server.Store != nil {
		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", server.ListSnapshots)
			r.Get("/{id}", server.GetSnapshot)
			r.Delete("/{id}", server.DeleteSnapshot)
		})
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Expand handles the POST /expand request.
func (s *Server) Expand(w http.ResponseWriter, r *http.Request) {
	var body ExpandRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Expand: Invalid request body", "error", err)
		return
	}

	entry, err := sample.DecodeEntry(body.Container)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.Limits.Check(entry); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn("Expand: request over node budget", "error", err)
		return
	}
	root, err := entry.Node()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := s.Engine.Build(r.Context(), root)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnsupportedContainerSource) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, fmt.Sprintf("Expand error: %v", err), status)
		s.logger.Error("Expand failed", "error", err, "container", entry.Name)
		return
	}

	snap := t.Snapshot()
	if body.Save {
		if s.Store == nil {
			http.Error(w, "No snapshot store configured", http.StatusConflict)
			return
		}
		if err := s.Store.Save(r.Context(), snap); err != nil {
			http.Error(w, fmt.Sprintf("Save error: %v", err), http.StatusInternalServerError)
			s.logger.Error("Snapshot save failed", "error", err, "snapshot_id", snap.ID)
			return
		}
	}

	writeJSON(w, s.logger, http.StatusOK, snap)
}

// ListSnapshots handles the GET /snapshots request.
func (s *Server) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("List snapshots failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.logger, http.StatusOK, ids)
}

// GetSnapshot handles the GET /snapshots/{id} request.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		http.Error(w, "Snapshot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Load snapshot failed", "error", err, "snapshot_id", id)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, snap)
}

// DeleteSnapshot handles the DELETE /snapshots/{id} request.
func (s *Server) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Store.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Delete snapshot failed", "error", err, "snapshot_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":     "arbor-http",
		"version": s.Version,
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
