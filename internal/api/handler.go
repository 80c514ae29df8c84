// Package api implements the coachlab REST API.
// It scores coaching messages, simulates CSR replies, and serves archived
// sessions.
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/coachlab/coachlab/internal/archive"
	"github.com/coachlab/coachlab/pkg/coach"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handler is the top-level API handler for the coaching service.
type Handler struct {
	coach   *coach.Coach
	archive *archive.Archive
	cache   *TranscriptCache
	logger  *zap.Logger
}

// NewHandler creates a new API handler. A nil archive disables session
// recording and a nil cache gets the default size.
func NewHandler(c *coach.Coach, arch *archive.Archive, cache *TranscriptCache, logger *zap.Logger) *Handler {
	if c == nil {
		c = coach.New(nil, nil, nil, logger)
	}
	if arch == nil {
		arch = archive.Disabled()
	}
	if cache == nil {
		cache = NewTranscriptCache(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		coach:   c,
		archive: arch,
		cache:   cache,
		logger:  logger,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/scenarios", h.handleScenarios)

	mux.HandleFunc("POST /api/coach", h.handleCoach)
	mux.HandleFunc("POST /api/score", h.handleScore)

	mux.HandleFunc("GET /api/sessions", h.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", h.handleGetSession)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// RouterOptions configures the assembled HTTP stack.
type RouterOptions struct {
	StaticDir string
	APIKey    string
	// Metrics, when set, is served at GET /metrics.
	Metrics http.Handler
}

// NewRouter mounts the API, optional metrics, and optional static frontend
// behind logging, CORS, and API-key middleware.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}
	if opts.StaticDir != "" {
		mux.Handle("GET /", StaticHandler(opts.StaticDir))
	}
	return Chain(mux, Instrument(h.logger), CORS, APIKeyAuth(opts.APIKey))
}
