// Package api exposes the assistant over HTTP as a small JSON API.
//
// Endpoints:
//   - POST /api/v1/chat            - run a query through the assistant
//   - GET  /api/v1/route?q=...     - inspect the routing decision only
//   - POST /api/v1/sessions        - start a session
//   - GET  /api/v1/sessions/{id}   - session info
//   - DELETE /api/v1/sessions/{id} - drop a session
//   - GET  /health, GET /ready     - probes (outside the middleware stack)
//   - GET  /api/stream/...         - static audio files when MediaDir is set
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmogomedia/kaya/internal/session"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Assistant   Assistant        // Required
	Sessions    *session.Manager // Required
	Pool        *pgxpool.Pool    // Optional: nil disables database readiness checks
	MediaDir    string           // Optional: directory of audio files served under /api/stream/
	CORSOrigins []string         // Allowed origins for CORS
	TrustProxy  bool             // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateRPS     float64          // Per-IP token refill rate per second (0 = default 1)
	RateBurst   int              // Per-IP token bucket size (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Assistant == nil {
		return nil, errors.New("assistant is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ch := &chatHandler{
		assistant: cfg.Assistant,
		sessions:  cfg.Sessions,
		logger:    logger,
	}
	sh := &sessionHandler{
		sessions: cfg.Sessions,
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/chat", ch.send)
	mux.HandleFunc("GET /api/v1/route", ch.route)

	mux.HandleFunc("POST /api/v1/sessions", sh.create)
	mux.HandleFunc("GET /api/v1/sessions/{id}", sh.get)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", sh.delete)

	// Audio delivery: StreamURLs on tracks resolve under /api/stream/.
	if cfg.MediaDir != "" {
		fs := http.FileServer(http.Dir(cfg.MediaDir))
		mux.Handle("GET /api/stream/", http.StripPrefix("/api/stream/", fs))
	}

	// Rate limiter: per-IP token bucket.
	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 1.0
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(rps, burst)

	// Build middleware stack (outermost first):
	//   Recovery -> RequestID -> Logging -> CORS -> RateLimit -> Routes
	// RequestID must be before Logging so request_id is available in log
	// attributes. CORS must be before RateLimit so preflight OPTIONS gets
	// proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		handler.ServeHTTP(w, r)
	})

	// Top-level mux separates health probes from the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Pool))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
