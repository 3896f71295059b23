// Package server provides the web UI and JSON API for the job schema collector.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-schema-collector/internal/config"
	"github.com/jonathan/job-schema-collector/internal/extraction"
	"github.com/jonathan/job-schema-collector/internal/gate"
	"github.com/jonathan/job-schema-collector/internal/ingestion"
	"github.com/jonathan/job-schema-collector/internal/server/middleware"
	"github.com/jonathan/job-schema-collector/internal/server/ratelimit"
	"github.com/jonathan/job-schema-collector/internal/types"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	schema         *types.Schema
	sessions       *SessionStore
	tokens         *JWTService
	gate           gate.Verifier
	acquirer       *ingestion.Acquirer
	extractor      *extraction.Extractor
	rateLimiter    *ratelimit.Limiter
	pages          *pageRenderer
	validator      *validator.Validate
	maxUploadBytes int64
	pruneInterval  time.Duration
}

// Config holds server configuration
type Config struct {
	Port        string
	MaxUploadMB int
	Schema      *types.Schema
	Gate        gate.Verifier
	Session     *config.SessionConfig
	Acquirer    *ingestion.Acquirer
	Extractor   *extraction.Extractor
	RateLimit   *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Session == nil {
		return nil, errors.New("session config is required")
	}
	if cfg.Schema == nil {
		cfg.Schema = types.JobAdvertSchema()
	}
	if cfg.Acquirer == nil {
		cfg.Acquirer = ingestion.NewAcquirer(nil, false)
	}
	if cfg.Extractor == nil {
		cfg.Extractor = extraction.New(nil)
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = config.DefaultMaxUploadMB
	}
	if cfg.Port == "" {
		cfg.Port = config.DefaultPort
	}

	pages, err := newPageRenderer()
	if err != nil {
		return nil, err
	}

	tokens := NewJWTService(cfg.Session)
	s := &Server{
		schema:         cfg.Schema,
		sessions:       NewSessionStore(cfg.Schema, tokens.TTL()),
		tokens:         tokens,
		gate:           cfg.Gate,
		acquirer:       cfg.Acquirer,
		extractor:      cfg.Extractor,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		pages:          pages,
		validator:      validator.New(),
		maxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		pruneInterval:  10 * time.Minute,
	}

	if s.gate == nil || !s.gate.Configured() {
		log.Warn().Msg("APP_PW_HASH is not set; all access is blocked")
	}
	if !s.extractor.Available() {
		log.Warn().Msg("No LLM API key found; extraction calls will fail until one is set")
	}

	mux := http.NewServeMux()

	// HTML UI
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /unlock", s.handleUnlockForm)
	mux.HandleFunc("POST /lock", s.handleLockForm)
	mux.HandleFunc("POST /extract", s.handleExtractForm)
	mux.HandleFunc("POST /wizard", s.handleWizardForm)
	mux.HandleFunc("POST /edit", s.handleEditForm)
	mux.HandleFunc("GET /download", s.handleDownload)
	mux.HandleFunc("GET /health", s.handleHealth)

	// JSON API
	mux.HandleFunc("POST /api/unlock", s.handleAPIUnlock)
	mux.HandleFunc("POST /api/lock", s.handleAPILock)
	mux.HandleFunc("POST /api/extract", s.handleAPIExtract)
	mux.HandleFunc("GET /api/session", s.handleAPISession)
	mux.HandleFunc("POST /api/wizard", s.handleAPIWizard)
	mux.HandleFunc("PUT /api/record", s.handleAPIPutRecord)
	mux.HandleFunc("GET /api/record", s.handleAPIGetRecord)

	sessions := middleware.Sessions(tokens.AsTokenService(), tokens.TTL())
	s.handler = s.withRateLimit(s.withLogging(s.withCORS(sessions(mux))))

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort("", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // extraction may fetch a page and call the LLM
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", s.httpServer.Addr).Msg("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(s.pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.sessions.Prune(); n > 0 {
					log.Debug().Int("removed", n).Msg("Pruned idle sessions")
				}
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		defer s.rateLimiter.Stop()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Info().Msg("Server stopped")
		return nil
	})

	return g.Wait()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", middleware.TokenHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		event := log.Info()
		if m.Code >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", m.Code).
			Int64("bytes", m.Written).
			Dur("duration", m.Duration).
			Msg("Request handled")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), map[string]string{"error": UserMessage(err)})
}

// clientID extracts the client identifier (IP address) from the request.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Warn().
		Int("limit", info.Limit).
		Int("remaining", info.Remaining).
		Time("reset", info.ResetTime).
		Msg("Rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
