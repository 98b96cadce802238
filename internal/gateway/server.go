// Package gateway wires the admission limiter into an HTTP API: every
// request to a protected route is resolved to an identity and billed
// against the per-identity budget before it reaches its handler.
package gateway

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tessera-labs/admission/internal/identity"
	"github.com/tessera-labs/admission/pkg/limiter"
)

const version = "1.0.0"

// Config carries the gateway-facing admission settings. MaxRequests is
// only used for the X-RateLimit-Limit header; the limiter enforces it.
type Config struct {
	Enabled     bool
	MaxRequests int64
}

type Server struct {
	cfg      Config
	limiter  limiter.RateLimiter
	resolver *identity.Resolver
	logger   *log.Logger
	now      func() time.Time
}

func New(cfg Config, lim limiter.RateLimiter, resolver *identity.Resolver, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:      cfg,
		limiter:  lim,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// Handler mounts all routes. The health endpoint stays outside the
// admission group so probes are never throttled.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.accessLog)

	r.Get("/", s.handleWelcome)
	r.Get("/api/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.Enabled {
			r.Use(s.admit)
		}

		r.Get("/api/v1/ping", s.handlePing)
	})

	return r
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"message": "Welcome to the Admission Gateway API!",
		"health":  "/api/health",
		"ping":    "/api/v1/ping",
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		s.logger.Println(err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":  "ok",
		"version": version,
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		s.logger.Println(err)
	}
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, map[string]string{"message": "pong"}); err != nil {
		s.logger.Println(err)
	}
}
