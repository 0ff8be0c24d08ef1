package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/pkg/httpmiddleware"
	"IceBreaker/backend/go/pkg/logger"
	"IceBreaker/backend/go/pkg/ratelimiter"
)

// Middleware defines a function to wrap an http.Handler.
type Middleware func(http.Handler) http.Handler

// Server wraps the standard http.Server and applies the configured middleware chain
// around the application handler.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// ServerOption defines a function for configuring a Server.
type ServerOption func(*Server)

// WithAddress sets the address for the server to listen on.
func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.httpServer.Addr = addr
	}
}

// WithLogger sets the logger used for server lifecycle messages.
func WithLogger(l *logger.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer wraps handler with rate limiting and CORS when they are enabled in cfg.
func NewServer(cfg *config.AppConfig, handler http.Handler, opts ...ServerOption) (*Server, error) {
	var middlewares []Middleware

	if cfg.Middleware.RateLimiter.Enabled {
		limiter, err := createRateLimiter(cfg.Middleware.RateLimiter)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		middlewares = append(middlewares, httpmiddleware.RateLimit(limiter))
	}
	if cfg.Server.CORS.Enabled {
		middlewares = append(middlewares, httpmiddleware.CORS(cfg.Server.CORS.AllowedOrigins))
	}

	// Apply all middlewares in reverse order so the first one runs outermost.
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      handler,
			ReadTimeout:  config.Duration(cfg.Server.ReadTimeout, 15*time.Second),
			WriteTimeout: config.Duration(cfg.Server.WriteTimeout, 5*time.Minute),
		},
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.httpServer.Addr == "" {
		srv.httpServer.Addr = ":5000"
	}
	if srv.log == nil {
		srv.log = logger.New("http-server", "", "")
	}
	return srv, nil
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.WithField("address", s.httpServer.Addr).Info("Starting server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func createRateLimiter(cfg config.RateLimiterConfig) (ratelimiter.RateLimiter, error) {
	conf := cfg.TokenBucket
	if conf.Rate <= 0 || conf.Capacity <= 0 {
		return nil, fmt.Errorf("tokenBucket rate and capacity must be positive, got %v/%d", conf.Rate, conf.Capacity)
	}
	return ratelimiter.NewTokenBucket(conf.Rate, conf.Capacity), nil
}
