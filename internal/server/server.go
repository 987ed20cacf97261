package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lironhefcode/stock-market/internal/domain"
	"github.com/lironhefcode/stock-market/internal/server/handler"
	"github.com/lironhefcode/stock-market/internal/server/middleware"
	"github.com/lironhefcode/stock-market/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port         int
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    int
	RateWindow   time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Groups    *handler.GroupHandler
	Quotes    *handler.QuoteHandler
	Watchlist *handler.WatchlistHandler
}

// publicPaths lists routes that bypass authentication.
var publicPaths = []string{
	"/api/health",
	"/api/auth/register",
	"/api/auth/login",
}

// Server is the HTTP + WebSocket API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (auth, logging, CORS, rate limiting) and attaches the
// WebSocket hub. limiter may be nil to disable rate limiting.
func NewServer(cfg Config, handlers Handlers, tokens middleware.TokenValidator, limiter domain.RateLimiter, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Account endpoints (no auth required).
	mux.HandleFunc("POST /api/auth/register", handlers.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", handlers.Auth.Login)

	// Group endpoints.
	mux.HandleFunc("POST /api/groups", handlers.Groups.CreateGroup)
	mux.HandleFunc("POST /api/groups/join", handlers.Groups.JoinGroup)
	mux.HandleFunc("GET /api/groups/me", handlers.Groups.MyGroup)
	mux.HandleFunc("PUT /api/positions", handlers.Groups.UpdatePositions)
	mux.HandleFunc("DELETE /api/groups/{id}/members/me", handlers.Groups.LeaveGroup)
	mux.HandleFunc("GET /api/groups/{id}/members", handlers.Groups.Members)
	mux.HandleFunc("GET /api/groups/{id}/leaderboard", handlers.Groups.Leaderboard)

	// Quote endpoints.
	mux.HandleFunc("GET /api/quotes", handlers.Quotes.BatchQuotes)
	mux.HandleFunc("GET /api/quotes/{symbol}", handlers.Quotes.GetQuote)

	// Watchlist endpoints.
	mux.HandleFunc("GET /api/watchlist", handlers.Watchlist.List)
	mux.HandleFunc("POST /api/watchlist", handlers.Watchlist.Add)
	mux.HandleFunc("DELETE /api/watchlist/{symbol}", handlers.Watchlist.Remove)

	// WebSocket endpoint. Clients authenticate with a token query parameter.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain, innermost first.
	var h http.Handler = mux
	h = middleware.Auth(tokens, publicPaths)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	if limiter != nil {
		h = middleware.RateLimit(limiter, cfg.RateLimit, cfg.RateWindow)(h)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
