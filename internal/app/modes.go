package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lironhefcode/stock-market/internal/auth"
	"github.com/lironhefcode/stock-market/internal/server"
	"github.com/lironhefcode/stock-market/internal/server/handler"
	"github.com/lironhefcode/stock-market/internal/server/ws"
	"github.com/lironhefcode/stock-market/internal/service"
)

// services bundles the domain services built on top of wired dependencies.
type services struct {
	tokens      *auth.JWTManager
	accounts    *auth.PasswordAuthenticator
	groups      *service.GroupService
	quotes      *service.QuoteService
	leaderboard *service.LeaderboardService
	watchlist   *service.WatchlistService
	digest      *service.DigestService
}

// buildServices constructs the service layer from wired dependencies.
func (a *App) buildServices(deps *Dependencies) *services {
	quoteSvc := service.NewQuoteService(deps.Finnhub, deps.QuoteCache, a.cfg.Finnhub.MaxInFlight, a.logger)
	leaderboardSvc := service.NewLeaderboardService(deps.GroupStore, deps.MemberStore, quoteSvc, a.logger)

	return &services{
		tokens:      auth.NewJWTManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL.Duration),
		accounts:    auth.NewPasswordAuthenticator(deps.UserStore),
		groups:      service.NewGroupService(deps.GroupStore, deps.MemberStore, deps.EventBus, a.logger),
		quotes:      quoteSvc,
		leaderboard: leaderboardSvc,
		watchlist:   service.NewWatchlistService(deps.WatchlistStore, deps.Finnhub, a.logger),
		digest: service.NewDigestService(
			deps.GroupStore, leaderboardSvc, deps.Notifier,
			deps.Archiver, deps.LockManager, a.logger,
		),
	}
}

// ServerMode runs the HTTP API and WebSocket hub until the context is
// cancelled.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startServer(ctx, g, deps, a.buildServices(deps))
	return g.Wait()
}

// DigestMode runs one digest cycle and exits. It is intended for cron-style
// scheduling.
func (a *App) DigestMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting digest mode")
	return a.buildServices(deps).digest.Run(ctx)
}

// FullMode runs the HTTP API plus a periodic digest ticker in one process.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)
	svcs := a.buildServices(deps)
	a.startServer(ctx, g, deps, svcs)

	if a.cfg.Digest.Enabled {
		interval := a.cfg.Digest.Interval.Duration
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if err := svcs.digest.Run(ctx); err != nil {
						a.logger.ErrorContext(ctx, "digest run failed",
							slog.String("error", err.Error()),
						)
					}
				}
			}
		})
	} else {
		a.logger.InfoContext(ctx, "digest.enabled is false, digest ticker not started")
	}

	return g.Wait()
}

// startServer adds the WebSocket hub and HTTP server goroutines to the given
// errgroup. The server is shut down gracefully when the context is cancelled.
func (a *App) startServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, svcs *services) {
	hub := ws.NewHub(deps.EventBus, a.logger)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	eventNotifier := service.NewEventNotifier(deps.EventBus, deps.Notifier, a.logger)
	g.Go(func() error {
		return eventNotifier.Run(ctx)
	})

	handlers := server.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": deps.PostgresPing,
			"redis":    deps.RedisPing,
		}, a.logger),
		Auth:      handler.NewAuthHandler(svcs.accounts, svcs.tokens, a.logger),
		Groups:    handler.NewGroupHandler(svcs.groups, svcs.leaderboard, a.logger),
		Quotes:    handler.NewQuoteHandler(svcs.quotes, a.logger),
		Watchlist: handler.NewWatchlistHandler(svcs.watchlist, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:         a.cfg.Server.Port,
		CORSOrigins:  a.cfg.Server.CORSOrigins,
		ReadTimeout:  a.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: a.cfg.Server.WriteTimeout.Duration,
		RateLimit:    a.cfg.Server.RateLimit,
		RateWindow:   a.cfg.Server.RateWindow.Duration,
	}, handlers, svcs.tokens, deps.RateLimiter, hub, a.logger)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})
}
