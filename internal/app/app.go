package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/Saifff-551/foodhelp/internal/adapter/provider/google"
	"github.com/Saifff-551/foodhelp/internal/adapter/provider/safety"
	redisadapter "github.com/Saifff-551/foodhelp/internal/adapter/redis"
	"github.com/Saifff-551/foodhelp/internal/app/demo"
	"github.com/Saifff-551/foodhelp/internal/auth"
	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/feed"
	"github.com/Saifff-551/foodhelp/internal/metrics"
	authsvc "github.com/Saifff-551/foodhelp/internal/service/auth"
	"github.com/Saifff-551/foodhelp/internal/service/donation"
	"github.com/Saifff-551/foodhelp/internal/service/user"
	"github.com/Saifff-551/foodhelp/internal/service/verification"
	"github.com/Saifff-551/foodhelp/internal/transport/middleware"
)

const (
	rateLimitCleanup     = 5 * time.Minute
	tokenCleanupInterval = time.Hour
)

// Run is the application entry point. It loads configuration, connects
// storage, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("in_memory", cfg.Database.InMemory()),
	)

	st, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer st.close()

	redisClient, err := redisadapter.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if cfg.Marketplace.SeedDemo && cfg.Database.InMemory() {
		if _, err := demo.Seed(ctx, st.users, st.donations, time.Now().UTC(), logger); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	hub := feed.NewHub(st.donations, cfg.Feed.RefreshTimeout, m, logger)
	defer hub.Close()

	var (
		notify   notifier = feed.NewLocalNotifier(hub)
		listener *redisadapter.Notifier
	)
	if redisClient != nil {
		listener = redisadapter.NewNotifier(redisClient.Client, cfg.Redis.Channel, hub, logger)
		notify = listener
	}

	svcs := newServices(cfg, st, notify, m, logger)

	hub.Refresh(ctx)

	limiter := middleware.NewRateLimiter(rateLimitCleanup)
	defer limiter.Stop()

	handler := newRouter(cfg, routerDeps{
		services: svcs,
		hub:      hub,
		metrics:  m,
		registry: reg,
		limiter:  limiter,
		checks:   healthChecks(st, redisClient),
		logger:   logger,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if listener != nil {
		g.Go(func() error {
			return listener.Listen(gctx)
		})
	}

	g.Go(func() error {
		cleanupTokens(gctx, svcs.auth, tokenCleanupInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		// Close live feed subscriptions first; hijacked websocket
		// connections are not tracked by Shutdown.
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// cleanupTokens purges expired refresh tokens every interval until ctx is
// cancelled. Failures are logged by the service and retried next tick.
func cleanupTokens(ctx context.Context, svc *authsvc.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = svc.CleanupExpiredTokens(ctx)
		}
	}
}

type notifier interface {
	Notify(ctx context.Context)
}

type services struct {
	auth         *authsvc.Service
	users        *user.Service
	donations    *donation.Service
	verification *verification.Service
}

func newServices(cfg *config.Config, st *storage, notify notifier, m *metrics.Metrics, logger *slog.Logger) services {
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	oauth := google.NewVerifier(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleRedirectURI, logger)

	oracle := safety.NewGuarded(nil, cfg.Safety.Timeout, cfg.Safety.DefaultScore, logger)
	if cfg.Safety.Enabled() {
		oracle = safety.NewGuarded(safety.NewClient(cfg.Safety, logger), cfg.Safety.Timeout, cfg.Safety.DefaultScore, logger)
	} else {
		logger.Warn("safety oracle not configured, items receive the default score",
			slog.Int("default_score", cfg.Safety.DefaultScore))
	}

	verifySvc := verification.NewService(logger, st.orgs, st.users, notify)

	return services{
		auth:         authsvc.NewService(logger, st.users, st.tokens, st.authMethods, st.tx, oauth, jwtManager, cfg.Auth),
		users:        user.NewService(logger, st.users),
		verification: verifySvc,
		donations: donation.NewService(logger, st.donations, st.users, oracle, verifySvc, notify, m,
			cfg.Marketplace, cfg.Safety.Concurrency),
	}
}
