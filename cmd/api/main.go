package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blog-publication/internal/common/pagination"
	"blog-publication/internal/config"
	"blog-publication/internal/domain/entity"
	"blog-publication/internal/infra/adapter/persistence"
	"blog-publication/internal/infra/db"
	"blog-publication/internal/observability/logging"
	"blog-publication/internal/observability/tracing"
	"blog-publication/internal/resilience/circuitbreaker"
	"blog-publication/pkg/security/csp"

	artUC "blog-publication/internal/usecase/article"
	cmtUC "blog-publication/internal/usecase/comment"

	hhttp "blog-publication/internal/handler/http"
	hauth "blog-publication/internal/handler/http/auth"
	"blog-publication/internal/handler/http/blog"
	"blog-publication/internal/handler/http/csrf"
	"blog-publication/internal/handler/http/flash"
	"blog-publication/internal/handler/http/middleware"
	"blog-publication/internal/handler/http/view"
	authservice "blog-publication/internal/service/auth"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Log.Level)
	slog.SetDefault(logger)

	tp := tracing.Setup()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler, err := setupServer(logger, cfg, database, getVersion())
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	if err := runServer(ctx, logger, cfg.Server, handler); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initDatabase opens the pool and applies pending migrations.
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	database, err := db.Open(ctx, cfg.Driver, cfg.URL, cfg.Pool())
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, database, cfg.Driver); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	if version := os.Getenv("VERSION"); version != "" {
		return version
	}
	return "dev"
}

// setupServer wires repositories, use cases and handlers into the router.
func setupServer(logger *slog.Logger, cfg *config.Config, database *sql.DB, version string) (http.Handler, error) {
	breaker := circuitbreaker.NewDB(database)
	repos, err := persistence.New(cfg.Database.Driver, breaker)
	if err != nil {
		return nil, err
	}

	validator := entity.NewValidator(cfg.Validation.CommentMaxLength)
	articles := &artUC.Service{
		Repo:      repos.Articles,
		Comments:  repos.Comments,
		Validator: validator,
		Pages: pagination.Config{
			ListLimit:   cfg.Pagination.ListPageSize,
			SearchLimit: cfg.Pagination.SearchPageSize,
		},
	}
	comments := &cmtUC.Service{Repo: repos.Comments, Articles: repos.Articles, Validator: validator}

	users := authservice.NewService(repos.Users)
	users.Requirements = cfg.Security.PasswordRequirements()

	secure := cfg.Server.SecureCookies
	tokens := csrf.New([]byte(cfg.Session.CSRFSecret), secure)
	renderer, err := view.New(tokens)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	sessions := hauth.NewSessionManager([]byte(cfg.Session.Secret), cfg.Session.TTL, secure)

	proxies, err := middleware.ParseTrustedProxies(cfg.Security.TrustedProxies)
	if err != nil {
		return nil, err
	}
	if proxies.Enabled {
		logger.Info("client addresses taken from X-Forwarded-For of trusted proxies",
			slog.Int("trusted_proxies_count", len(proxies.AllowedCIDRs)))
	}

	var limiter *middleware.LoginLimiter
	if cfg.Security.LoginRateLimit > 0 {
		throttled := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			renderer.Error(w, r, http.StatusTooManyRequests)
		})
		limiter = middleware.NewLoginLimiter(cfg.Security.LoginRateLimit, middleware.NewIPExtractor(proxies), throttled)
		logger.Info("login rate limit enabled", slog.Int("per_minute", cfg.Security.LoginRateLimit))
	} else {
		logger.Warn("login rate limit is DISABLED - not recommended for production")
	}

	var cspMW *middleware.CSPMiddleware
	if cfg.Security.CSPEnabled {
		cspMW = middleware.NewCSPMiddleware(middleware.CSPMiddlewareConfig{
			Enabled:       true,
			DefaultPolicy: csp.PagePolicy().ReportUri(cfg.Security.CSPReportURI),
			PathPolicies: map[string]*csp.CSPBuilder{
				"/health":  csp.EndpointPolicy(),
				"/ready":   csp.EndpointPolicy(),
				"/live":    csp.EndpointPolicy(),
				"/metrics": csp.EndpointPolicy(),
			},
			ReportOnly: cfg.Security.CSPReportOnly,
		})
		logger.Info("CSP enabled", slog.Bool("report_only", cfg.Security.CSPReportOnly))
	} else {
		logger.Warn("CSP is disabled")
	}

	health := &hhttp.HealthHandler{
		DB:         database,
		Breaker:    breaker,
		Version:    version,
		CSPEnabled: cspMW != nil,
	}
	if limiter != nil {
		health.LoginLimitActive = limiter.Tracked
	}

	return hhttp.NewRouter(hhttp.RouterConfig{
		Logger: logger,
		View:   renderer,
		Blog: &blog.Handler{
			Articles: articles,
			Comments: comments,
			View:     renderer,
			CSRF:     tokens,
		},
		Auth: &hauth.Handler{
			Auth:     users,
			Sessions: sessions,
			View:     renderer,
			CSRF:     tokens,
		},
		Sessions:       sessions,
		Users:          users,
		CSRF:           tokens,
		Flash:          flash.NewStore([]byte(cfg.Session.FlashHashKey), secure),
		CSP:            cspMW,
		LoginLimiter:   limiter,
		Health:         health,
		Ready:          &hhttp.ReadyHandler{DB: breaker},
		RequestTimeout: cfg.Server.RequestTimeout,
	}), nil
}

// runServer serves until ctx is canceled, then drains in-flight requests.
func runServer(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout, // Slowloris
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
