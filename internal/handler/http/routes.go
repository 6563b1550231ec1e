package http

import (
	"log/slog"
	"net/http"
	"time"

	"blog-publication/internal/handler/http/auth"
	"blog-publication/internal/handler/http/blog"
	"blog-publication/internal/handler/http/csrf"
	"blog-publication/internal/handler/http/flash"
	"blog-publication/internal/handler/http/middleware"
	"blog-publication/internal/handler/http/requestid"
	"blog-publication/internal/handler/http/view"
	"blog-publication/internal/observability/tracing"
)

// RouterConfig holds the collaborators of the router.
type RouterConfig struct {
	Logger   *slog.Logger
	View     *view.Renderer
	Blog     *blog.Handler
	Auth     *auth.Handler
	Sessions *auth.SessionManager
	Users    auth.UserLookup
	CSRF     *csrf.Manager
	Flash    *flash.Store

	// Optional
	CSP            *middleware.CSPMiddleware
	LoginLimiter   *middleware.LoginLimiter
	Health         http.Handler
	Ready          http.Handler
	RequestTimeout time.Duration
}

// NewRouter mounts every route behind the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Health != nil {
		mux.Handle("GET /health", cfg.Health)
	}
	if cfg.Ready != nil {
		mux.Handle("GET /ready", cfg.Ready)
	}
	mux.Handle("GET /live", LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())

	denied := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg.View.Error(w, r, http.StatusForbidden)
	})
	failed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg.View.Error(w, r, http.StatusInternalServerError)
	})
	cfg.Blog.Register(mux, func(role string) func(http.Handler) http.Handler {
		return auth.RequireRole(role, denied)
	})

	limit := func(h http.Handler) http.Handler { return h }
	if cfg.LoginLimiter != nil {
		limit = cfg.LoginLimiter.Middleware
	}
	cfg.Auth.Register(mux, limit)

	// unmatched routes get the HTML error page instead of the mux's text
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern == "" {
			cfg.View.Error(w, r, http.StatusNotFound)
			return
		}
		mux.ServeHTTP(w, r)
	})

	chain := []func(http.Handler) http.Handler{
		requestid.Middleware,
		Recover(cfg.Logger),
		tracing.Middleware,
		RequestLogger(cfg.Logger),
		Logging(cfg.Logger),
		MetricsMiddleware,
		middleware.SecurityHeaders,
	}
	if cfg.CSP != nil {
		chain = append(chain, cfg.CSP.Middleware())
	}
	chain = append(chain,
		InputValidation(),
		Timeout(cfg.RequestTimeout),
		cfg.Flash.Middleware,
		cfg.CSRF.Middleware,
		auth.Authenticate(cfg.Sessions, cfg.Users, failed),
	)
	return Chain(app, chain...)
}
