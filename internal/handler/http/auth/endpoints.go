package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/handler/http/csrf"
	"blog-publication/internal/handler/http/principal"
	"blog-publication/internal/handler/http/view"
	"blog-publication/internal/observability/logging"
	"blog-publication/internal/observability/metrics"
	authservice "blog-publication/internal/service/auth"
)

const (
	defaultRedirect = "/blog/publications/liste/"
	msgBadToken     = "The security token is invalid. Please try to resubmit the form."
	msgBadLogin     = "Invalid credentials."
)

// Handler serves the login and logout endpoints.
type Handler struct {
	Auth     *authservice.Service
	Sessions *SessionManager
	View     *view.Renderer
	CSRF     *csrf.Manager
}

// Register mounts the login and logout routes. limit wraps the login POST.
func (h *Handler) Register(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /connexion/{$}", h.LoginForm)
	mux.Handle("POST /connexion/{$}", limit(http.HandlerFunc(h.Login)))
	mux.HandleFunc("POST /deconnexion/{$}", h.Logout)
}

// LoginForm renders the login page.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if principal.User(r.Context()) != nil {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}
	h.View.Render(w, r, http.StatusOK, view.PageLogin, "Log in", view.LoginData{Next: next})
}

// Login checks the submitted credentials and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.View.Error(w, r, http.StatusBadRequest)
		return
	}
	data := view.LoginData{
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Next:  safeNext(r.PostFormValue("next")),
	}

	if !h.CSRF.Valid(ctx, csrf.ScopeLoginForm, r.PostFormValue(csrf.FieldName)) {
		metrics.RecordFormRejection("login_form", "csrf")
		data.Errors = entity.FormError(msgBadToken)
		h.View.Render(w, r, http.StatusOK, view.PageLogin, "Log in", data)
		return
	}

	user, err := h.Auth.Authenticate(ctx, authservice.Credentials{
		Email:    data.Email,
		Password: r.PostFormValue("password"),
	})
	if errors.Is(err, authservice.ErrInvalidCredentials) {
		metrics.RecordLoginAttempt("failure")
		recordLoginDuration("failure", time.Since(start).Seconds())
		logger.Info("login failed", slog.String("reason", "invalid_credentials"))
		data.Errors = entity.FormError(msgBadLogin)
		h.View.Render(w, r, http.StatusOK, view.PageLogin, "Log in", data)
		return
	}
	if err != nil {
		metrics.RecordLoginAttempt("error")
		logger.Error("login failed", slog.String("error", err.Error()))
		h.View.Error(w, r, http.StatusInternalServerError)
		return
	}

	if err := h.Sessions.Issue(w, user); err != nil {
		logger.Error("session not issued", slog.String("error", err.Error()))
		h.View.Error(w, r, http.StatusInternalServerError)
		return
	}

	metrics.RecordLoginAttempt("success")
	recordLoginDuration("success", time.Since(start).Seconds())
	logger.Info("login succeeded", slog.Int64("user_id", user.ID))
	http.Redirect(w, r, data.Next, http.StatusFound)
}

// Logout closes the session. A logout without a valid token is ignored.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.CSRF.Valid(r.Context(), csrf.ScopeLogout, r.PostFormValue(csrf.FieldName)) {
		h.Sessions.Clear(w)
	} else {
		metrics.RecordFormRejection("logout", "csrf")
	}
	http.Redirect(w, r, defaultRedirect, http.StatusFound)
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultRedirect
	}
	return next
}
