package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/handler/http/principal"
	"blog-publication/internal/handler/http/respond"
	"blog-publication/internal/observability/logging"
	authservice "blog-publication/internal/service/auth"
)

// UserLookup loads the user named by a session.
type UserLookup interface {
	Lookup(ctx context.Context, id int64) (*entity.User, error)
}

// Authenticate resolves the session cookie into the request principal.
// Requests without a valid session continue anonymously; a broken or stale
// cookie is cleared. When the session user cannot be loaded because the
// store failed, the request ends with failed (a plain 500 when nil).
func Authenticate(sessions *SessionManager, users UserLookup, failed http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := sessions.Parse(r)
			if errors.Is(err, ErrNoSession) {
				next.ServeHTTP(w, r)
				return
			}
			logger := logging.FromContext(r.Context())
			if err != nil {
				recordSessionRejection("invalid")
				logger.Debug("session rejected", slog.String("error", err.Error()))
				sessions.Clear(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.Lookup(r.Context(), id)
			if errors.Is(err, authservice.ErrUserNotFound) {
				recordSessionRejection("unknown_user")
				sessions.Clear(w)
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				recordSessionRejection("lookup_error")
				logger.Error("session user lookup failed",
					slog.Int64("user_id", id),
					slog.String("error", respond.SanitizeError(err)))
				if failed == nil {
					respond.Text(w, http.StatusInternalServerError)
					return
				}
				failed.ServeHTTP(w, r)
				return
			}

			ctx := principal.WithUser(r.Context(), user)
			ctx = logging.WithLogger(ctx, logger.With(slog.Int64("user_id", user.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
