package auth

import (
	"net/http"
	"net/url"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/handler/http/principal"
	"blog-publication/internal/observability/metrics"
)

// LoginPath is where anonymous callers of guarded routes are sent.
const LoginPath = "/connexion/"

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// Unauthenticated means the caller must log in first.
	Unauthenticated
	// Forbidden means the caller is logged in but lacks the role.
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Authorize decides whether user may act with role. A nil user is anonymous.
func Authorize(user *entity.User, role string) Decision {
	if user == nil {
		return Unauthenticated
	}
	if !user.HasRole(role) {
		return Forbidden
	}
	return Allow
}

// RequireRole guards next with role. Anonymous callers are redirected to the
// login page and come back afterwards; callers lacking the role get denied.
func RequireRole(role string, denied http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch Authorize(principal.User(r.Context()), role) {
			case Allow:
				next.ServeHTTP(w, r)
			case Unauthenticated:
				metrics.RecordAccessDenied("login_redirect")
				http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			default:
				metrics.RecordAccessDenied("forbidden")
				denied.ServeHTTP(w, r)
			}
		})
	}
}
