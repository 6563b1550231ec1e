// Package csrf issues and checks anti-forgery tokens.
//
// Every browser gets a random id in a cookie. A token is an HMAC of that id
// and a scope name ("article_form", "blog_publication_delete_42", ...), so a
// token is only valid for one browser and one intent.
package csrf

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"

	"github.com/google/uuid"
)

// CookieName is the cookie holding the browser id.
const CookieName = "blog_csrf"

// Scopes of the forms. Deletion links use ArticleDeleteScope and CommentDeleteScope.
const (
	ScopeArticleForm = "article_form"
	ScopeCommentForm = "comment_form"
	ScopeLoginForm   = "login_form"
	ScopeLogout      = "logout"
)

// FieldName is the form field carrying the token.
const FieldName = "_token"

type contextKey struct{}

// Manager issues and validates tokens.
type Manager struct {
	secret []byte
	secure bool
}

// New creates a Manager signing with secret. secure marks the browser id
// cookie Secure, for deployments behind TLS.
func New(secret []byte, secure bool) *Manager {
	return &Manager{secret: secret, secure: secure}
}

// Middleware makes sure the browser has an id cookie and exposes the id to
// Token and Valid through the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	})
}

// Token returns the token of scope for the browser of ctx, or "" outside Middleware.
func (m *Manager) Token(ctx context.Context, scope string) string {
	id, _ := ctx.Value(contextKey{}).(string)
	if id == "" {
		return ""
	}
	return m.sign(id, scope)
}

// Valid reports whether token was issued for scope to the browser of ctx.
func (m *Manager) Valid(ctx context.Context, scope, token string) bool {
	want := m.Token(ctx, scope)
	if want == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(want), []byte(token))
}

func (m *Manager) sign(id, scope string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	mac.Write([]byte{0})
	mac.Write([]byte(scope))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
