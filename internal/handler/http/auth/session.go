// Package auth keeps the signed-in user across requests and guards the
// administration routes.
//
// A session is an HS256 JWT in an HttpOnly cookie. The token only names the
// user; roles are read from the database on every request so that a revoked
// role takes effect immediately.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"blog-publication/internal/domain/entity"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "blog_session"

const issuer = "blog-publication"

// ErrNoSession is returned by Parse when the request carries no session cookie.
var ErrNoSession = errors.New("no session")

type sessionClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// SessionManager issues and verifies session cookies.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessionManager creates a SessionManager. secure marks the cookie Secure.
func NewSessionManager(secret []byte, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// Issue signs a session for user and sets it on w.
func (m *SessionManager) Issue(w http.ResponseWriter, user *entity.User) error {
	now := m.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Roles: user.EffectiveRoles(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Parse returns the user id of the session carried by r.
func (m *SessionManager) Parse(r *http.Request) (int64, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return 0, ErrNoSession
	}

	var claims sessionClaims
	_, err = jwt.ParseWithClaims(c.Value, &claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, fmt.Errorf("invalid session: %w", err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session subject %q", claims.Subject)
	}
	return id, nil
}
