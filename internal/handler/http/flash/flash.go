// Package flash implements one-shot messages that survive a redirect.
//
// Messages added while handling a request are stored in a signed cookie when
// the response headers go out, unless a page rendered them during the same
// request. The next page that renders them clears the cookie.
package flash

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/securecookie"

	"blog-publication/internal/handler/http/responsewriter"
	"blog-publication/internal/observability/logging"
)

// CookieName is the cookie holding pending messages.
const CookieName = "blog_flash"

// Message kinds rendered by the layout.
const (
	KindSuccess = "success"
	KindError   = "error"
)

// Message is a single flash message.
type Message struct {
	Kind string `json:"k"`
	Text string `json:"t"`
}

type bag struct {
	mu        sync.Mutex
	pending   []Message
	hadCookie bool
}

type contextKey struct{}

// Store signs and verifies the flash cookie.
type Store struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewStore creates a Store signing with hashKey (32 or 64 bytes recommended).
func NewStore(hashKey []byte, secure bool) *Store {
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(600)
	return &Store{codec: codec, secure: secure}
}

// Middleware loads the messages of the incoming cookie and writes the
// remaining ones back right before the response headers are sent.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := &bag{}
		if c, err := r.Cookie(CookieName); err == nil {
			b.hadCookie = true
			var msgs []Message
			if err := s.codec.Decode(CookieName, c.Value, &msgs); err != nil {
				logging.FromContext(r.Context()).Debug("flash cookie rejected", slog.String("error", err.Error()))
			} else {
				b.pending = msgs
			}
		}

		rw := responsewriter.Wrap(w)
		rw.OnWriteHeader(func(_ int, h http.Header) {
			s.persist(r.Context(), b, h)
		})

		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), contextKey{}, b)))

		if !rw.HeaderWritten() {
			rw.WriteHeader(http.StatusOK)
		}
	})
}

func (s *Store) persist(ctx context.Context, b *bag, h http.Header) {
	b.mu.Lock()
	pending := b.pending
	b.mu.Unlock()

	cookie := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	switch {
	case len(pending) > 0:
		encoded, err := s.codec.Encode(CookieName, pending)
		if err != nil {
			logging.FromContext(ctx).Warn("flash cookie not written", slog.String("error", err.Error()))
			return
		}
		cookie.Value = encoded
	case b.hadCookie:
		cookie.MaxAge = -1
	default:
		return
	}
	h.Add("Set-Cookie", cookie.String())
}

// Add queues a message for the next rendered page. Outside Middleware it is a no-op.
func Add(ctx context.Context, kind, text string) {
	b, ok := ctx.Value(contextKey{}).(*bag)
	if !ok {
		return
	}
	b.mu.Lock()
	b.pending = append(b.pending, Message{Kind: kind, Text: text})
	b.mu.Unlock()
}

// Peek returns a copy of the pending messages without forgetting them.
func Peek(ctx context.Context) []Message {
	b, ok := ctx.Value(contextKey{}).(*bag)
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.pending...)
}

// Drop forgets the first n pending messages, the ones a page rendered.
func Drop(ctx context.Context, n int) {
	b, ok := ctx.Value(contextKey{}).(*bag)
	if !ok || n <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if n >= len(b.pending) {
		b.pending = nil
		return
	}
	b.pending = append([]Message(nil), b.pending[n:]...)
}

// Consume returns the pending messages and forgets them.
func Consume(ctx context.Context) []Message {
	b, ok := ctx.Value(contextKey{}).(*bag)
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	msgs := b.pending
	b.pending = nil
	return msgs
}
