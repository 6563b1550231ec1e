package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLimiter_Allow(t *testing.T) {
	l := NewLoginLimiter(3, nil, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("203.0.113.1"), "attempt %d", i+1)
	}
	assert.False(t, l.Allow("203.0.113.1"))
	assert.True(t, l.Allow("203.0.113.2"), "other addresses have their own bucket")

	now = now.Add(20 * time.Second)
	assert.True(t, l.Allow("203.0.113.1"), "one token refilled")
	assert.False(t, l.Allow("203.0.113.1"))
}

func TestLoginLimiter_ForgetsIdleAddresses(t *testing.T) {
	l := NewLoginLimiter(5, nil, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("203.0.113.1")
	l.Allow("203.0.113.2")
	require.Equal(t, 2, l.Tracked())

	now = now.Add(11 * time.Minute)
	l.Allow("203.0.113.3")
	assert.Equal(t, 1, l.Tracked())
}

func TestLoginLimiter_Middleware(t *testing.T) {
	denied := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	})
	l := NewLoginLimiter(1, &RemoteAddrExtractor{}, denied)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/connexion/", nil)
		req.RemoteAddr = "198.51.100.7:4242"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusFound, post().Code)
	rec := post()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "slow down", rec.Body.String())
}
