package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"blog-publication/internal/observability/logging"
	"blog-publication/internal/observability/metrics"
)

// LoginLimiter throttles login attempts per client address with a token
// bucket: Burst attempts at once, refilled at PerMinute.
type LoginLimiter struct {
	extractor IPExtractor
	refill    time.Duration
	burst     int
	idle      time.Duration
	denied    http.Handler

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows perMinute attempts a minute per address. denied
// answers throttled requests after the Retry-After header is set.
func NewLoginLimiter(perMinute int, extractor IPExtractor, denied http.Handler) *LoginLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	if extractor == nil {
		extractor = &RemoteAddrExtractor{}
	}
	return &LoginLimiter{
		extractor: extractor,
		refill:    time.Minute / time.Duration(perMinute),
		burst:     perMinute,
		idle:      10 * time.Minute,
		denied:    denied,
		visitors:  make(map[string]*visitor),
		now:       time.Now,
	}
}

// Allow records an attempt from ip and reports whether it may proceed.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.refill), l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep forgets addresses idle for longer than l.idle. Called with l.mu held.
func (l *LoginLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.idle {
			delete(l.visitors, ip)
		}
	}
}

// Tracked returns the number of addresses currently remembered.
func (l *LoginLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Middleware throttles next.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := l.extractor.ExtractIP(r)
		if err != nil {
			ip = r.RemoteAddr
		}
		if l.Allow(ip) {
			next.ServeHTTP(w, r)
			return
		}

		metrics.RecordLoginAttempt("throttled")
		logging.FromContext(r.Context()).Warn("login throttled", slog.String("ip", ip))
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(l.refill.Seconds()))))
		if l.denied != nil {
			l.denied.ServeHTTP(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
	})
}
