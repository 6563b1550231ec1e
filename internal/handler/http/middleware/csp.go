package middleware

import (
	"net/http"
	"strings"

	"blog-publication/pkg/security/csp"
)

// CSPMiddlewareConfig selects the Content-Security-Policy of each response.
type CSPMiddlewareConfig struct {
	Enabled bool

	// DefaultPolicy applies when no PathPolicies prefix matches.
	DefaultPolicy *csp.CSPBuilder

	// PathPolicies maps path prefixes to policies; the longest prefix wins.
	PathPolicies map[string]*csp.CSPBuilder

	// ReportOnly sends the report-only header instead of enforcing.
	ReportOnly bool
}

// CSPMiddleware sets the Content-Security-Policy header.
type CSPMiddleware struct {
	enabled  bool
	fallback string
	header   string
	prefixes []prefixPolicy
}

type prefixPolicy struct {
	prefix string
	value  string
}

// NewCSPMiddleware renders the configured policies once; the builders are
// not referenced afterwards.
func NewCSPMiddleware(config CSPMiddlewareConfig) *CSPMiddleware {
	m := &CSPMiddleware{
		enabled: config.Enabled,
		header:  csp.NewCSPBuilder().ReportOnly(config.ReportOnly).HeaderName(),
	}
	if config.DefaultPolicy != nil {
		m.fallback = config.DefaultPolicy.Build()
	}
	for prefix, policy := range config.PathPolicies {
		if policy == nil {
			continue
		}
		m.prefixes = append(m.prefixes, prefixPolicy{prefix: prefix, value: policy.Build()})
	}
	return m
}

// Middleware wraps next.
func (m *CSPMiddleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.enabled {
				if value := m.selectPolicy(r.URL.Path); value != "" {
					w.Header().Set(m.header, value)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *CSPMiddleware) selectPolicy(path string) string {
	longest := -1
	value := m.fallback
	for _, p := range m.prefixes {
		if strings.HasPrefix(path, p.prefix) && len(p.prefix) > longest {
			longest = len(p.prefix)
			value = p.value
		}
	}
	return value
}

// SecurityHeaders sets the headers every HTML response of the blog carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
