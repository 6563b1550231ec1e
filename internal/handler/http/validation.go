package http

import (
	"net/http"
)

// Request limits enforced by InputValidation.
const (
	MaxCookieHeaderBytes = 8 << 10
	MaxPathBytes         = 2 << 10
	MaxBodyBytes         = 1 << 20
)

// InputValidation rejects oversized requests before they reach a handler.
// The body limit leaves room for the longest article form.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Cookie")) > MaxCookieHeaderBytes {
				http.Error(w, "cookie header too large", http.StatusRequestHeaderFieldsTooLarge)
				return
			}
			if len(r.URL.Path) > MaxPathBytes {
				http.Error(w, "URI too long", http.StatusRequestURITooLong)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}
