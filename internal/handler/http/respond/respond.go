// Package respond provides small helpers for non-HTML responses (health probes,
// panics, throttling). It sanitizes errors so that connection strings and
// secrets never reach clients or logs.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Text writes the standard status text as a plain text body.
func Text(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(http.StatusText(code) + "\n"))
}

// SafeError logs err with secrets masked and answers with the bare status
// text. The error message itself is never sent to the client.
func SafeError(w http.ResponseWriter, logger *slog.Logger, code int, err error) {
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("request failed",
			slog.String("status", http.StatusText(code)),
			slog.Int("code", code),
			slog.String("error", SanitizeError(err)))
	}
	Text(w, code)
}
