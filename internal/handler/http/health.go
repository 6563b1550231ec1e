// Package http assembles the blog's HTTP surface: the middleware chain, the
// health probes, the metrics endpoint and the route table.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"blog-publication/internal/handler/http/respond"
	"blog-publication/internal/observability/logging"
)

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string                 `json:"status"` // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerState reports the state of the database circuit breaker.
type BreakerState interface {
	State() gobreaker.State
}

// HealthHandler reports database connectivity, pool usage and the circuit
// breaker state.
type HealthHandler struct {
	DB      *sql.DB
	Breaker BreakerState
	Version string

	// Informational checks
	CSPEnabled       bool
	LoginLimitActive func() int
}

// ServeHTTP answers 200 when the database is reachable, 503 otherwise.
// A degraded pool is reported but still answers 200.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	status := "healthy"

	if h.DB == nil {
		checks["database"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		status = "unhealthy"
	} else {
		dbCheck := h.checkDatabase(ctx)
		checks["database"] = dbCheck
		switch dbCheck.Status {
		case "unhealthy":
			status = "unhealthy"
		case "degraded":
			status = "degraded"
		}
	}

	if h.Breaker != nil {
		state := h.Breaker.State()
		check := CheckStatus{Status: "healthy", Details: map[string]any{"state": state.String()}}
		if state == gobreaker.StateOpen {
			check.Status = "unhealthy"
			status = "unhealthy"
		}
		checks["circuit_breaker"] = check
	}

	if h.LoginLimitActive != nil {
		checks["login_rate_limit"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]any{"tracked_addresses": h.LoginLimitActive()},
		}
	}
	checks["csp"] = CheckStatus{Status: "healthy", Details: map[string]any{"enabled": h.CSPEnabled}}

	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// checkDatabase pings the database and reports pool statistics.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: "unhealthy", Message: respond.SanitizeError(err)}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	// zero means unlimited
	if stats.MaxOpenConnections == 0 {
		return CheckStatus{Status: "healthy", Details: details}
	}

	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80.0 {
		return CheckStatus{
			Status:  "degraded",
			Message: "connection pool utilization above 80%",
			Details: details,
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// Pinger is satisfied by *sql.DB and the circuit breaker wrapper.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadyHandler is the readiness probe: ready once the database answers.
type ReadyHandler struct {
	DB Pinger
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		logging.FromContext(ctx).Warn("readiness check failed", "error", respond.SanitizeError(err))
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler is the liveness probe.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("alive"))
}
