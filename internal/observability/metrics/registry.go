// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Blog metrics count content mutations and access control outcomes
var (
	// ArticlesPublishedTotal counts successfully published articles
	ArticlesPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_articles_published_total",
			Help: "Total number of published articles",
		},
	)

	// ArticlesEditedTotal counts successful article edits
	ArticlesEditedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_articles_edited_total",
			Help: "Total number of edited articles",
		},
	)

	// ArticlesDeletedTotal counts deleted articles
	ArticlesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_articles_deleted_total",
			Help: "Total number of deleted articles",
		},
	)

	// CommentsTotal counts comment mutations by action (posted, deleted)
	CommentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_comments_total",
			Help: "Total number of comment mutations",
		},
		[]string{"action"},
	)

	// FormRejectionsTotal counts rejected form submissions by form and reason
	FormRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_form_rejections_total",
			Help: "Total number of rejected form submissions",
		},
		[]string{"form", "reason"}, // reason: validation, csrf
	)

	// LoginAttemptsTotal counts login attempts by result
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // result: success, failure, throttled
	)

	// AccessDeniedTotal counts guarded route refusals by outcome
	AccessDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_access_denied_total",
			Help: "Total number of refused requests on guarded routes",
		},
		[]string{"outcome"}, // outcome: login_redirect, forbidden
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBCircuitState exposes the database circuit breaker state (0 closed, 1 half-open, 2 open)
	DBCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_circuit_breaker_state",
			Help: "Database circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordOperationDuration records the duration of a named operation
func RecordOperationDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCommentMutation records a posted or deleted comment.
func RecordCommentMutation(action string) {
	CommentsTotal.WithLabelValues(action).Inc()
}

// RecordFormRejection records a form redisplayed because of invalid input.
func RecordFormRejection(form, reason string) {
	FormRejectionsTotal.WithLabelValues(form, reason).Inc()
}

// RecordLoginAttempt records the result of a login attempt.
func RecordLoginAttempt(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordAccessDenied records a refused request on a guarded route.
func RecordAccessDenied(outcome string) {
	AccessDeniedTotal.WithLabelValues(outcome).Inc()
}

// SetDBCircuitState publishes the breaker state.
func SetDBCircuitState(state int) {
	DBCircuitState.Set(float64(state))
}
