package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// loginDuration tracks login handling duration by result.
	loginDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_login_duration_seconds",
			Help:    "Login duration by result",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"result"},
	)

	// sessionRejections counts session cookies that did not yield a user.
	sessionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_session_rejections_total",
			Help: "Session cookies rejected by reason",
		},
		[]string{"reason"}, // invalid | unknown_user | lookup_error
	)
)

func recordLoginDuration(result string, seconds float64) {
	loginDuration.WithLabelValues(result).Observe(seconds)
}

func recordSessionRejection(reason string) {
	sessionRejections.WithLabelValues(reason).Inc()
}
