package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts paginated listing requests.
	// Labels: listing (list, search), page_range (1-10, 11-50, ...)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_pagination_requests_total",
			Help: "Total number of paginated listing requests",
		},
		[]string{"listing", "page_range"},
	)

	// DurationSeconds tracks how long a listing takes to assemble.
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_pagination_duration_seconds",
			Help:    "Paginated listing duration distribution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"listing"},
	)

	// TotalCount tracks the number of published articles, updated on each
	// list COUNT query.
	TotalCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_articles_total",
			Help: "Current total number of published articles",
		},
	)

	// ErrorsTotal counts pagination errors by type.
	// Labels: type (invalid_page, database)
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"type"},
	)
)

// RecordRequest records a paginated request for listing at page.
func RecordRequest(listing string, page int) {
	RequestsTotal.WithLabelValues(listing, getPageRangeBucket(page)).Inc()
}

// RecordDuration records a listing duration in seconds.
func RecordDuration(listing string, seconds float64) {
	DurationSeconds.WithLabelValues(listing).Observe(seconds)
}

// UpdateTotalCount updates the article count gauge.
func UpdateTotalCount(count int64) {
	TotalCount.Set(float64(count))
}

// RecordError records an error metric.
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
