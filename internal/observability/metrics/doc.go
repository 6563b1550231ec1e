// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the application metrics:
//   - HTTP request metrics (duration, count, size)
//   - Blog metrics (publications, comments, rejected forms, logins)
//   - Database query and circuit breaker metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "blog-publication/internal/observability/metrics"
//
//	func publish() {
//	    start := time.Now()
//	    // ... persist the article ...
//	    metrics.ArticlesPublishedTotal.Inc()
//	    metrics.RecordOperationDuration("article_create", time.Since(start))
//	}
package metrics
