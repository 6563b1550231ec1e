// Package observability groups the logging, metrics and tracing infrastructure.
//
// Subpackages:
//   - logging: structured logging with slog and request id propagation
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracing middleware and span helpers
//
// Example usage:
//
//	import (
//	    "blog-publication/internal/observability/logging"
//	    "blog-publication/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.New(os.Stdout, "info")
//	    logger.Info("application started")
//
//	    metrics.RecordLoginAttempt("success")
//	}
package observability
