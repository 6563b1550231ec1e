// Package tracing provides OpenTelemetry tracing integration.
//
// The HTTP middleware opens a server span per request and exposes the trace id
// in the X-Trace-Id response header. Use cases open child spans through
// StartSpan so that database work shows up under the request that caused it.
//
// Setup installs the SDK tracer provider; exporters are passed by the caller.
// Tests install an in-memory one.
//
// Example usage:
//
//	func (s *Service) List(ctx context.Context, page int) (...) {
//	    ctx, span := tracing.StartSpan(ctx, "article.List")
//	    defer span.End()
//	    // ... query the repository with ctx ...
//	}
package tracing
