// Package logging provides structured logging utilities with context propagation.
//
// Example usage:
//
//	import "blog-publication/internal/observability/logging"
//
//	func main() {
//	    logger := logging.New(os.Stdout, "info")
//	    logger.Info("application started", slog.String("addr", ":8080"))
//	}
//
//	func handleRequest(ctx context.Context) {
//	    logger := logging.WithRequestID(ctx, slog.Default())
//	    logger.Info("processing request")
//	}
package logging
