// Command blogctl administers the blog database: migrations, fake data and
// operator-created accounts.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"blog-publication/internal/observability/logging"
)

func main() {
	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		logger.Error("blogctl failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}
