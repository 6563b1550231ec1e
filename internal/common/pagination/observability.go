package pagination

import (
	"log/slog"
	"time"
)

// LogPage logs an assembled page at debug level.
func LogPage(logger *slog.Logger, listing string, params Params, returned int, total int64, duration time.Duration) {
	logger.Debug("paginated listing",
		slog.String("listing", listing),
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit),
		slog.Int("returned_count", returned),
		slog.Int64("total", total),
		slog.Int64("duration_ms", duration.Milliseconds()))
}
