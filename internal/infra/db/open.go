// Package db opens the application's database pool and applies its schema.
//
// Two drivers are supported: "pgx" (PostgreSQL through jackc/pgx) and
// "sqlite" (modernc.org/sqlite, the development default).
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"blog-publication/internal/resilience/retry"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// ErrUnsupportedDriver is returned by Open for any driver other than pgx or sqlite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Open creates and configures a connection pool for driver and waits until
// the database answers a ping. The ping is retried with backoff so the
// server can start before its database is ready.
func Open(ctx context.Context, driver, dsn string, pool ConnectionConfig) (*sql.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
		pool = sqlitePool(dsn, pool)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database dsn is empty")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("driver", driver),
		slog.Int("max_open_conns", pool.MaxOpenConns),
		slog.Int("max_idle_conns", pool.MaxIdleConns),
		slog.Duration("conn_max_lifetime", pool.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", pool.ConnMaxIdleTime))

	err = retry.WithBackoff(ctx, retry.ConnectConfig(), func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pingError(db.PingContext(pingCtx))
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connection established successfully", slog.String("driver", driver))
	return db, nil
}

// pingError marks failures that waiting cannot fix as permanent: rejected
// credentials (SQLSTATE class 28) and an unknown database (3D000).
func pingError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (strings.HasPrefix(pgErr.Code, "28") || pgErr.Code == "3D000") {
		return retry.Permanent(err)
	}
	return err
}

// sqliteDSN turns on foreign keys (comment cascade depends on them) and a
// busy timeout for every connection of the pool.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "file:blog.db"
	}
	var pragmas []string
	if !strings.Contains(dsn, "foreign_keys") {
		pragmas = append(pragmas, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "busy_timeout") {
		pragmas = append(pragmas, "_pragma=busy_timeout(5000)")
	}
	if len(pragmas) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(pragmas, "&")
}

// An in-memory database lives as long as its single connection, so the pool
// is pinned to one connection that never expires.
func sqlitePool(dsn string, pool ConnectionConfig) ConnectionConfig {
	if !isMemoryDSN(dsn) {
		return pool
	}
	return ConnectionConfig{MaxOpenConns: 1, MaxIdleConns: 1}
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
