package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"
)

// DB wraps a connection pool with circuit breaker protection.
// It satisfies the repositories' DBTX interface.
type DB struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig returns configuration tuned for the database breaker.
// Opens after 5 consecutive failures, 30 second timeout.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

// NewDB wraps db with a breaker using DBConfig.
func NewDB(db *sql.DB) *DB {
	return NewDBWithConfig(db, DBConfig())
}

// NewDBWithConfig wraps db with a breaker using cfg.
func NewDBWithConfig(db *sql.DB, cfg Config) *DB {
	return &DB{cb: New(cfg), db: db}
}

// QueryContext executes a query with circuit breaker protection.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	result, err := d.cb.Execute(func() (interface{}, error) {
		return d.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Rows), nil
}

// ExecContext executes a statement with circuit breaker protection.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := d.cb.Execute(func() (interface{}, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(sql.Result), nil
}

// QueryRowContext executes a query that returns at most one row.
// sql.Row defers its error to Scan, so the breaker cannot observe the outcome;
// single row lookups bypass it.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

// PingContext checks the connection, bypassing the breaker so that readiness
// probes observe the real database state.
func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// State returns the current state of the circuit breaker.
func (d *DB) State() gobreaker.State {
	return d.cb.State()
}

// IsOpen returns true if the circuit breaker is in the open state.
func (d *DB) IsOpen() bool {
	return d.cb.IsOpen()
}

// Unwrap returns the underlying pool.
func (d *DB) Unwrap() *sql.DB {
	return d.db
}
