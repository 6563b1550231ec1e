// Package repository declares the persistence gateways used by the use cases.
//
// Implementations live under internal/infra/adapter/persistence (postgres, sqlite).
// Lookups that find nothing return (nil, nil); callers decide whether that is
// a not-found condition.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrDuplicateSlug is returned by ArticleRepository.Create and Update when the
// slug is already used by another article.
var ErrDuplicateSlug = errors.New("slug already in use")

// ErrDuplicateEmail is returned by UserRepository.Create when the email is taken.
var ErrDuplicateEmail = errors.New("email already in use")

// DBTX is the subset of *sql.DB the repositories need. It is satisfied by
// *sql.DB and by the circuit breaker wrapper.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
