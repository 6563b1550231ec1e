// Package sqlite provides SQLite implementations of repository interfaces.
// It backs local development and single-node deployments.
package sqlite

import "strings"

// isUniqueViolation reports whether err is a UNIQUE constraint failure on column
// (for example "articles.slug"). An empty column matches any unique failure.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return column == "" || strings.Contains(msg, column)
}
