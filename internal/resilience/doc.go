// Package resilience groups the fault tolerance helpers used around the database.
//
//   - circuitbreaker: fails fast while the database is known to be down
//   - retry: exponential backoff for the initial connection at startup
//
// Request level persistence calls are never retried; a failed statement is
// reported to the caller as is.
package resilience
