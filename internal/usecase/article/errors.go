// Package article provides the article use cases of the blog: publishing,
// listing, viewing, editing, deleting and searching publications.
package article

import "errors"

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that no article matches the requested id or slug.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidArticleID indicates that the provided article ID is not positive.
	ErrInvalidArticleID = errors.New("invalid article ID")

	// ErrForbidden indicates that the actor lacks the role the operation needs.
	ErrForbidden = errors.New("forbidden")

	// ErrSlugExhausted is returned when no free slug could be found for a title.
	ErrSlugExhausted = errors.New("no free slug for title")
)
