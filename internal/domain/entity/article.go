// Package entity defines the core domain entities and validation logic for the blog.
// It contains the fundamental business objects (User, Article, Comment) along with
// their form validation rules, slug derivation and domain-specific errors.
package entity

import "time"

// Article limits, in characters.
const (
	TitleMaxLength   = 150
	ContentMaxLength = 20000
)

// Article represents a published blog article.
// PublishedAt is assigned once at creation and never changes afterwards.
type Article struct {
	ID          int64
	Title       string
	Content     string
	Slug        string
	PublishedAt time.Time
	AuthorID    int64
}

// NewArticle builds a not-yet-persisted article authored by authorID.
func NewArticle(title, content, slug string, authorID int64, publishedAt time.Time) Article {
	return Article{
		Title:       title,
		Content:     content,
		Slug:        slug,
		PublishedAt: publishedAt,
		AuthorID:    authorID,
	}
}

// WithEdit returns a copy of the article carrying the edited title, content and slug.
// Identity, author and publication date are kept.
func (a Article) WithEdit(title, content, slug string) Article {
	a.Title = title
	a.Content = content
	a.Slug = slug
	return a
}
