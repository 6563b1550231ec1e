package repository

import (
	"context"

	"blog-publication/internal/domain/entity"
)

// ArticleWithAuthor represents an article along with its author's pseudonym.
type ArticleWithAuthor struct {
	Article         *entity.Article
	AuthorPseudonym string
}

type ArticleRepository interface {
	// ListPaginated returns one page of articles ordered by published_at DESC, id DESC.
	ListPaginated(ctx context.Context, offset, limit int) ([]ArticleWithAuthor, error)
	// CountArticles returns the total number of articles.
	CountArticles(ctx context.Context) (int64, error)
	// SearchPaginated returns one page of articles whose title or content
	// contains query as a literal substring. An empty query matches everything.
	SearchPaginated(ctx context.Context, query string, offset, limit int) ([]ArticleWithAuthor, error)
	// CountSearch returns the number of articles SearchPaginated can return for query.
	CountSearch(ctx context.Context, query string) (int64, error)
	Get(ctx context.Context, id int64) (*entity.Article, error)
	GetBySlug(ctx context.Context, slug string) (*ArticleWithAuthor, error)
	// SlugExists reports whether slug is used by an article other than excludeID.
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	// Create inserts the article and sets its ID.
	Create(ctx context.Context, article *entity.Article) error
	// Update stores title, content and slug. Author and publication date are immutable.
	Update(ctx context.Context, article *entity.Article) error
	// Delete removes the article; its comments go with it.
	Delete(ctx context.Context, id int64) error
}
