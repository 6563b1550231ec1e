package repository

import (
	"context"

	"blog-publication/internal/domain/entity"
)

// CommentWithAuthor represents a comment along with its author's pseudonym.
type CommentWithAuthor struct {
	Comment         *entity.Comment
	AuthorPseudonym string
}

type CommentRepository interface {
	// ListByArticle returns the comments of an article, oldest first.
	ListByArticle(ctx context.Context, articleID int64) ([]CommentWithAuthor, error)
	Get(ctx context.Context, id int64) (*entity.Comment, error)
	// Create inserts the comment and sets its ID.
	Create(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id int64) error
}
