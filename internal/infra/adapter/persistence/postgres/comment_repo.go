package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

type CommentRepo struct {
	db repository.DBTX
}

func NewCommentRepo(db repository.DBTX) repository.CommentRepository {
	return &CommentRepo{db: db}
}

func (repo *CommentRepo) ListByArticle(ctx context.Context, articleID int64) ([]repository.CommentWithAuthor, error) {
	const query = `
SELECT c.id, c.content, c.published_at, c.author_id, c.article_id, u.pseudonym
FROM comments c
INNER JOIN users u ON c.author_id = u.id
WHERE c.article_id = $1
ORDER BY c.published_at ASC, c.id ASC`
	rows, err := repo.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("ListByArticle: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.CommentWithAuthor, 0, 16)
	for rows.Next() {
		var c entity.Comment
		var pseudonym string
		if err := rows.Scan(&c.ID, &c.Content, &c.PublishedAt, &c.AuthorID, &c.ArticleID, &pseudonym); err != nil {
			return nil, fmt.Errorf("ListByArticle: Scan: %w", err)
		}
		result = append(result, repository.CommentWithAuthor{Comment: &c, AuthorPseudonym: pseudonym})
	}
	return result, rows.Err()
}

func (repo *CommentRepo) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	const query = `
SELECT id, content, published_at, author_id, article_id
FROM comments
WHERE id = $1
LIMIT 1`
	var c entity.Comment
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Content, &c.PublishedAt, &c.AuthorID, &c.ArticleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &c, nil
}

func (repo *CommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	const query = `
INSERT INTO comments (content, published_at, author_id, article_id)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		comment.Content, comment.PublishedAt, comment.AuthorID, comment.ArticleID,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *CommentRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM comments WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
