package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

// CommentRepo implements the CommentRepository interface using SQLite.
type CommentRepo struct{ db repository.DBTX }

// NewCommentRepo creates a new SQLite-backed comment repository.
func NewCommentRepo(db repository.DBTX) repository.CommentRepository {
	return &CommentRepo{db: db}
}

func (repo *CommentRepo) ListByArticle(ctx context.Context, articleID int64) ([]repository.CommentWithAuthor, error) {
	const query = `
SELECT c.id, c.content, c.published_at, c.author_id, c.article_id, u.pseudonym
FROM comments c
INNER JOIN users u ON c.author_id = u.id
WHERE c.article_id = ?
ORDER BY c.published_at ASC, c.id ASC
`
	rows, err := repo.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("ListByArticle: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []repository.CommentWithAuthor
	for rows.Next() {
		var c entity.Comment
		var pseudonym string
		if err := rows.Scan(&c.ID, &c.Content, &c.PublishedAt, &c.AuthorID, &c.ArticleID, &pseudonym); err != nil {
			return nil, fmt.Errorf("ListByArticle: Scan: %w", err)
		}
		result = append(result, repository.CommentWithAuthor{Comment: &c, AuthorPseudonym: pseudonym})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByArticle: rows.Err: %w", err)
	}
	return result, nil
}

func (repo *CommentRepo) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	const query = `
SELECT id, content, published_at, author_id, article_id
FROM comments
WHERE id = ?
LIMIT 1
`
	var c entity.Comment
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Content, &c.PublishedAt, &c.AuthorID, &c.ArticleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return &c, nil
}

func (repo *CommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	const query = `
INSERT INTO comments (content, published_at, author_id, article_id)
VALUES (?, ?, ?, ?)
`
	res, err := repo.db.ExecContext(ctx, query,
		comment.Content, comment.PublishedAt.UTC(), comment.AuthorID, comment.ArticleID)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	comment.ID = id
	return nil
}

func (repo *CommentRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
