package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

type ArticleRepo struct {
	db           repository.DBTX
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db repository.DBTX) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

const articleColumns = `a.id, a.title, a.content, a.slug, a.published_at, a.author_id, u.pseudonym`

func scanArticles(rows *sql.Rows, capacity int) ([]repository.ArticleWithAuthor, error) {
	result := make([]repository.ArticleWithAuthor, 0, capacity)
	for rows.Next() {
		var article entity.Article
		var pseudonym string
		if err := rows.Scan(&article.ID, &article.Title, &article.Content, &article.Slug,
			&article.PublishedAt, &article.AuthorID, &pseudonym); err != nil {
			return nil, err
		}
		result = append(result, repository.ArticleWithAuthor{
			Article:         &article,
			AuthorPseudonym: pseudonym,
		})
	}
	return result, rows.Err()
}

// ListPaginated retrieves one page of articles with their author pseudonyms.
func (repo *ArticleRepo) ListPaginated(ctx context.Context, offset, limit int) ([]repository.ArticleWithAuthor, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles a
INNER JOIN users u ON a.author_id = u.id
ORDER BY a.published_at DESC, a.id DESC
LIMIT $1 OFFSET $2`

	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanArticles(rows, limit)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: Scan: %w", err)
	}
	return result, nil
}

// CountArticles returns the total number of articles in the database.
func (repo *ArticleRepo) CountArticles(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountArticles: %w", err)
	}
	return count, nil
}

// SearchPaginated retrieves one page of articles whose title or content contains query.
func (repo *ArticleRepo) SearchPaginated(ctx context.Context, query string, offset, limit int) ([]repository.ArticleWithAuthor, error) {
	where, args := repo.queryBuilder.BuildWhereClause(query, "a")
	n := len(args)
	sqlQuery := fmt.Sprintf(`
SELECT `+articleColumns+`
FROM articles a
INNER JOIN users u ON a.author_id = u.id
%s
ORDER BY a.published_at DESC, a.id DESC
LIMIT $%d OFFSET $%d`, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanArticles(rows, limit)
	if err != nil {
		return nil, fmt.Errorf("SearchPaginated: Scan: %w", err)
	}
	return result, nil
}

// CountSearch returns the number of articles matching query.
func (repo *ArticleRepo) CountSearch(ctx context.Context, query string) (int64, error) {
	where, args := repo.queryBuilder.BuildWhereClause(query, "")
	sqlQuery := "SELECT COUNT(*) FROM articles " + where

	var count int64
	if err := repo.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountSearch: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT id, title, content, slug, published_at, author_id
FROM articles
WHERE id = $1
LIMIT 1`
	var article entity.Article
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&article.ID, &article.Title, &article.Content, &article.Slug,
			&article.PublishedAt, &article.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &article, nil
}

func (repo *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*repository.ArticleWithAuthor, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles a
INNER JOIN users u ON a.author_id = u.id
WHERE a.slug = $1
LIMIT 1`
	var article entity.Article
	var pseudonym string
	err := repo.db.QueryRowContext(ctx, query, slug).
		Scan(&article.ID, &article.Title, &article.Content, &article.Slug,
			&article.PublishedAt, &article.AuthorID, &pseudonym)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return &repository.ArticleWithAuthor{Article: &article, AuthorPseudonym: pseudonym}, nil
}

func (repo *ArticleRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("SlugExists: %w", err)
	}
	return exists, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles (title, content, slug, published_at, author_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		article.Title, article.Content, article.Slug, article.PublishedAt, article.AuthorID,
	).Scan(&article.ID)
	if isUniqueViolation(err, "articles_slug_key") {
		return fmt.Errorf("Create: %w", repository.ErrDuplicateSlug)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	const query = `
UPDATE articles
SET title = $1, content = $2, slug = $3
WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Content, article.Slug, article.ID)
	if isUniqueViolation(err, "articles_slug_key") {
		return fmt.Errorf("Update: %w", repository.ErrDuplicateSlug)
	}
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

// Delete removes the article. Comments are removed by ON DELETE CASCADE in the same statement.
func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM articles WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
