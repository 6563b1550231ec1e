package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

// ArticleRepo implements the ArticleRepository interface using SQLite.
type ArticleRepo struct {
	db           repository.DBTX
	queryBuilder *ArticleQueryBuilder
}

// NewArticleRepo creates a new SQLite-backed article repository.
func NewArticleRepo(db repository.DBTX) repository.ArticleRepository {
	return &ArticleRepo{db: db, queryBuilder: NewArticleQueryBuilder()}
}

const articleSelect = `
SELECT a.id, a.title, a.content, a.slug, a.published_at, a.author_id, u.pseudonym
FROM articles a
INNER JOIN users u ON a.author_id = u.id
`

func scanArticleRows(rows *sql.Rows, capacity int) ([]repository.ArticleWithAuthor, error) {
	result := make([]repository.ArticleWithAuthor, 0, capacity)
	for rows.Next() {
		var article entity.Article
		var pseudonym string
		if err := rows.Scan(&article.ID, &article.Title, &article.Content, &article.Slug,
			&article.PublishedAt, &article.AuthorID, &pseudonym); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		result = append(result, repository.ArticleWithAuthor{Article: &article, AuthorPseudonym: pseudonym})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return result, nil
}

// ListPaginated retrieves one page of articles, newest first.
func (repo *ArticleRepo) ListPaginated(ctx context.Context, offset, limit int) ([]repository.ArticleWithAuthor, error) {
	const query = articleSelect + `ORDER BY a.published_at DESC, a.id DESC
LIMIT ? OFFSET ?
`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanArticleRows(rows, limit)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	return result, nil
}

// CountArticles returns the total number of articles.
func (repo *ArticleRepo) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountArticles: QueryRowContext: %w", err)
	}
	return count, nil
}

// SearchPaginated retrieves one page of articles whose title or content contains query.
func (repo *ArticleRepo) SearchPaginated(ctx context.Context, query string, offset, limit int) ([]repository.ArticleWithAuthor, error) {
	where, args := repo.queryBuilder.BuildWhereClause(query, "a")
	sqlQuery := articleSelect + where + `
ORDER BY a.published_at DESC, a.id DESC
LIMIT ? OFFSET ?
`
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchPaginated: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanArticleRows(rows, limit)
	if err != nil {
		return nil, fmt.Errorf("SearchPaginated: %w", err)
	}
	return result, nil
}

// CountSearch returns the number of articles matching query.
func (repo *ArticleRepo) CountSearch(ctx context.Context, query string) (int64, error) {
	where, args := repo.queryBuilder.BuildWhereClause(query, "")
	var count int64
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles "+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountSearch: QueryRowContext: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT id, title, content, slug, published_at, author_id
FROM articles
WHERE id = ?
LIMIT 1
`
	var article entity.Article
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&article.ID, &article.Title, &article.Content, &article.Slug,
		&article.PublishedAt, &article.AuthorID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return &article, nil
}

func (repo *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*repository.ArticleWithAuthor, error) {
	const query = articleSelect + `WHERE a.slug = ?
LIMIT 1
`
	var article entity.Article
	var pseudonym string
	err := repo.db.QueryRowContext(ctx, query, slug).Scan(
		&article.ID, &article.Title, &article.Content, &article.Slug,
		&article.PublishedAt, &article.AuthorID, &pseudonym,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetBySlug: QueryRowContext: %w", err)
	}
	return &repository.ArticleWithAuthor{Article: &article, AuthorPseudonym: pseudonym}, nil
}

func (repo *ArticleRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM articles WHERE slug = ? AND id <> ?)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("SlugExists: QueryRowContext: %w", err)
	}
	return exists, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles (title, content, slug, published_at, author_id)
VALUES (?, ?, ?, ?, ?)
`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Content, article.Slug, article.PublishedAt.UTC(), article.AuthorID)
	if isUniqueViolation(err, "articles.slug") {
		return fmt.Errorf("Create: %w", repository.ErrDuplicateSlug)
	}
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	article.ID = id
	return nil
}

func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	const query = `
UPDATE articles
SET title = ?, content = ?, slug = ?
WHERE id = ?
`
	res, err := repo.db.ExecContext(ctx, query, article.Title, article.Content, article.Slug, article.ID)
	if isUniqueViolation(err, "articles.slug") {
		return fmt.Errorf("Update: %w", repository.ErrDuplicateSlug)
	}
	if err != nil {
		return fmt.Errorf("Update: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

// Delete removes the article; comments cascade through the foreign key.
func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
