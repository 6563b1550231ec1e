package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/infra/adapter/persistence/postgres"
	"blog-publication/internal/repository"
)

/* ──────────────────────────── helpers ──────────────────────────── */

var articleCols = []string{"id", "title", "content", "slug", "published_at", "author_id", "pseudonym"}

func sampleArticle(id int64, published time.Time) *entity.Article {
	return &entity.Article{
		ID: id, Title: "Hello World!", Content: "<p>Body</p>",
		Slug: "hello-world", PublishedAt: published, AuthorID: 1,
	}
}

/* ──────────────────────────── 1. ListPaginated ──────────────────────────── */

func TestArticleRepo_ListPaginated(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	a1 := sampleArticle(2, now)
	a2 := sampleArticle(1, now.Add(-time.Hour))
	a2.Slug = "hello-world-1"

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.published_at DESC, a.id DESC\nLIMIT $1 OFFSET $2")).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(articleCols).
			AddRow(a1.ID, a1.Title, a1.Content, a1.Slug, a1.PublishedAt, a1.AuthorID, "Batman").
			AddRow(a2.ID, a2.Title, a2.Content, a2.Slug, a2.PublishedAt, a2.AuthorID, "Batman"))

	repo := postgres.NewArticleRepo(db)
	got, err := repo.ListPaginated(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("ListPaginated err=%v", err)
	}

	want := []repository.ArticleWithAuthor{
		{Article: a1, AuthorPseudonym: "Batman"},
		{Article: a2, AuthorPseudonym: "Batman"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ListPaginated mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────── 2. Search ──────────────────────────── */

func TestArticleRepo_SearchPaginated_EscapesWildcards(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE (a.title ILIKE $1 ESCAPE '\' OR a.content ILIKE $1 ESCAPE '\')`)).
		WithArgs(`%100\%%`, 15, 0).
		WillReturnRows(sqlmock.NewRows(articleCols))

	repo := postgres.NewArticleRepo(db)
	got, err := repo.SearchPaginated(context.Background(), "100%", 0, 15)
	if err != nil {
		t.Fatalf("SearchPaginated err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_SearchPaginated_EmptyQueryMatchesAll(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	a := sampleArticle(1, now)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(15, 15).
		WillReturnRows(sqlmock.NewRows(articleCols).
			AddRow(a.ID, a.Title, a.Content, a.Slug, a.PublishedAt, a.AuthorID, "Batman"))

	repo := postgres.NewArticleRepo(db)
	got, err := repo.SearchPaginated(context.Background(), "   ", 15, 15)
	if err != nil {
		t.Fatalf("SearchPaginated err=%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
}

func TestArticleRepo_CountSearch(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM articles WHERE (title ILIKE $1 ESCAPE '\' OR content ILIKE $1 ESCAPE '\')`)).
		WithArgs("%go%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := postgres.NewArticleRepo(db)
	n, err := repo.CountSearch(context.Background(), "go")
	if err != nil || n != 3 {
		t.Fatalf("CountSearch = %d, %v", n, err)
	}
}

/* ──────────────────────────── 3. Get / GetBySlug ──────────────────────────── */

func TestArticleRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	want := sampleArticle(1, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM articles\nWHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(articleCols[:6]).
			AddRow(want.ID, want.Title, want.Content, want.Slug, want.PublishedAt, want.AuthorID))

	repo := postgres.NewArticleRepo(db)
	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleRepo_GetBySlug_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.slug = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(articleCols))

	repo := postgres.NewArticleRepo(db)
	got, err := repo.GetBySlug(context.Background(), "missing")
	if err != nil || got != nil {
		t.Fatalf("GetBySlug = %v, %v; want nil, nil", got, err)
	}
}

func TestArticleRepo_SlugExists(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)")).
		WithArgs("hello-world", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := postgres.NewArticleRepo(db)
	ok, err := repo.SlugExists(context.Background(), "hello-world", 0)
	if err != nil || !ok {
		t.Fatalf("SlugExists = %v, %v", ok, err)
	}
}

/* ──────────────────────────── 4. Create / Update / Delete ──────────────────────────── */

func TestArticleRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	art := sampleArticle(0, now)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO articles")).
		WithArgs(art.Title, art.Content, art.Slug, art.PublishedAt, art.AuthorID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	repo := postgres.NewArticleRepo(db)
	if err := repo.Create(context.Background(), art); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if art.ID != 42 {
		t.Fatalf("ID not set, got %d", art.ID)
	}
}

func TestArticleRepo_Create_DuplicateSlug(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO articles")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "articles_slug_key"})

	repo := postgres.NewArticleRepo(db)
	err := repo.Create(context.Background(), sampleArticle(0, time.Now()))
	if !errors.Is(err, repository.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestArticleRepo_Update(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	art := sampleArticle(5, time.Now())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE articles\nSET title = $1, content = $2, slug = $3\nWHERE id = $4")).
		WithArgs(art.Title, art.Content, art.Slug, art.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE articles")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := postgres.NewArticleRepo(db)
	if err := repo.Update(context.Background(), art); err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if err := repo.Update(context.Background(), art); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing row, got %v", err)
	}
}

func TestArticleRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM articles WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := postgres.NewArticleRepo(db)
	if err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT").WillReturnError(boom)

	repo := postgres.NewArticleRepo(db)
	if _, err := repo.ListPaginated(context.Background(), 0, 10); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
