package article

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"blog-publication/internal/common/pagination"
	"blog-publication/internal/domain/entity"
	"blog-publication/internal/observability/logging"
	"blog-publication/internal/observability/tracing"
	"blog-publication/internal/repository"
)

// List returns one page of the article list, newest first.
// A page past the end yields an empty page, not an error.
func (s *Service) List(ctx context.Context, page int) (*PaginatedResult, error) {
	ctx, span := tracing.StartSpan(ctx, "article.List", attribute.Int("page", page))
	defer span.End()

	params := pagination.Params{Page: page, Limit: s.listLimit()}
	res, err := s.paginate(ctx, "list", params,
		s.Repo.CountArticles,
		func(ctx context.Context, offset, limit int) ([]repository.ArticleWithAuthor, error) {
			return s.Repo.ListPaginated(ctx, offset, limit)
		})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	pagination.UpdateTotalCount(res.Pagination.Total)
	return res, nil
}

// Search returns one page of the articles whose title or content contains
// query. An empty query matches every article.
func (s *Service) Search(ctx context.Context, query string, page int) (*PaginatedResult, error) {
	ctx, span := tracing.StartSpan(ctx, "article.Search",
		attribute.Int("page", page),
		attribute.Int("query.length", len(query)))
	defer span.End()

	params := pagination.Params{Page: page, Limit: s.searchLimit()}
	res, err := s.paginate(ctx, "search", params,
		func(ctx context.Context) (int64, error) {
			return s.Repo.CountSearch(ctx, query)
		},
		func(ctx context.Context, offset, limit int) ([]repository.ArticleWithAuthor, error) {
			return s.Repo.SearchPaginated(ctx, query, offset, limit)
		})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return res, nil
}

// paginate runs the count and page queries of a listing concurrently.
func (s *Service) paginate(
	ctx context.Context,
	listing string,
	params pagination.Params,
	count func(context.Context) (int64, error),
	fetch func(ctx context.Context, offset, limit int) ([]repository.ArticleWithAuthor, error),
) (*PaginatedResult, error) {
	if err := params.Validate(); err != nil {
		pagination.RecordError("invalid_page")
		return nil, err
	}
	pagination.RecordRequest(listing, params.Page)
	start := time.Now()

	var (
		total int64
		items []repository.ArticleWithAuthor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := count(gctx)
		if err != nil {
			return fmt.Errorf("count articles: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		page, err := fetch(gctx, params.Offset(), params.Limit)
		if err != nil {
			return fmt.Errorf("%s articles: %w", listing, err)
		}
		items = page
		return nil
	})
	if err := g.Wait(); err != nil {
		pagination.RecordError("database")
		return nil, err
	}
	if items == nil {
		items = []repository.ArticleWithAuthor{}
	}

	elapsed := time.Since(start)
	pagination.RecordDuration(listing, elapsed.Seconds())
	pagination.LogPage(logging.FromContext(ctx), listing, params, len(items), total, elapsed)

	return &PaginatedResult{
		Data:       items,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Get retrieves a single article by its ID.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}

	art, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}
	return art, nil
}

// View retrieves the article published under slug with its comments.
func (s *Service) View(ctx context.Context, slug string) (*ArticleView, error) {
	ctx, span := tracing.StartSpan(ctx, "article.View", attribute.String("article.slug", slug))
	defer span.End()

	found, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("get article by slug: %w", err)
	}
	if found == nil {
		return nil, ErrArticleNotFound
	}

	comments, err := s.Comments.ListByArticle(ctx, found.Article.ID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &ArticleView{
		Article:         found.Article,
		AuthorPseudonym: found.AuthorPseudonym,
		Comments:        comments,
	}, nil
}

func (s *Service) listLimit() int {
	if s.Pages.ListLimit > 0 {
		return s.Pages.ListLimit
	}
	return pagination.DefaultConfig().ListLimit
}

func (s *Service) searchLimit() int {
	if s.Pages.SearchLimit > 0 {
		return s.Pages.SearchLimit
	}
	return pagination.DefaultConfig().SearchLimit
}

// IsNotFound reports whether err means the requested article or page does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrArticleNotFound) ||
		errors.Is(err, ErrInvalidArticleID) ||
		errors.Is(err, pagination.ErrInvalidPage)
}
