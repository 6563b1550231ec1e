package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"blog-publication/internal/common/pagination"
	"blog-publication/internal/domain/entity"
	"blog-publication/internal/observability/logging"
	"blog-publication/internal/observability/metrics"
	"blog-publication/internal/observability/tracing"
	"blog-publication/internal/repository"
)

// maxSlugAttempts bounds the suffixes tried for one title (base, base-1, ...).
const maxSlugAttempts = 100

// Service provides the article use cases.
// Authorization is checked against the actor passed to every mutation;
// persistence is delegated to the repositories.
type Service struct {
	Repo      repository.ArticleRepository
	Comments  repository.CommentRepository
	Validator *entity.Validator
	Pages     pagination.Config

	// Now stamps publication dates. Nil means time.Now.
	Now func() time.Time
}

// PaginatedResult is one page of a listing plus its pager metadata.
type PaginatedResult struct {
	Data       []repository.ArticleWithAuthor
	Pagination pagination.Metadata
}

// ArticleView is an article with its author and comments, oldest comment first.
type ArticleView struct {
	Article         *entity.Article
	AuthorPseudonym string
	Comments        []repository.CommentWithAuthor
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

var defaultValidator = entity.NewValidator(0)

func (s *Service) validator() *entity.Validator {
	if s.Validator == nil {
		return defaultValidator
	}
	return s.Validator
}

func requireAdmin(actor *entity.User) error {
	if actor == nil || !actor.HasRole(entity.RoleAdmin) {
		return ErrForbidden
	}
	return nil
}

// normalizeForm trims the title and sanitizes the content before validation,
// so length limits apply to what gets stored.
func normalizeForm(form entity.ArticleForm) entity.ArticleForm {
	return entity.ArticleForm{
		Title:   entity.NormalizeText(form.Title),
		Content: entity.SanitizeContent(form.Content),
	}
}

// Create publishes a new article authored by actor.
// The publication date is the current server time and the slug is derived
// from the title, suffixed until unique. Invalid input returns
// entity.ValidationErrors and persists nothing.
func (s *Service) Create(ctx context.Context, actor *entity.User, form entity.ArticleForm) (*entity.Article, error) {
	ctx, span := tracing.StartSpan(ctx, "article.Create")
	defer span.End()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	form = normalizeForm(form)
	if err := s.validator().ValidateArticle(form); err != nil {
		metrics.RecordFormRejection("article_form", "invalid")
		return nil, err
	}

	base := entity.Slugify(form.Title)
	art := entity.NewArticle(form.Title, form.Content, "", actor.ID, s.now())

	start := time.Now()
	err := s.withFreeSlug(ctx, base, 0, func(slug string) error {
		art.Slug = slug
		return s.Repo.Create(ctx, &art)
	})
	metrics.RecordOperationDuration("article_create", time.Since(start))
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("create article: %w", err)
	}

	span.SetAttributes(attribute.Int64("article.id", art.ID), attribute.String("article.slug", art.Slug))
	metrics.ArticlesPublishedTotal.Inc()
	logging.FromContext(ctx).Info("article published",
		slog.Int64("article_id", art.ID),
		slog.String("slug", art.Slug),
		slog.Int64("author_id", art.AuthorID))
	return &art, nil
}

// Edit replaces the title and content of article id. The slug is derived
// again only when the title changed; author and publication date never change.
func (s *Service) Edit(ctx context.Context, actor *entity.User, id int64, form entity.ArticleForm) (*entity.Article, error) {
	ctx, span := tracing.StartSpan(ctx, "article.Edit", attribute.Int64("article.id", id))
	defer span.End()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	form = normalizeForm(form)
	if err := s.validator().ValidateArticle(form); err != nil {
		metrics.RecordFormRejection("article_form", "invalid")
		return nil, err
	}

	edited := current.WithEdit(form.Title, form.Content, current.Slug)
	if form.Title == current.Title {
		err = s.Repo.Update(ctx, &edited)
	} else {
		err = s.withFreeSlug(ctx, entity.Slugify(form.Title), id, func(slug string) error {
			edited.Slug = slug
			return s.Repo.Update(ctx, &edited)
		})
	}
	if errors.Is(err, entity.ErrNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("update article: %w", err)
	}

	metrics.ArticlesEditedTotal.Inc()
	logging.FromContext(ctx).Info("article edited",
		slog.Int64("article_id", edited.ID),
		slog.String("slug", edited.Slug))
	return &edited, nil
}

// Delete removes article id together with its comments.
func (s *Service) Delete(ctx context.Context, actor *entity.User, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "article.Delete", attribute.Int64("article.id", id))
	defer span.End()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id <= 0 {
		return ErrInvalidArticleID
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrArticleNotFound
		}
		tracing.RecordError(span, err)
		return fmt.Errorf("delete article: %w", err)
	}

	metrics.ArticlesDeletedTotal.Inc()
	logging.FromContext(ctx).Info("article deleted", slog.Int64("article_id", id))
	return nil
}

// withFreeSlug calls store with base, base-1, base-2, ... skipping slugs
// already used by an article other than excludeID. A slug taken between the
// check and the write surfaces as repository.ErrDuplicateSlug and moves on
// to the next candidate.
func (s *Service) withFreeSlug(ctx context.Context, base string, excludeID int64, store func(slug string) error) error {
	for n := 0; n < maxSlugAttempts; n++ {
		candidate := entity.SlugCandidate(base, n)
		taken, err := s.Repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if taken {
			continue
		}
		err = store(candidate)
		if errors.Is(err, repository.ErrDuplicateSlug) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: %q", ErrSlugExhausted, base)
}
