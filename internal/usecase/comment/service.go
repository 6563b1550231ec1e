// Package comment provides the comment use cases: posting a comment on an
// article and deleting one.
package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/observability/logging"
	"blog-publication/internal/observability/metrics"
	"blog-publication/internal/observability/tracing"
	"blog-publication/internal/repository"
)

var (
	// ErrCommentNotFound indicates that no comment has the requested id.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrArticleNotFound indicates that the article being commented does not exist.
	ErrArticleNotFound = errors.New("article not found")

	// ErrUnauthenticated is returned when an anonymous caller tries to comment.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates that the actor lacks the role the operation needs.
	ErrForbidden = errors.New("forbidden")
)

// Service provides the comment use cases.
type Service struct {
	Repo      repository.CommentRepository
	Articles  repository.ArticleRepository
	Validator *entity.Validator

	// Now stamps publication dates. Nil means time.Now.
	Now func() time.Time
}

var defaultValidator = entity.NewValidator(0)

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) validator() *entity.Validator {
	if s.Validator == nil {
		return defaultValidator
	}
	return s.Validator
}

// CommentMaxLength returns the longest comment Post accepts, in characters.
func (s *Service) CommentMaxLength() int {
	return s.validator().CommentMaxLength()
}

// Post attaches a comment written by actor to article articleID.
// The content is trimmed plain text; it is escaped when rendered.
func (s *Service) Post(ctx context.Context, actor *entity.User, articleID int64, form entity.CommentForm) (*entity.Comment, error) {
	ctx, span := tracing.StartSpan(ctx, "comment.Post", attribute.Int64("article.id", articleID))
	defer span.End()

	if actor == nil {
		return nil, ErrUnauthenticated
	}

	form.Content = entity.NormalizeText(form.Content)
	if err := s.validator().ValidateComment(form); err != nil {
		metrics.RecordFormRejection("comment_form", "invalid")
		return nil, err
	}

	c := entity.NewComment(form.Content, articleID, actor.ID, s.now())
	if err := s.Repo.Create(ctx, &c); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("create comment: %w", err)
	}

	metrics.RecordCommentMutation("posted")
	logging.FromContext(ctx).Info("comment posted",
		slog.Int64("comment_id", c.ID),
		slog.Int64("article_id", articleID),
		slog.Int64("author_id", actor.ID))
	return &c, nil
}

// Get retrieves a single comment by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	if id <= 0 {
		return nil, ErrCommentNotFound
	}
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if c == nil {
		return nil, ErrCommentNotFound
	}
	return c, nil
}

// Delete removes comment id and returns the slug of the article it belonged
// to, read before the deletion so the caller can redirect there.
func (s *Service) Delete(ctx context.Context, actor *entity.User, id int64) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "comment.Delete", attribute.Int64("comment.id", id))
	defer span.End()

	if actor == nil || !actor.HasRole(entity.RoleAdmin) {
		return "", ErrForbidden
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	slug, err := s.ParentSlug(ctx, c)
	if err != nil {
		return "", err
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return "", ErrCommentNotFound
		}
		tracing.RecordError(span, err)
		return "", fmt.Errorf("delete comment: %w", err)
	}

	metrics.RecordCommentMutation("deleted")
	logging.FromContext(ctx).Info("comment deleted",
		slog.Int64("comment_id", id),
		slog.Int64("article_id", c.ArticleID))
	return slug, nil
}

// ParentSlug returns the slug of the article c belongs to.
func (s *Service) ParentSlug(ctx context.Context, c *entity.Comment) (string, error) {
	art, err := s.Articles.Get(ctx, c.ArticleID)
	if err != nil {
		return "", fmt.Errorf("get parent article: %w", err)
	}
	if art == nil {
		return "", ErrArticleNotFound
	}
	return art.Slug, nil
}
