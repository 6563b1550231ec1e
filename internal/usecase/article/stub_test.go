package article_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

/* ───────── stubs ───────── */

// stubRepo is a minimal in-memory ArticleRepository.
type stubRepo struct {
	mu      sync.Mutex
	data    map[int64]*entity.Article
	authors map[int64]string
	nextID  int64
	err     error // forced error for every call

	// raceSlugs makes Create report a duplicate for these slugs even though
	// SlugExists said they were free.
	raceSlugs map[string]bool
}

func newStub() *stubRepo {
	return &stubRepo{
		data:    map[int64]*entity.Article{},
		authors: map[int64]string{1: "Batman", 2: "Robin"},
		nextID:  1,
	}
}

func (s *stubRepo) sorted(match func(*entity.Article) bool) []repository.ArticleWithAuthor {
	var out []repository.ArticleWithAuthor
	for _, a := range s.data {
		if match(a) {
			cp := *a
			out = append(out, repository.ArticleWithAuthor{Article: &cp, AuthorPseudonym: s.authors[a.AuthorID]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].Article, out[j].Article
		if !ai.PublishedAt.Equal(aj.PublishedAt) {
			return ai.PublishedAt.After(aj.PublishedAt)
		}
		return ai.ID > aj.ID
	})
	return out
}

func page(items []repository.ArticleWithAuthor, offset, limit int) []repository.ArticleWithAuthor {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func matches(q string) func(*entity.Article) bool {
	return func(a *entity.Article) bool {
		return q == "" || strings.Contains(a.Title, q) || strings.Contains(a.Content, q)
	}
}

func all(*entity.Article) bool { return true }

func (s *stubRepo) ListPaginated(_ context.Context, offset, limit int) ([]repository.ArticleWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return page(s.sorted(all), offset, limit), nil
}

func (s *stubRepo) CountArticles(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.data)), nil
}

func (s *stubRepo) SearchPaginated(_ context.Context, q string, offset, limit int) ([]repository.ArticleWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return page(s.sorted(matches(q)), offset, limit), nil
}

func (s *stubRepo) CountSearch(_ context.Context, q string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.sorted(matches(q)))), nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *stubRepo) GetBySlug(_ context.Context, slug string) (*repository.ArticleWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, a := range s.data {
		if a.Slug == slug {
			cp := *a
			return &repository.ArticleWithAuthor{Article: &cp, AuthorPseudonym: s.authors[a.AuthorID]}, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	for _, a := range s.data {
		if a.Slug == slug && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) Create(_ context.Context, a *entity.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.raceSlugs[a.Slug] {
		delete(s.raceSlugs, a.Slug)
		return repository.ErrDuplicateSlug
	}
	a.ID = s.nextID
	s.nextID++
	cp := *a
	s.data[a.ID] = &cp
	return nil
}

func (s *stubRepo) Update(_ context.Context, a *entity.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.data[a.ID]; !ok {
		return entity.ErrNotFound
	}
	cp := *a
	s.data[a.ID] = &cp
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.data[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// stubComments is a minimal in-memory CommentRepository.
type stubComments struct {
	byArticle map[int64][]repository.CommentWithAuthor
	err       error
}

func (s *stubComments) ListByArticle(_ context.Context, articleID int64) ([]repository.CommentWithAuthor, error) {
	return s.byArticle[articleID], s.err
}
func (s *stubComments) Get(_ context.Context, _ int64) (*entity.Comment, error) { return nil, s.err }
func (s *stubComments) Create(_ context.Context, _ *entity.Comment) error      { return s.err }
func (s *stubComments) Delete(_ context.Context, _ int64) error                { return s.err }
