// Package seed fills an empty database with fake users, articles and
// comments for development. Records go through the article and comment use
// cases, so they obey the same validation and slug rules as real ones.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/infra/adapter/persistence"
	authservice "blog-publication/internal/service/auth"
	"blog-publication/internal/usecase/article"
	"blog-publication/internal/usecase/comment"
)

// Admin account created by every run.
const (
	AdminEmail     = "a@a.a"
	AdminPseudonym = "Batman"
)

// Options controls the amount of generated data.
type Options struct {
	Users       int    // regular accounts besides the admin
	Articles    int    // all authored by the admin
	MaxComments int    // per article, drawn uniformly from 0..MaxComments
	Password    string // shared by every account
	Seed        uint64 // 0 picks a random seed
	Cost        int    // bcrypt cost, 0 for the default
}

// DefaultOptions returns 50 users, 200 articles and up to 10 comments each.
func DefaultOptions() Options {
	return Options{
		Users:       50,
		Articles:    200,
		MaxComments: 10,
		Password:    "aaaaaaaaA7/",
	}
}

// Result counts what a run created.
type Result struct {
	Admin    *entity.User
	Users    int
	Articles int
	Comments int
}

// Seeder generates the data.
type Seeder struct {
	Repos     persistence.Repositories
	Validator *entity.Validator
	Logger    *slog.Logger

	// Now is the upper bound of generated dates. Nil means time.Now.
	Now func() time.Time
}

// clock hands the date chosen by the seeder to the use cases.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

// Run creates the admin, the users, then the articles and their comments.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Users < 1 && opts.MaxComments > 0 {
		return nil, errors.New("seed: comments need at least one user")
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	end := time.Now()
	if s.Now != nil {
		end = s.Now()
	}
	start := end.AddDate(-1, 0, 0)
	faker := gofakeit.New(opts.Seed)

	// one hash for everybody; bcrypt is the slow part
	hash, err := authservice.HashPassword(opts.Password, opts.Cost)
	if err != nil {
		return nil, err
	}

	admin := &entity.User{
		Email:        AdminEmail,
		PasswordHash: hash,
		Pseudonym:    AdminPseudonym,
		RegisteredAt: faker.DateRange(start, end),
		Roles:        []string{entity.RoleAdmin},
	}
	if err := s.Repos.Users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	res := &Result{Admin: admin}

	users, err := s.users(ctx, faker, opts.Users, hash, start, end)
	if err != nil {
		return nil, err
	}
	res.Users = len(users)
	logger.Info("users seeded", slog.Int("count", res.Users))

	at := &clock{}
	articles := &article.Service{
		Repo:      s.Repos.Articles,
		Comments:  s.Repos.Comments,
		Validator: s.Validator,
		Now:       at.now,
	}
	comments := &comment.Service{
		Repo:      s.Repos.Comments,
		Articles:  s.Repos.Articles,
		Validator: s.Validator,
		Now:       at.now,
	}

	for i := 0; i < opts.Articles; i++ {
		at.t = faker.DateRange(admin.RegisteredAt, end)
		art, err := articles.Create(ctx, admin, entity.ArticleForm{
			Title:   faker.Sentence(10),
			Content: faker.Paragraph(1, 15, 12, " "),
		})
		if err != nil {
			return nil, fmt.Errorf("seed article %d: %w", i+1, err)
		}
		res.Articles++

		n := 0
		if opts.MaxComments > 0 {
			n = faker.IntRange(0, opts.MaxComments)
		}
		for j := 0; j < n; j++ {
			at.t = faker.DateRange(art.PublishedAt, end)
			author := users[faker.IntRange(0, len(users)-1)]
			if _, err := comments.Post(ctx, author, art.ID, entity.CommentForm{
				Content: faker.Paragraph(1, 5, 10, " "),
			}); err != nil {
				return nil, fmt.Errorf("seed comment on article %d: %w", art.ID, err)
			}
			res.Comments++
		}
	}

	logger.Info("articles seeded",
		slog.Int("articles", res.Articles),
		slog.Int("comments", res.Comments))
	return res, nil
}

func (s *Seeder) users(ctx context.Context, faker *gofakeit.Faker, n int, hash string, start, end time.Time) ([]*entity.User, error) {
	taken := map[string]bool{AdminEmail: true}
	users := make([]*entity.User, 0, n)
	for len(users) < n {
		email := faker.Email()
		key := strings.ToLower(email)
		if taken[key] {
			continue
		}
		taken[key] = true

		u := &entity.User{
			Email:        email,
			PasswordHash: hash,
			Pseudonym:    faker.Username(),
			RegisteredAt: faker.DateRange(start, end),
		}
		if err := s.Repos.Users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create user %s: %w", email, err)
		}
		users = append(users, u)
	}
	return users, nil
}
