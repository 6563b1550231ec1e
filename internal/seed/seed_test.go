package seed

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/infra/adapter/persistence"
	"blog-publication/internal/infra/db"
	authservice "blog-publication/internal/service/auth"
)

func newRepos(t *testing.T) persistence.Repositories {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, "file::memory:", db.DefaultConnectionConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn, db.DriverSQLite))

	repos, err := persistence.New(db.DriverSQLite, conn)
	require.NoError(t, err)
	return repos
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	s := &Seeder{Repos: repos, Logger: slog.New(slog.DiscardHandler), Now: func() time.Time { return now }}
	opts := Options{Users: 5, Articles: 12, MaxComments: 3, Password: "aaaaaaaaA7/", Seed: 42, Cost: bcrypt.MinCost}

	res, err := s.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Users)
	assert.Equal(t, 12, res.Articles)
	assert.LessOrEqual(t, res.Comments, 12*3)

	count, err := repos.Articles.CountArticles(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 12, count)

	// the admin can log in with the shared password
	admin, err := authservice.NewService(repos.Users).Authenticate(ctx, authservice.Credentials{
		Email: AdminEmail, Password: "aaaaaaaaA7/",
	})
	require.NoError(t, err)
	assert.Equal(t, AdminPseudonym, admin.Pseudonym)
	assert.True(t, admin.HasRole(entity.RoleAdmin))

	page, err := repos.Articles.ListPaginated(ctx, 0, 12)
	require.NoError(t, err)
	slugs := map[string]bool{}
	total := 0
	for _, a := range page {
		assert.Equal(t, admin.ID, a.Article.AuthorID)
		assert.False(t, a.Article.PublishedAt.Before(admin.RegisteredAt.Truncate(time.Second)))
		assert.False(t, a.Article.PublishedAt.After(now))
		assert.False(t, slugs[a.Article.Slug], "slug %s reused", a.Article.Slug)
		slugs[a.Article.Slug] = true

		comments, err := repos.Comments.ListByArticle(ctx, a.Article.ID)
		require.NoError(t, err)
		for _, c := range comments {
			assert.NotEqual(t, admin.ID, c.Comment.AuthorID)
			assert.False(t, c.Comment.PublishedAt.Before(a.Article.PublishedAt))
		}
		total += len(comments)
	}
	assert.Equal(t, res.Comments, total)
}

func TestSeeder_Run_NoUsersNoComments(t *testing.T) {
	repos := newRepos(t)
	s := &Seeder{Repos: repos, Logger: slog.New(slog.DiscardHandler)}

	_, err := s.Run(context.Background(), Options{Articles: 1, MaxComments: 2, Password: "aaaaaaaaA7/", Cost: bcrypt.MinCost})
	assert.Error(t, err)

	res, err := s.Run(context.Background(), Options{Articles: 2, Password: "aaaaaaaaA7/", Cost: bcrypt.MinCost})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Comments)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 50, opts.Users)
	assert.Equal(t, 200, opts.Articles)
	assert.Equal(t, 10, opts.MaxComments)
	assert.NoError(t, authservice.DefaultRequirements().Check(opts.Password))
}
