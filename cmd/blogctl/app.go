package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"blog-publication/internal/config"
	"blog-publication/internal/domain/entity"
	"blog-publication/internal/infra/adapter/persistence"
	"blog-publication/internal/infra/db"
	"blog-publication/internal/seed"
	authservice "blog-publication/internal/service/auth"
)

func newApp(out io.Writer) *cli.App {
	defaults := seed.DefaultOptions()
	return &cli.App{
		Name:   "blogctl",
		Usage:  "administer the blog database",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"BLOG_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "manage the schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply pending migrations", Action: migrateUp},
					{Name: "down", Usage: "roll back the latest migration", Action: migrateDown},
					{Name: "status", Usage: "list migrations", Action: migrateStatus},
				},
			},
			{
				Name:  "seed",
				Usage: "fill an empty database with fake users, articles and comments",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "users", Value: defaults.Users, Usage: "accounts besides the admin"},
					&cli.IntFlag{Name: "articles", Value: defaults.Articles},
					&cli.IntFlag{Name: "max-comments", Value: defaults.MaxComments, Usage: "upper bound of comments per article"},
					&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 for a random one"},
					&cli.StringFlag{Name: "password", Value: defaults.Password, Usage: "password of every account"},
				},
				Action: seedData,
			},
			{
				Name:  "create-user",
				Usage: "create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "pseudonym", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"BLOG_USER_PASSWORD"}},
					&cli.BoolFlag{Name: "admin", Usage: "grant ROLE_ADMIN"},
				},
				Action: createUser,
			},
		},
	}
}

// openDB reads the configuration and opens the configured database. Only
// the database section has to be valid.
func openDB(c *cli.Context) (*config.Config, *sql.DB, error) {
	cfg, err := config.Read(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Database.Validate(); err != nil {
		return nil, nil, err
	}
	conn, err := db.Open(c.Context, cfg.Database.Driver, cfg.Database.URL, cfg.Database.Pool())
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func migrateUp(c *cli.Context) error {
	cfg, conn, err := openDB(c)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return db.Migrate(c.Context, conn, cfg.Database.Driver)
}

func migrateDown(c *cli.Context) error {
	cfg, conn, err := openDB(c)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return db.Rollback(c.Context, conn, cfg.Database.Driver)
}

func migrateStatus(c *cli.Context) error {
	cfg, conn, err := openDB(c)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	statuses, err := db.Status(c.Context, conn, cfg.Database.Driver)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		if _, err := fmt.Fprintf(c.App.Writer, "%-6d %-8s %s\n", s.Version, state, s.Name); err != nil {
			return err
		}
	}
	return nil
}

func seedData(c *cli.Context) error {
	cfg, conn, err := openDB(c)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := db.Migrate(c.Context, conn, cfg.Database.Driver); err != nil {
		return err
	}
	repos, err := persistence.New(cfg.Database.Driver, conn)
	if err != nil {
		return err
	}

	s := &seed.Seeder{
		Repos:     repos,
		Validator: entity.NewValidator(cfg.Validation.CommentMaxLength),
		Logger:    slog.Default(),
	}
	res, err := s.Run(c.Context, seed.Options{
		Users:       c.Int("users"),
		Articles:    c.Int("articles"),
		MaxComments: c.Int("max-comments"),
		Password:    c.String("password"),
		Seed:        c.Uint64("seed"),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "seeded %d users, %d articles, %d comments; admin %s\n",
		res.Users+1, res.Articles, res.Comments, res.Admin.Email)
	return err
}

func createUser(c *cli.Context) error {
	cfg, conn, err := openDB(c)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	repos, err := persistence.New(cfg.Database.Driver, conn)
	if err != nil {
		return err
	}
	svc := authservice.NewService(repos.Users)
	svc.Requirements = cfg.Security.PasswordRequirements()

	var roles []string
	if c.Bool("admin") {
		roles = []string{entity.RoleAdmin}
	}
	user, err := svc.Register(c.Context, authservice.RegisterInput{
		Email:     c.String("email"),
		Pseudonym: c.String("pseudonym"),
		Password:  c.String("password"),
		Roles:     roles,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "created user %d <%s> roles=%v\n", user.ID, user.Email, user.EffectiveRoles())
	return err
}
