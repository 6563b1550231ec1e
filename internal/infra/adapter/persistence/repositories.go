// Package persistence selects the repository implementations for a driver.
package persistence

import (
	"fmt"

	"blog-publication/internal/infra/adapter/persistence/postgres"
	"blog-publication/internal/infra/adapter/persistence/sqlite"
	"blog-publication/internal/infra/db"
	"blog-publication/internal/repository"
)

// Repositories groups the gateways the use cases need.
type Repositories struct {
	Users    repository.UserRepository
	Articles repository.ArticleRepository
	Comments repository.CommentRepository
}

// New returns the repositories for driver, all sharing conn.
func New(driver string, conn repository.DBTX) (Repositories, error) {
	switch driver {
	case db.DriverPostgres:
		return Repositories{
			Users:    postgres.NewUserRepo(conn),
			Articles: postgres.NewArticleRepo(conn),
			Comments: postgres.NewCommentRepo(conn),
		}, nil
	case db.DriverSQLite:
		return Repositories{
			Users:    sqlite.NewUserRepo(conn),
			Articles: sqlite.NewArticleRepo(conn),
			Comments: sqlite.NewCommentRepo(conn),
		}, nil
	default:
		return Repositories{}, fmt.Errorf("%w: %q", db.ErrUnsupportedDriver, driver)
	}
}
