package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

// UserRepo implements the UserRepository interface using SQLite.
type UserRepo struct{ db repository.DBTX }

// NewUserRepo creates a new SQLite-backed user repository.
func NewUserRepo(db repository.DBTX) repository.UserRepository {
	return &UserRepo{db: db}
}

const userSelect = `
SELECT id, email, password_hash, pseudonym, registered_at, roles
FROM users
`

func (repo *UserRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.User, error) {
	var u entity.User
	var roles string
	err := repo.db.QueryRowContext(ctx, userSelect+where, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Pseudonym, &u.RegisteredAt, &roles)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: QueryRowContext: %w", op, err)
	}
	u.Roles = entity.ParseRoles(roles)
	return &u, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	return repo.getOne(ctx, "Get", "WHERE id = ?", id)
}

func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.getOne(ctx, "GetByEmail", "WHERE lower(email) = lower(?)", email)
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (email, password_hash, pseudonym, registered_at, roles)
VALUES (?, ?, ?, ?, ?)
`
	res, err := repo.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.Pseudonym, user.RegisteredAt.UTC(), entity.FormatRoles(user.Roles))
	if isUniqueViolation(err, "") {
		return fmt.Errorf("Create: %w", repository.ErrDuplicateEmail)
	}
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	user.ID = id
	return nil
}
