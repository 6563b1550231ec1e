package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

type UserRepo struct {
	db repository.DBTX
}

func NewUserRepo(db repository.DBTX) repository.UserRepository {
	return &UserRepo{db: db}
}

func (repo *UserRepo) scanOne(row *sql.Row) (*entity.User, error) {
	var u entity.User
	var roles string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Pseudonym, &u.RegisteredAt, &roles); err != nil {
		return nil, err
	}
	u.Roles = entity.ParseRoles(roles)
	return &u, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	const query = `
SELECT id, email, password_hash, pseudonym, registered_at, roles
FROM users
WHERE id = $1`
	u, err := repo.scanOne(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return u, nil
}

func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const query = `
SELECT id, email, password_hash, pseudonym, registered_at, roles
FROM users
WHERE lower(email) = lower($1)`
	u, err := repo.scanOne(repo.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return u, nil
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (email, password_hash, pseudonym, registered_at, roles)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Pseudonym, user.RegisteredAt, entity.FormatRoles(user.Roles),
	).Scan(&user.ID)
	if isUniqueViolation(err, "") {
		return fmt.Errorf("Create: %w", repository.ErrDuplicateEmail)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
