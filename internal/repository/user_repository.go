package repository

import (
	"context"

	"blog-publication/internal/domain/entity"
)

type UserRepository interface {
	Get(ctx context.Context, id int64) (*entity.User, error)
	// GetByEmail looks a user up by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Create inserts the user and sets its ID.
	Create(ctx context.Context, user *entity.User) error
}
