// Package principal carries the authenticated user of a request in its context.
package principal

import (
	"context"

	"blog-publication/internal/domain/entity"
)

type contextKey struct{}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// User returns the authenticated user, or nil for an anonymous request.
func User(ctx context.Context) *entity.User {
	u, _ := ctx.Value(contextKey{}).(*entity.User)
	return u
}

// IsAdmin reports whether the request is made by an administrator.
func IsAdmin(ctx context.Context) bool {
	u := User(ctx)
	return u != nil && u.HasRole(entity.RoleAdmin)
}
