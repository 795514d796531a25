package auth

import (
	"context"

	"github.com/volunteer-hub/internal/models"
)

type userKey struct{}

// WithUser returns a context carrying the authenticated user. The remote
// store reads the user from here and never from request payloads.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext retrieves the authenticated user, or nil when the
// request carries no session.
func UserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey{}).(*models.User); ok {
		return user
	}
	return nil
}
