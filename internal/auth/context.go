package auth

import (
	"context"

	"github.com/tmarks/tmarks/internal/store"
)

type contextKey string

// UserContextKey is the context key under which the authenticated user is
// stored.
const UserContextKey contextKey = "user"

// UserFromContext returns the authenticated user, or nil if the request is
// unauthenticated.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}
