package context

import (
	"context"
)

// UserContext carries the authenticated caller's identity.
type UserContext struct {
	UserID string
	Roles  []string
}

type userKey struct{}

// WithUser adds user info to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser returns user info from context, or nil.
func GetUser(ctx context.Context) *UserContext {
	if u, ok := ctx.Value(userKey{}).(*UserContext); ok {
		return u
	}
	return nil
}
