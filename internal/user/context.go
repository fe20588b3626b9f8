package user

import "context"

type contextKey string

const userContextKey contextKey = "authenticated_user"

// NewContext returns a context carrying the authenticated user.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// FromContext extracts the authenticated user placed by the auth
// middleware.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok
}
