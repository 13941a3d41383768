package userctx

import (
	"context"
)

type ctxKey string

const usernameKey ctxKey = "username"

// Create a new context with authenticated username
func New(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// Extract authenticated username from the context
func FromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(usernameKey).(string)
	return u, ok
}
