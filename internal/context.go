package internal

import (
	"context"
	"time"
)

type ctxKey string

const contextSessionTokenKey ctxKey = "sessionToken"

// SessionTokenFromContext returns the session token attached by the request
// middleware, or "" when the request is unauthenticated.
func SessionTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if token, ok := ctx.Value(contextSessionTokenKey).(string); ok {
		return token
	}
	return ""
}

func ContextWithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextSessionTokenKey, token)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
