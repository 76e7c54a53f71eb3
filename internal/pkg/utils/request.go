package utils

import (
	"context"
	"medibook-service/internal/pkg/constvars"
)

// WithAuthToken stores the caller's bearer credential so upstream clients can
// forward it on every request.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_AUTH_TOKEN_KEY, token)
}

func AuthTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(constvars.CONTEXT_AUTH_TOKEN_KEY).(string)
	return token
}

func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	return requestID
}
