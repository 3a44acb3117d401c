package models

import "context"

// contextKey is private so keys cannot collide with other packages
type contextKey string

// RequestIDContextKey stores the request ID in the request context
const RequestIDContextKey contextKey = "requestID"

// WithRequestID returns a copy of ctx carrying id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, id)
}

// GetRequestIDFromContext returns the request ID stored in ctx, if any
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDContextKey).(string)
	return id, ok
}
