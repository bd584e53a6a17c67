package server

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDKey stores the request id in a request context.
const RequestIDKey contextKey = "request_id"

// NewRequestID returns a random request id.
func NewRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns ctx carrying id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFromContext returns the request id, or "" when none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
