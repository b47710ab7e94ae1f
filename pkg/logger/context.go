package logger

import "context"

type contextKey struct{}

// WithRequestID returns a context carrying the request correlation id.
// Every operation threads this context down to the store so failures can
// be tied back to the request that caused them.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// RequestID returns the correlation id from the context, or "" if none is set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}
