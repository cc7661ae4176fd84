// Package requestctx carries the request ID through context so layers
// below HTTP can tag logs and audit entries without importing the
// transport packages.
package requestctx

import "context"

type requestIDKey struct{}

// WithRequestID returns a child context tagged with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request ID, or "" outside a request scope.
func GetRequestID(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}
