package logging

import "context"

// Context keys for logging values.
// Using a private type to avoid key collisions.
type contextKey int

const (
	sessionIDKey contextKey = iota
	componentKey
)

// WithSession adds a session ID to the context.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithComponent adds a component name to the context (e.g. "hooks", "setup").
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// SessionIDFromContext extracts the session ID, or "" if unset.
func SessionIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionIDKey).(string); ok {
		return s
	}
	return ""
}

// ComponentFromContext extracts the component name, or "" if unset.
func ComponentFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(componentKey).(string); ok {
		return s
	}
	return ""
}
