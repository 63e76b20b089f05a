package shared

import "context"

type webSessionContextKey struct{}

// ContextWithWebSession stores the browser session in context.
func ContextWithWebSession(ctx context.Context, sess *WebSession) context.Context {
	return context.WithValue(ctx, webSessionContextKey{}, sess)
}

// WebSessionFromContext extracts the browser session from context.
func WebSessionFromContext(ctx context.Context) *WebSession {
	sess, _ := ctx.Value(webSessionContextKey{}).(*WebSession)
	return sess
}
