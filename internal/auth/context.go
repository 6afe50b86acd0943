package auth

import "context"

type ctxKey struct{}

func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxKey{}, username)
}

// UsernameFromContext returns the logged user set by the auth middleware.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ctxKey{}).(string)
	return username, ok && username != ""
}

// SessionCookieName holds the session token in the browser.
const SessionCookieName = "hoosfit_session"
