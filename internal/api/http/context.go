package http

import (
	"context"

	"wotro-backend/internal/domain"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	rawTokenKey
)

func withSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the session set by the auth middleware, or nil
// on public routes.
func SessionFromContext(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionKey).(*domain.Session)
	return s
}

func withRawToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, rawTokenKey, token)
}

func rawTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(rawTokenKey).(string)
	return t
}
