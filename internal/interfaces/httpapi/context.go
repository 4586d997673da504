package httpapi

import (
	"context"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/session"
)

type contextKey string

const (
	principalContextKey contextKey = "session_principal"
	tokenContextKey     contextKey = "session_token"
)

func withSession(ctx context.Context, p session.Principal, token string) context.Context {
	ctx = context.WithValue(ctx, principalContextKey, p)
	return context.WithValue(ctx, tokenContextKey, token)
}

func principalFromContext(ctx context.Context) (session.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(session.Principal)
	return p, ok
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
