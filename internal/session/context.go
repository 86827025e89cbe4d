package session

import (
	"context"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

type ctxKey struct{}

type current struct {
	user      *domain.User
	sessionID string
}

func WithUser(ctx context.Context, user *domain.User, sessionID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, current{user: user, sessionID: sessionID})
}

// UserFrom returns the authenticated user, or nil outside an authenticated request.
func UserFrom(ctx context.Context) *domain.User {
	c, _ := ctx.Value(ctxKey{}).(current)
	return c.user
}

func SessionIDFrom(ctx context.Context) string {
	c, _ := ctx.Value(ctxKey{}).(current)
	return c.sessionID
}
