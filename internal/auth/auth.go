package auth

import (
	"context"

	"github.com/frahmantamala/company-api/internal"
)

// User is the caller attached to an authenticated request.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	IsActive    bool   `json:"is_active"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// AnonymousUser stands in for a well-formed token whose user id matches no account.
func AnonymousUser() *User {
	return &User{IsAnonymous: true}
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

var (
	ErrMissingToken = internal.ErrMissingToken
	ErrInvalidToken = internal.ErrInvalidToken
)
