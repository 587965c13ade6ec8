package auth

import "context"

type userContextKey struct{}

type tokenContextKey struct{}

// ContextWithUser stores the authenticated user in the request context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// ContextWithToken stores the raw bearer token so logout can revoke it.
func ContextWithToken(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, raw)
}

// TokenFromContext extracts the raw bearer token from the request context.
func TokenFromContext(ctx context.Context) string {
	raw, _ := ctx.Value(tokenContextKey{}).(string)
	return raw
}
