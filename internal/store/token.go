package store

import "context"

// TokenProvider supplies the opaque bearer credential consulted before
// every network call. An empty token is a hard failure for that call.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed credential. Useful for
// tests and callers whose credential never rotates.
type StaticToken string

// Token implements TokenProvider.
func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }
