// Package http provides HTTP handlers and middleware for OTP login, sessions and API keys.
package http

import (
	"context"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
)

// accountKey is a context key type for storing the session account.
type accountKey struct{}

// apiKeyKey is a context key type for storing the authenticated API key.
type apiKeyKey struct{}

// WithAccount stores the account of an authenticated session in the context.
// This is called by SessionAuthMiddleware after the bearer token is validated.
func WithAccount(ctx context.Context, account *authDomain.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// GetAccount retrieves the session account from the context.
// Returns (account, true) if present, or (nil, false) if no session was authenticated.
func GetAccount(ctx context.Context) (*authDomain.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(*authDomain.Account)
	return account, ok
}

// WithAPIKey stores an authenticated API key in the context.
func WithAPIKey(ctx context.Context, apiKey *authDomain.APIKey) context.Context {
	return context.WithValue(ctx, apiKeyKey{}, apiKey)
}

// GetAPIKey retrieves the authenticated API key from the context.
func GetAPIKey(ctx context.Context) (*authDomain.APIKey, bool) {
	apiKey, ok := ctx.Value(apiKeyKey{}).(*authDomain.APIKey)
	return apiKey, ok
}
