package dto

import (
	"time"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
)

// RequestOTPResponse acknowledges an OTP request. It never reveals whether
// the address already has an account.
type RequestOTPResponse struct {
	Message string `json:"message"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

// MapAccountToResponse converts a domain account to an API response.
func MapAccountToResponse(account *authDomain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID.String(),
		Email:     account.Email,
		Tier:      account.Tier.String(),
		CreatedAt: account.CreatedAt,
	}
}

// SessionResponse contains the session token issued after OTP verification.
// SECURITY: The token is only returned once.
type SessionResponse struct {
	Token     string          `json:"token"` //nolint:gosec // returned once on verification
	TokenType string          `json:"token_type"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}

// MapSessionOutputToResponse converts a verified session to an API response.
func MapSessionOutputToResponse(output *authDomain.SessionOutput) SessionResponse {
	return SessionResponse{
		Token:     output.Token,
		TokenType: "Bearer",
		ExpiresAt: output.ExpiresAt,
		Account:   MapAccountToResponse(output.Account),
	}
}

// APIKeyResponse represents an API key in API responses (excludes the key itself).
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Tier       string     `json:"tier"`
	Prefix     string     `json:"prefix"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// MapAPIKeyToResponse converts a domain API key to an API response.
func MapAPIKeyToResponse(apiKey *authDomain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:         apiKey.ID.String(),
		Name:       apiKey.Name,
		Tier:       apiKey.Tier.String(),
		Prefix:     apiKey.Prefix,
		CreatedAt:  apiKey.CreatedAt,
		RevokedAt:  apiKey.RevokedAt,
		LastUsedAt: apiKey.LastUsedAt,
	}
}

// CreateAPIKeyResponse contains a freshly minted API key.
// SECURITY: The key is only returned once and must be saved securely.
type CreateAPIKeyResponse struct {
	APIKeyResponse
	Key string `json:"key"` //nolint:gosec // returned once on creation
}

// MapCreateAPIKeyOutputToResponse converts a create result to an API response.
func MapCreateAPIKeyOutputToResponse(output *authDomain.CreateAPIKeyOutput) CreateAPIKeyResponse {
	return CreateAPIKeyResponse{
		APIKeyResponse: MapAPIKeyToResponse(output.APIKey),
		Key:            output.PlainKey,
	}
}

// ListAPIKeysResponse represents the keys of an account.
type ListAPIKeysResponse struct {
	Data []APIKeyResponse `json:"data"`
}

// MapAPIKeysToListResponse converts domain API keys to a list API response.
func MapAPIKeysToListResponse(apiKeys []*authDomain.APIKey) ListAPIKeysResponse {
	responses := make([]APIKeyResponse, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		responses = append(responses, MapAPIKeyToResponse(apiKey))
	}
	return ListAPIKeysResponse{Data: responses}
}
