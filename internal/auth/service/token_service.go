package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	apperrors "github.com/allisson/bizdata/internal/errors"
)

// tokenService implements TokenService using SHA-256 for token hashing.
type tokenService struct{}

// GenerateToken creates a new cryptographically secure 32-byte random token.
// The token is base64 URL-encoded for easy transmission and storage.
func (t *tokenService) GenerateToken() (plainToken string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken = base64.RawURLEncoding.EncodeToString(randomBytes)
	return plainToken, t.HashToken(plainToken), nil
}

// GenerateAPIKey creates a token carrying the API key prefix.
func (t *tokenService) GenerateAPIKey() (plainKey string, keyHash string, prefix string, err error) {
	token, _, err := t.GenerateToken()
	if err != nil {
		return "", "", "", err
	}

	plainKey = authDomain.APIKeyPrefix + token
	return plainKey, t.HashToken(plainKey), plainKey[:authDomain.DisplayPrefixLength], nil
}

// HashToken hashes a plain text token using SHA-256.
// Returns the hash as a hexadecimal string.
func (t *tokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// NewTokenService creates a new TokenService instance using SHA-256 for token hashing.
func NewTokenService() TokenService {
	return &tokenService{}
}
