// Package service provides the credential primitives used by authentication.
//
// Bearer tokens and API keys are high-entropy random strings hashed with
// SHA-256 for lookup. One-time codes are low-entropy, so they are hashed
// with Argon2id and compared in constant time.
package service

// TokenService generates and hashes session tokens and API keys.
type TokenService interface {
	// GenerateToken creates a 32-byte random token, base64 URL-encoded.
	// Returns the plain token (shown once) and its SHA-256 hex digest.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// GenerateAPIKey creates a plain API key "bd_<token>" and returns it with
	// its SHA-256 hex digest and the display prefix.
	GenerateAPIKey() (plainKey string, keyHash string, prefix string, err error)

	// HashToken returns the SHA-256 hex digest of a plain token or API key.
	HashToken(plainToken string) string
}

// OTPService generates and verifies one-time codes.
type OTPService interface {
	// GenerateCode creates a random numeric code and its Argon2id hash.
	GenerateCode() (plainCode string, codeHash string, err error)

	// CompareCode reports whether plainCode matches codeHash.
	CompareCode(plainCode string, codeHash string) bool
}
