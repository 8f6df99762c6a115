package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/allisson/go-pwdhash"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	apperrors "github.com/allisson/bizdata/internal/errors"
)

// otpSpace is 10^OTPLength.
var otpSpace = big.NewInt(1_000_000)

// otpService implements OTPService using Argon2id for code hashing.
type otpService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateCode draws a uniformly random zero-padded code.
func (o *otpService) GenerateCode() (plainCode string, codeHash string, err error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate otp code")
	}
	plainCode = fmt.Sprintf("%0*d", authDomain.OTPLength, n.Int64())

	codeHash, err = o.hasher.Hash([]byte(plainCode))
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to hash otp code")
	}

	return plainCode, codeHash, nil
}

// CompareCode performs a constant-time comparison between a plain code and its hash.
func (o *otpService) CompareCode(plainCode string, codeHash string) bool {
	ok, err := o.hasher.Verify([]byte(plainCode), codeHash)
	if err != nil {
		return false
	}
	return ok
}

// NewOTPService creates a new OTPService instance using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewOTPService() OTPService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &otpService{
		hasher: hasher,
	}
}
