package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	apperrors "github.com/allisson/bizdata/internal/errors"
)

const (
	otpKeyPrefix = "otp:"

	otpFieldCodeHash  = "code_hash"
	otpFieldAttempts  = "attempts"
	otpFieldExpiresAt = "expires_at"
	otpFieldCreatedAt = "created_at"
)

// RedisOTPRepository stores each OTP as a hash at otp:{email} that Redis
// expires at the OTP's ExpiresAt.
type RedisOTPRepository struct {
	client *redis.Client
}

func otpKey(email string) string {
	return otpKeyPrefix + email
}

// Save creates or replaces the OTP of an email, resetting its attempts.
func (r *RedisOTPRepository) Save(ctx context.Context, otp *authDomain.OTP) error {
	key := otpKey(otp.Email)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			otpFieldCodeHash, otp.CodeHash,
			otpFieldAttempts, otp.Attempts,
			otpFieldExpiresAt, otp.ExpiresAt.UnixNano(),
			otpFieldCreatedAt, otp.CreatedAt.UnixNano(),
		)
		pipe.PExpireAt(ctx, key, otp.ExpiresAt)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to save otp")
	}
	return nil
}

// Get returns the live OTP of an email.
func (r *RedisOTPRepository) Get(ctx context.Context, email string) (*authDomain.OTP, error) {
	fields, err := r.client.HGetAll(ctx, otpKey(email)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get otp")
	}
	if len(fields) == 0 {
		return nil, authDomain.ErrOTPNotFound
	}

	otp, err := decodeOTP(email, fields)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode otp")
	}
	if otp.IsExpired(time.Now()) {
		return nil, authDomain.ErrOTPNotFound
	}
	return otp, nil
}

// incrementAttemptsScript bumps the attempt counter only while the OTP hash
// exists, so a concurrently deleted OTP is never recreated.
var incrementAttemptsScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], ARGV[1], 1)
`)

// IncrementAttempts claims a verification attempt and returns the new count.
func (r *RedisOTPRepository) IncrementAttempts(ctx context.Context, email string) (int, error) {
	attempts, err := incrementAttemptsScript.Run(ctx, r.client, []string{otpKey(email)}, otpFieldAttempts).Int()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to increment otp attempts")
	}
	if attempts < 0 {
		return 0, authDomain.ErrOTPNotFound
	}
	return attempts, nil
}

// Delete removes the OTP of an email. Only one concurrent caller sees success.
func (r *RedisOTPRepository) Delete(ctx context.Context, email string) error {
	removed, err := r.client.Del(ctx, otpKey(email)).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete otp")
	}
	if removed == 0 {
		return authDomain.ErrOTPNotFound
	}
	return nil
}

// DeleteExpired is a no-op: Redis expires OTP keys itself.
func (r *RedisOTPRepository) DeleteExpired(ctx context.Context, now time.Time, dryRun bool) (int64, error) {
	return 0, nil
}

func decodeOTP(email string, fields map[string]string) (*authDomain.OTP, error) {
	attempts, err := strconv.Atoi(fields[otpFieldAttempts])
	if err != nil {
		return nil, err
	}
	expiresAt, err := strconv.ParseInt(fields[otpFieldExpiresAt], 10, 64)
	if err != nil {
		return nil, err
	}
	createdAt, err := strconv.ParseInt(fields[otpFieldCreatedAt], 10, 64)
	if err != nil {
		return nil, err
	}

	return &authDomain.OTP{
		Email:     email,
		CodeHash:  fields[otpFieldCodeHash],
		Attempts:  attempts,
		ExpiresAt: time.Unix(0, expiresAt).UTC(),
		CreatedAt: time.Unix(0, createdAt).UTC(),
	}, nil
}

// NewRedisOTPRepository creates a Redis-backed OTP repository.
func NewRedisOTPRepository(client *redis.Client) *RedisOTPRepository {
	return &RedisOTPRepository{client: client}
}
