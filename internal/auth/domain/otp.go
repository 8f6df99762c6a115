package domain

import "time"

// OTPLength is the number of digits in a one-time code.
const OTPLength = 6

// OTP is the pending one-time code of an email. Only the Argon2id hash of
// the code is stored and there is at most one OTP per email.
type OTP struct {
	Email     string
	CodeHash  string
	Attempts  int // Failed verification attempts so far
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the code can no longer be used at now.
func (o *OTP) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// ResendAllowed reports whether a new code may replace this one at now.
func (o *OTP) ResendAllowed(now time.Time, interval time.Duration) bool {
	return !now.Before(o.CreatedAt.Add(interval))
}
