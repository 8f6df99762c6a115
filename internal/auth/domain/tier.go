// Package domain defines the account, API key and email OTP session models.
//
// Accounts are identified by email and carry a Tier. API keys inherit the
// tier of their account and are the credential for every data endpoint;
// sessions, issued after an emailed one-time code is verified, are only
// used to manage API keys.
package domain

import (
	"fmt"
	"strings"
)

// Tier is the plan an account and its API keys are on.
type Tier string

const (
	// TierFree is the default tier of new accounts.
	TierFree Tier = "free"

	// TierPro unlocks OCR and a higher request rate.
	TierPro Tier = "pro"

	// TierEnterprise has the highest request rate.
	TierEnterprise Tier = "enterprise"
)

// Tiers lists every tier from lowest to highest.
var Tiers = []Tier{TierFree, TierPro, TierEnterprise}

// ParseTier parses a tier name, ignoring case and surrounding whitespace.
func ParseTier(s string) (Tier, error) {
	tier := Tier(strings.ToLower(strings.TrimSpace(s)))
	if tier.Rank() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return tier, nil
}

// Rank orders tiers; it is -1 for unknown tiers.
func (t Tier) Rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// AtLeast reports whether t is min or higher. Unknown tiers never qualify.
func (t Tier) AtLeast(min Tier) bool {
	rank := t.Rank()
	return rank >= 0 && rank >= min.Rank()
}

func (t Tier) String() string {
	return string(t)
}
