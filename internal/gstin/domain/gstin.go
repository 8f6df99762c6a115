// Package domain implements structural and check-digit validation of Indian
// Goods and Services Tax Identification Numbers (GSTIN).
//
// A GSTIN is 15 characters long:
//
//	27 AAPFU0939F 1 Z V
//	|  |          | | +-- check character (base-36 weighted checksum)
//	|  |          | +---- fixed 'Z'
//	|  |          +------ entity / registration sequence code
//	|  +----------------- embedded PAN
//	+-------------------- numeric state code
//
// Validation is a pure function over its input. The only shared data is the
// read-only alphabet table, so Validate is safe for concurrent use.
package domain

import (
	"strings"
	"unicode/utf8"
)

// Alphabet is the ordered base-36 symbol set. A symbol's value is its index.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	// Length is the exact number of characters in a GSTIN.
	Length = 15

	// FixedCharacter is the literal expected at FixedIndex.
	FixedCharacter = 'Z'

	// FixedIndex is the 0-indexed position of the fixed character.
	FixedIndex = 13

	// CheckIndex is the 0-indexed position of the check character.
	CheckIndex = 14

	radix      = len(Alphabet)
	panStart   = 2
	panEnd     = 12
	entityCode = 12
)

// symbolValues maps an ASCII byte to its alphabet value, or -1.
var symbolValues [256]int

func init() {
	for i := range symbolValues {
		symbolValues[i] = -1
	}
	for i := 0; i < radix; i++ {
		symbolValues[Alphabet[i]] = i
	}
}

// symbolValue returns the alphabet value of r, or -1 if r is outside [0-9A-Z].
func symbolValue(r rune) int {
	if r < 0 || r > 255 {
		return -1
	}
	return symbolValues[r]
}

// Normalize trims surrounding whitespace and upper-cases the candidate.
// Normalize is idempotent.
func Normalize(candidate string) string {
	return strings.ToUpper(strings.TrimSpace(candidate))
}

// CheckCharacter computes the check character for the first 14 characters of
// a GSTIN. Positions at even indexes weigh 1, odd indexes weigh 2, and each
// product is folded into its base-36 digits before summing.
// It returns ErrInvalidCharacter if any character is outside the alphabet.
func CheckCharacter(body string) (byte, error) {
	if utf8.RuneCountInString(body) != CheckIndex {
		return 0, ErrInvalidLength
	}
	return checkCharacter([]rune(body))
}

func checkCharacter(body []rune) (byte, error) {
	sum := 0
	for i, r := range body {
		value := symbolValue(r)
		if value < 0 {
			return 0, ErrInvalidCharacter
		}

		factor := 1
		if i%2 == 1 {
			factor = 2
		}

		product := value * factor
		sum += product/radix + product%radix
	}

	return Alphabet[(radix-sum%radix)%radix], nil
}

// Validate classifies a candidate GSTIN. It always returns a verdict; an
// invalid candidate is an expected outcome, never a fault. Checks run in the
// order length, state code, fixed character, alphabet, checksum and the first
// failing check decides the reason.
func Validate(candidate string) Verdict {
	normalized := Normalize(candidate)
	verdict := Verdict{GSTIN: normalized}

	chars := []rune(normalized)
	if len(chars) != Length {
		verdict.Reason = ReasonInvalidLength
		return verdict
	}

	if !isDigit(chars[0]) || !isDigit(chars[1]) {
		verdict.Reason = ReasonInvalidStateCode
		return verdict
	}

	if chars[FixedIndex] != FixedCharacter {
		verdict.Reason = ReasonInvalidFormat
		return verdict
	}

	expected, err := checkCharacter(chars[:CheckIndex])
	if err != nil {
		verdict.Reason = ReasonInvalidCharacter
		return verdict
	}

	verdict.StateCode = string(chars[:panStart])
	verdict.PAN = string(chars[panStart:panEnd])

	if chars[CheckIndex] != rune(expected) {
		verdict.Reason = ReasonChecksumMismatch
		verdict.ExpectedCheck = string(expected)
		return verdict
	}

	verdict.EntityCode = string(chars[entityCode])
	verdict.Valid = true
	return verdict
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
