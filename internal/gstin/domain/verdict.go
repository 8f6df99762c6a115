package domain

// Reason classifies why a candidate failed validation.
type Reason string

const (
	// ReasonNone is the reason of a valid verdict.
	ReasonNone Reason = ""

	// ReasonInvalidLength means the normalized input is not exactly 15 characters.
	ReasonInvalidLength Reason = "invalid_length"

	// ReasonInvalidStateCode means the first two characters are not both decimal digits.
	ReasonInvalidStateCode Reason = "invalid_state_code"

	// ReasonInvalidFormat means the 14th character is not 'Z'.
	ReasonInvalidFormat Reason = "invalid_format"

	// ReasonInvalidCharacter means a character in positions 0-13 is outside [0-9A-Z].
	ReasonInvalidCharacter Reason = "invalid_character"

	// ReasonChecksumMismatch means the check character does not match the computed one.
	ReasonChecksumMismatch Reason = "checksum_mismatch"
)

// Reasons lists every failure reason in precedence order.
var Reasons = []Reason{
	ReasonInvalidLength,
	ReasonInvalidStateCode,
	ReasonInvalidFormat,
	ReasonInvalidCharacter,
	ReasonChecksumMismatch,
}

// Message returns a human-readable description of the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return "GSTIN is valid"
	case ReasonInvalidLength:
		return "Invalid GSTIN length. Must be 15 characters."
	case ReasonInvalidStateCode:
		return "Invalid state code in GSTIN."
	case ReasonInvalidFormat:
		return "Invalid GSTIN format. The 14th character must be 'Z'."
	case ReasonInvalidCharacter:
		return "GSTIN contains characters outside 0-9 and A-Z."
	case ReasonChecksumMismatch:
		return "GSTIN check character does not match."
	default:
		return "Unknown GSTIN validation result."
	}
}

// Err returns the domain error for the reason, or nil for ReasonNone.
func (r Reason) Err() error {
	switch r {
	case ReasonNone:
		return nil
	case ReasonInvalidLength:
		return ErrInvalidLength
	case ReasonInvalidStateCode:
		return ErrInvalidStateCode
	case ReasonInvalidFormat:
		return ErrInvalidFormat
	case ReasonInvalidCharacter:
		return ErrInvalidCharacter
	case ReasonChecksumMismatch:
		return ErrChecksumMismatch
	default:
		return ErrInvalidGSTIN
	}
}

// Verdict is the result of validating one candidate.
//
// GSTIN always carries the normalized candidate. StateCode and PAN are filled
// once the structural checks pass, so a ChecksumMismatch verdict still reports
// them for diagnostics. EntityCode is only set on a valid verdict.
type Verdict struct {
	GSTIN         string
	Valid         bool
	StateCode     string
	PAN           string
	EntityCode    string
	Reason        Reason
	ExpectedCheck string
}

// Err returns nil for a valid verdict and the reason's domain error otherwise.
func (v Verdict) Err() error {
	if v.Valid {
		return nil
	}
	return v.Reason.Err()
}

// StateName returns the registered state or union territory for the verdict's
// state code, if the code is assigned.
func (v Verdict) StateName() (string, bool) {
	return StateName(v.StateCode)
}
