package domain

import "time"

// Principal is the authenticated caller, produced once from a verified access token
// and passed by value into services.
type Principal struct {
	ID            int64
	Email         string
	Nickname      string
	EmailVerified bool
}

// OTPPurpose tags a one-time code with the flow that issued it
type OTPPurpose string

const (
	OTPPurposeEmail          OTPPurpose = "email"
	OTPPurposeChangePassword OTPPurpose = "changePassword"
)

// Prefix returns the single-character code prefix for the purpose
func (p OTPPurpose) Prefix() string {
	switch p {
	case OTPPurposeEmail:
		return "E"
	case OTPPurposeChangePassword:
		return "C"
	default:
		return ""
	}
}

// Window returns how long a code of this purpose stays valid after issuance
func (p OTPPurpose) Window() time.Duration {
	switch p {
	case OTPPurposeEmail:
		return 5 * time.Minute
	case OTPPurposeChangePassword:
		return 10 * time.Minute
	default:
		return 0
	}
}

// ParseOTPPurpose maps a client supplied mode onto a purpose
func ParseOTPPurpose(mode string) (OTPPurpose, error) {
	switch OTPPurpose(mode) {
	case OTPPurposeEmail, OTPPurposeChangePassword:
		return OTPPurpose(mode), nil
	default:
		return "", &ValidationError{Message: "mode must be email or changePassword", Field: "mode"}
	}
}

// LikeTarget identifies the kind of entity a like row points at
type LikeTarget int

const (
	LikeTargetPost LikeTarget = iota + 1
	LikeTargetComment
)

func (t LikeTarget) String() string {
	switch t {
	case LikeTargetPost:
		return "post"
	case LikeTargetComment:
		return "comment"
	default:
		return "unknown"
	}
}
