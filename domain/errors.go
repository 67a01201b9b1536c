package domain

import "errors"

// Input errors
var (
	ErrValidation  = errors.New("invalid input")
	ErrUnknownRole = errors.New("unknown role")
)

// Identity errors
var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateIdentity  = errors.New("identity already exists")
)

// OTP errors
var (
	ErrChallengeNotFound = errors.New("otp challenge not found")
	ErrChallengeExpired  = errors.New("otp challenge has expired")
	ErrChallengeInvalid  = errors.New("invalid otp code")
	ErrRateLimited       = errors.New("otp resend cooldown active")
	ErrDelivery          = errors.New("otp delivery failed")
)

// Store errors
var (
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// IsStoreFailure reports whether err is an operational store failure rather than an expected lookup outcome.
func IsStoreFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrIdentityNotFound) &&
		!errors.Is(err, ErrChallengeNotFound) &&
		!errors.Is(err, ErrDuplicateIdentity)
}
