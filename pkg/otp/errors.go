package otp

import "errors"

// Common errors returned by the OTP package.
var (
	// ErrInvalidCode indicates the provided OTP code is invalid.
	ErrInvalidCode = errors.New("otp: invalid code")
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("otp: invalid configuration")
	// ErrNilAuthenticator indicates a nil authenticator was used.
	ErrNilAuthenticator = errors.New("otp: authenticator is nil")
	// ErrInvalidLength indicates a secret length outside [MinSecretLength, MaxSecretLength].
	ErrInvalidLength = errors.New("otp: invalid secret length")
	// ErrNoSecureRandomSource indicates no cryptographically secure random
	// source could supply the secret.
	ErrNoSecureRandomSource = errors.New("otp: no secure random source")
	// ErrInvalidSecret indicates the secret is not valid base32.
	ErrInvalidSecret = errors.New("otp: invalid secret")
	// ErrInvalidCandidateLength indicates a code whose length differs from
	// the configured number of digits.
	ErrInvalidCandidateLength = errors.New("otp: invalid code length")
)
