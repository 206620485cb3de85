package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the iat claim is further in the future than clock skew allows
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrCrypto indicates the password hashing primitive itself failed.
	ErrCrypto = errors.New("password hashing failed")

	// ErrPoolStopped is returned when work is submitted after the hashing pool stopped.
	ErrPoolStopped = errors.New("hashing pool stopped")
)
