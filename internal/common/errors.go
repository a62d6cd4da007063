// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Registration: the identity (email) is already taken.
	ErrDuplicateIdentity = errors.New("identity already registered")

	// Login: wrong password or unknown identity. Deliberately a single
	// value so callers cannot tell the two cases apart.
	ErrInvalidCredentials = errors.New("invalid identity or password")

	// Access-token verification (malformed, tampered, or expired).
	ErrInvalidToken = errors.New("invalid token")

	// Refresh: token missing, revoked, or past expiry.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")

	// Revoke: no refresh token with that value exists.
	ErrTokenNotFound = errors.New("refresh token not found")
)
