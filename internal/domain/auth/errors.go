package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrGoogleNotEnabled   = errors.New("google sign-in is not enabled")
	ErrGoogleEmailUnknown = errors.New("no account is registered for this google email")
)
