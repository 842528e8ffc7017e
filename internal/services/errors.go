package services

import "errors"

// Sentinel errors shared by the service layer. Handlers map these to
// HTTP status codes with errors.Is; existence is always checked before
// ownership, so NotFound and Forbidden stay distinct outcomes.
var (
	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the resource exists but is owned by another musician.
	ErrForbidden = errors.New("access denied")
	// ErrNotPublic means the press kit exists but is not publicly visible.
	ErrNotPublic = errors.New("press kit is not publicly available")
	// ErrUserExists means the registration email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidResetToken means the password reset token is bad or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)
