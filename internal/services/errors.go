package services

import "errors"

// Sentinel errors returned by services. Handlers map them onto HTTP status
// codes with errors.Is; repository sentinels (ErrNotFound, ErrDuplicate) pass
// through services unchanged.
var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWrongPassword is returned when the current password given for a
	// password change does not match.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrInvalidResetToken is returned for an unknown or expired reset token.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrUsernameTaken and ErrEmailTaken distinguish the two registration
	// conflicts so the handler can report which field collided.
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already in use")
	// ErrInvalidInput marks request content a service rejects before touching
	// the store, such as an over-long story text.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMailNotConfigured is returned when a flow that cannot proceed without
	// email delivery finds SMTP unconfigured.
	ErrMailNotConfigured = errors.New("email service not configured")
)
