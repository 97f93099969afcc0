package invitation

import "errors"

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationInvalid covers unknown, expired and already used tokens alike.
	ErrInvitationInvalid       = errors.New("invalid or expired invitation")
	ErrInvitationAlreadyUsed   = errors.New("invitation already used")
	ErrInvitationEmailMismatch = errors.New("email does not match invitation")
	ErrPendingInvitationExists = errors.New("an active invitation already exists for this email")
	ErrEmailAlreadyRegistered  = errors.New("email already registered")
)
