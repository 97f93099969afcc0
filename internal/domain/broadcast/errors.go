package broadcast

import "errors"

var (
	ErrBroadcastNotFound = errors.New("broadcast not found")
	ErrRecipientNotFound = errors.New("one or more recipients do not exist")
	ErrNoRecipients      = errors.New("broadcast has no recipients")
)
